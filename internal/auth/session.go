package auth

import "github.com/google/uuid"

// Session is the explicit authenticated-principal value passed into
// call sites. It is valid from sign-in to sign-out; nothing reads
// ambient global auth state.
type Session struct {
	UserID      uuid.UUID
	IsGuest     bool
	IsModerator bool
}

// Anonymous reports whether the session carries no usable identity.
func (s *Session) Anonymous() bool {
	return s == nil || s.UserID == uuid.Nil
}
