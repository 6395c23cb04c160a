package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email,omitempty"`
	GoogleID       string    `json:"-"`
	IsGuest        bool      `json:"isGuest"`
	IsModerator    bool      `json:"isModerator"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActive     time.Time `json:"lastActive"`
}
