package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is a shared profile that secrets and comments hang off of.
// The counter fields are denormalized and only ever change inside a
// ledger transaction that also read them.
type Person struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"ownerId"`
	Name            string    `json:"name"`
	Blurb           string    `json:"blurb,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	Upvotes         int       `json:"upvotes"`
	Downvotes       int       `json:"downvotes"`
	CommentCount    int       `json:"commentCount"`
	CurrentUserVote *string   `json:"currentUserVote,omitempty"`
	Secrets         []*Secret `json:"secrets,omitempty"`
}
