package models

import (
	"time"

	"github.com/google/uuid"
)

type Secret struct {
	ID              uuid.UUID `json:"id"`
	PersonID        uuid.UUID `json:"personId"`
	AuthorID        uuid.UUID `json:"authorId"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	Upvotes         int       `json:"upvotes"`
	Downvotes       int       `json:"downvotes"`
	CurrentUserVote *string   `json:"currentUserVote,omitempty"`
}
