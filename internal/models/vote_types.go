package models

import (
	"time"

	"github.com/google/uuid"
)

// VoteContentType represents the type of content being voted on.
type VoteContentType string

const (
	PersonVote VoteContentType = "person"
	SecretVote VoteContentType = "secret"
)

// VoteDirection represents the direction of a vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
	VoteNone VoteDirection = "none" // No standing vote
)

// VoteRecord is one voter's current stance on one item. At most one
// record exists per (voter, item, itemType); the unique index on the
// votes collection backs this up.
type VoteRecord struct {
	ID        uuid.UUID       `json:"id"`
	VoterID   uuid.UUID       `json:"voterId"`
	ItemID    uuid.UUID       `json:"itemId"`
	ItemType  VoteContentType `json:"itemType"`
	Direction VoteDirection   `json:"direction"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// VoteResult is the authoritative post-commit state returned to the caller.
type VoteResult struct {
	ItemID     uuid.UUID       `json:"itemId"`
	ItemType   VoteContentType `json:"itemType"`
	Upvotes    int             `json:"upvotes"`
	Downvotes  int             `json:"downvotes"`
	VoterState VoteDirection   `json:"voterState"`
}
