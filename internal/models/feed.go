package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedMark identifies the last item a viewer has seen, for keyset
// pagination. Ordering is createdAt descending with ID as tiebreaker.
type FeedMark struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        uuid.UUID `json:"id"`
}
