// Package feed assembles paginated person pages: primary records newest
// first, a bounded number of secrets nested per person, and the viewing
// user's vote state merged in for display.
package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"

	"secretreels/internal/database"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
)

// Page is one feed page. NextCursor is empty once the feed is
// exhausted; feeding a stale cursor back in yields an empty page, not
// an error.
type Page struct {
	Persons    []*models.Person `json:"persons"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

type Assembler struct {
	store            database.Store
	pageSize         int
	secretsPerPerson int
}

func NewAssembler(store database.Store, pageSize, secretsPerPerson int) *Assembler {
	return &Assembler{
		store:            store,
		pageSize:         pageSize,
		secretsPerPerson: secretsPerPerson,
	}
}

// EncodeCursor turns a feed mark into an opaque token.
func EncodeCursor(mark models.FeedMark) string {
	raw, err := json.Marshal(mark)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque token back into a feed mark. An empty
// token means the start of the feed.
func DecodeCursor(cursor string) (*models.FeedMark, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "malformed feed cursor", err)
	}
	var mark models.FeedMark
	if err := json.Unmarshal(raw, &mark); err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "malformed feed cursor", err)
	}
	return &mark, nil
}

// NextPage fetches up to pageSize persons older than the cursor, loads
// their top secrets, and annotates everything with the viewer's standing
// votes. viewerID may be uuid.Nil for a signed-out viewer, in which case
// no vote lookup happens. A failed secret fetch degrades that one person
// to zero secrets; a failed primary fetch fails the whole page.
func (a *Assembler) NextPage(ctx context.Context, viewerID uuid.UUID, cursor string, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		pageSize = a.pageSize
	}

	mark, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	persons, err := a.store.ListPersonsBefore(ctx, mark, pageSize)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrFeedUnavailable, "failed to load feed page", err)
	}

	var secretIDs []uuid.UUID
	for _, person := range persons {
		secrets, err := a.store.GetPersonSecrets(ctx, person.ID, a.secretsPerPerson)
		if err != nil {
			// Degrade to an empty secret list rather than failing the page.
			log.Printf("Failed to load secrets for person %s: %v", person.ID, err)
			person.Secrets = []*models.Secret{}
			continue
		}
		person.Secrets = secrets
		for _, secret := range secrets {
			secretIDs = append(secretIDs, secret.ID)
		}
	}

	if viewerID != uuid.Nil && len(persons) > 0 {
		a.annotateViewerVotes(ctx, viewerID, persons, secretIDs)
	}

	page := &Page{Persons: persons}
	if page.Persons == nil {
		page.Persons = []*models.Person{}
	}
	if len(persons) == pageSize {
		last := persons[len(persons)-1]
		page.NextCursor = EncodeCursor(models.FeedMark{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// annotateViewerVotes batches one vote lookup per item type for the
// whole page and merges the directions in. Annotation failures only
// cost the annotation, never the page.
func (a *Assembler) annotateViewerVotes(ctx context.Context, viewerID uuid.UUID, persons []*models.Person, secretIDs []uuid.UUID) {
	personIDs := make([]uuid.UUID, len(persons))
	for i, person := range persons {
		personIDs[i] = person.ID
	}

	personVotes, err := a.store.GetViewerVotes(ctx, viewerID, personIDs, models.PersonVote)
	if err != nil {
		log.Printf("Failed to load viewer person votes: %v", err)
		personVotes = nil
	}
	secretVotes, err := a.store.GetViewerVotes(ctx, viewerID, secretIDs, models.SecretVote)
	if err != nil {
		log.Printf("Failed to load viewer secret votes: %v", err)
		secretVotes = nil
	}

	for _, person := range persons {
		if direction, ok := personVotes[person.ID]; ok {
			person.CurrentUserVote = directionString(direction)
		}
		for _, secret := range person.Secrets {
			if direction, ok := secretVotes[secret.ID]; ok {
				secret.CurrentUserVote = directionString(direction)
			}
		}
	}
}

func directionString(direction models.VoteDirection) *string {
	if direction != models.VoteUp && direction != models.VoteDown {
		return nil
	}
	s := string(direction)
	return &s
}
