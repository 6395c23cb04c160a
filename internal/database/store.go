package database

import (
	"context"

	"secretreels/internal/models"

	"github.com/google/uuid"
)

// Store defines the ledger operations the rest of the system depends
// on. MongoDB is the production implementation; tests use the in-memory
// fake in databasetest.
type Store interface {
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserActivity(ctx context.Context, id uuid.UUID) error

	// Person methods
	SavePerson(ctx context.Context, person *models.Person) error
	GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error)
	DeletePerson(ctx context.Context, id uuid.UUID) error
	ListPersonsBefore(ctx context.Context, mark *models.FeedMark, limit int) ([]*models.Person, error)

	// Secret methods
	SaveSecret(ctx context.Context, secret *models.Secret) error
	GetPersonSecrets(ctx context.Context, personID uuid.UUID, limit int) ([]*models.Secret, error)

	// Vote methods
	ReconcileVote(ctx context.Context, voterID, itemID uuid.UUID, itemType models.VoteContentType, requested models.VoteDirection) (*models.VoteResult, error)
	GetViewerVotes(ctx context.Context, viewerID uuid.UUID, itemIDs []uuid.UUID, itemType models.VoteContentType) (map[uuid.UUID]models.VoteDirection, error)

	// Comment methods
	AddComment(ctx context.Context, comment *models.Comment) (int, error)
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	RemoveComment(ctx context.Context, id uuid.UUID) (int, error)
	GetPersonComments(ctx context.Context, personID uuid.UUID) ([]*models.Comment, error)
}
