// Package databasetest provides an in-memory Store implementation for
// tests. It mirrors the ledger's transactional semantics (atomic
// reconciliation, counter clamping, one vote record per voter and item)
// and adds write counting plus injectable transaction conflicts.
package databasetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
)

type voteKey struct {
	VoterID  uuid.UUID
	ItemID   uuid.UUID
	ItemType models.VoteContentType
}

// FakeStore is a drop-in database.Store for tests.
type FakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	persons  map[uuid.UUID]*models.Person
	secrets  map[uuid.UUID]*models.Secret
	comments map[uuid.UUID]*models.Comment
	votes    map[voteKey]*models.VoteRecord

	// writeCount increments once per mutating call that reached the store.
	writeCount int

	// pendingConflicts makes the next N conflict-prone calls fail with
	// TX_CONFLICT before mutating anything.
	pendingConflicts int

	// failListPersons makes ListPersonsBefore fail, for feed error tests.
	failListPersons bool
	// failSecretsFor makes GetPersonSecrets fail for one person only.
	failSecretsFor map[uuid.UUID]bool
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		users:          make(map[uuid.UUID]*models.User),
		persons:        make(map[uuid.UUID]*models.Person),
		secrets:        make(map[uuid.UUID]*models.Secret),
		comments:       make(map[uuid.UUID]*models.Comment),
		votes:          make(map[voteKey]*models.VoteRecord),
		failSecretsFor: make(map[uuid.UUID]bool),
	}
}

// WriteCount reports how many mutating store calls have been applied.
func (f *FakeStore) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCount
}

// InjectConflicts makes the next n conflict-prone calls return TX_CONFLICT.
func (f *FakeStore) InjectConflicts(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingConflicts = n
}

// FailListPersons toggles primary feed query failure.
func (f *FakeStore) FailListPersons(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failListPersons = fail
}

// FailSecretsFor makes secondary fetches fail for one person.
func (f *FakeStore) FailSecretsFor(personID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSecretsFor[personID] = true
}

// VoteRecordCount reports how many vote records exist for an item.
func (f *FakeStore) VoteRecordCount(itemID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for key := range f.votes {
		if key.ItemID == itemID {
			n++
		}
	}
	return n
}

func (f *FakeStore) consumeConflict() bool {
	if f.pendingConflicts > 0 {
		f.pendingConflicts--
		return true
	}
	return false
}

func (f *FakeStore) Close(ctx context.Context) error { return nil }

// --- Users ---

func (f *FakeStore) SaveUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	f.writeCount++
	return nil
}

func (f *FakeStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	copied := *user
	return &copied, nil
}

func (f *FakeStore) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.GoogleID == googleID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "User not found", nil)
}

func (f *FakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "User not found", nil)
}

func (f *FakeStore) UpdateUserActivity(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	user.LastActive = time.Now()
	f.writeCount++
	return nil
}

// --- Persons ---

func (f *FakeStore) SavePerson(ctx context.Context, person *models.Person) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *person
	copied.Secrets = nil
	f.persons[person.ID] = &copied
	f.writeCount++
	return nil
}

func (f *FakeStore) GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	person, ok := f.persons[id]
	if !ok {
		return nil, utils.NewItemNotFoundError(id.String())
	}
	copied := *person
	return &copied, nil
}

func (f *FakeStore) DeletePerson(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.persons[id]; !ok {
		return utils.NewItemNotFoundError(id.String())
	}
	delete(f.persons, id)
	for commentID, comment := range f.comments {
		if comment.PersonID == id {
			delete(f.comments, commentID)
		}
	}
	doomed := map[uuid.UUID]bool{id: true}
	for secretID, secret := range f.secrets {
		if secret.PersonID == id {
			doomed[secretID] = true
			delete(f.secrets, secretID)
		}
	}
	for key := range f.votes {
		if doomed[key.ItemID] {
			delete(f.votes, key)
		}
	}
	f.writeCount++
	return nil
}

func (f *FakeStore) ListPersonsBefore(ctx context.Context, mark *models.FeedMark, limit int) ([]*models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListPersons {
		return nil, utils.NewAppError(utils.ErrDatabase, "list persons failed", nil)
	}

	all := make([]*models.Person, 0, len(f.persons))
	for _, person := range f.persons {
		all = append(all, person)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	result := make([]*models.Person, 0, limit)
	for _, person := range all {
		if mark != nil {
			older := person.CreatedAt.Before(mark.CreatedAt) ||
				(person.CreatedAt.Equal(mark.CreatedAt) && person.ID.String() < mark.ID.String())
			if !older {
				continue
			}
		}
		copied := *person
		result = append(result, &copied)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// --- Secrets ---

func (f *FakeStore) SaveSecret(ctx context.Context, secret *models.Secret) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.persons[secret.PersonID]; !ok {
		return utils.NewItemNotFoundError(secret.PersonID.String())
	}
	copied := *secret
	f.secrets[secret.ID] = &copied
	f.writeCount++
	return nil
}

func (f *FakeStore) GetPersonSecrets(ctx context.Context, personID uuid.UUID, limit int) ([]*models.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSecretsFor[personID] {
		return nil, utils.NewAppError(utils.ErrDatabase, "secret fetch failed", nil)
	}

	var secrets []*models.Secret
	for _, secret := range f.secrets {
		if secret.PersonID == personID {
			copied := *secret
			secrets = append(secrets, &copied)
		}
	}
	sort.Slice(secrets, func(i, j int) bool {
		return secrets[i].CreatedAt.After(secrets[j].CreatedAt)
	})
	if limit > 0 && len(secrets) > limit {
		secrets = secrets[:limit]
	}
	return secrets, nil
}

// --- Votes ---

func (f *FakeStore) ReconcileVote(ctx context.Context, voterID, itemID uuid.UUID, itemType models.VoteContentType, requested models.VoteDirection) (*models.VoteResult, error) {
	if requested != models.VoteUp && requested != models.VoteDown {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "invalid vote direction", nil)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.consumeConflict() {
		return nil, utils.NewAppError(utils.ErrTxConflict, "injected conflict", nil)
	}

	var upvotes, downvotes *int
	switch itemType {
	case models.SecretVote:
		secret, ok := f.secrets[itemID]
		if !ok {
			return nil, utils.NewItemNotFoundError(itemID.String())
		}
		upvotes, downvotes = &secret.Upvotes, &secret.Downvotes
	default:
		person, ok := f.persons[itemID]
		if !ok {
			return nil, utils.NewItemNotFoundError(itemID.String())
		}
		upvotes, downvotes = &person.Upvotes, &person.Downvotes
	}

	key := voteKey{VoterID: voterID, ItemID: itemID, ItemType: itemType}
	current := models.VoteNone
	if record, ok := f.votes[key]; ok {
		current = record.Direction
	}

	res := models.ResolveVote(current, requested)

	*upvotes += res.UpDelta
	if *upvotes < 0 {
		*upvotes = 0
	}
	*downvotes += res.DownDelta
	if *downvotes < 0 {
		*downvotes = 0
	}

	now := time.Now()
	switch res.RecordOp {
	case models.RecordInsert:
		f.votes[key] = &models.VoteRecord{
			ID:        uuid.New(),
			VoterID:   voterID,
			ItemID:    itemID,
			ItemType:  itemType,
			Direction: res.NewState,
			CreatedAt: now,
			UpdatedAt: now,
		}
	case models.RecordUpdate:
		f.votes[key].Direction = res.NewState
		f.votes[key].UpdatedAt = now
	case models.RecordDelete:
		delete(f.votes, key)
	}
	f.writeCount++

	return &models.VoteResult{
		ItemID:     itemID,
		ItemType:   itemType,
		Upvotes:    *upvotes,
		Downvotes:  *downvotes,
		VoterState: res.NewState,
	}, nil
}

func (f *FakeStore) GetViewerVotes(ctx context.Context, viewerID uuid.UUID, itemIDs []uuid.UUID, itemType models.VoteContentType) (map[uuid.UUID]models.VoteDirection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	votes := make(map[uuid.UUID]models.VoteDirection, len(itemIDs))
	for _, itemID := range itemIDs {
		key := voteKey{VoterID: viewerID, ItemID: itemID, ItemType: itemType}
		if record, ok := f.votes[key]; ok {
			votes[itemID] = record.Direction
		}
	}
	return votes, nil
}

// --- Comments ---

func (f *FakeStore) AddComment(ctx context.Context, comment *models.Comment) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.consumeConflict() {
		return 0, utils.NewAppError(utils.ErrTxConflict, "injected conflict", nil)
	}

	person, ok := f.persons[comment.PersonID]
	if !ok {
		return 0, utils.NewItemNotFoundError(comment.PersonID.String())
	}

	copied := *comment
	f.comments[comment.ID] = &copied
	person.CommentCount++
	f.writeCount++
	return person.CommentCount, nil
}

func (f *FakeStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	copied := *comment
	return &copied, nil
}

func (f *FakeStore) RemoveComment(ctx context.Context, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.consumeConflict() {
		return 0, utils.NewAppError(utils.ErrTxConflict, "injected conflict", nil)
	}

	comment, ok := f.comments[id]
	if !ok {
		return 0, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	delete(f.comments, id)
	f.writeCount++

	person, ok := f.persons[comment.PersonID]
	if !ok {
		return 0, nil
	}
	person.CommentCount--
	if person.CommentCount < 0 {
		person.CommentCount = 0
	}
	return person.CommentCount, nil
}

func (f *FakeStore) GetPersonComments(ctx context.Context, personID uuid.UUID) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var comments []*models.Comment
	for _, comment := range f.comments {
		if comment.PersonID == personID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}
