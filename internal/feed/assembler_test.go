package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"secretreels/internal/database/databasetest"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPersons(t *testing.T, store *databasetest.FakeStore, n int) []*models.Person {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	persons := make([]*models.Person, n)
	for i := 0; i < n; i++ {
		person := &models.Person{
			ID:        uuid.New(),
			OwnerID:   uuid.New(),
			Name:      fmt.Sprintf("person-%02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.SavePerson(context.Background(), person))
		persons[i] = person
	}
	return persons
}

func TestNextPagePaginatesToExhaustion(t *testing.T) {
	store := databasetest.NewFakeStore()
	seedPersons(t, store, 12)
	assembler := NewAssembler(store, 5, 3)
	ctx := context.Background()

	page1, err := assembler.NextPage(ctx, uuid.Nil, "", 5)
	require.NoError(t, err)
	assert.Len(t, page1.Persons, 5)
	assert.NotEmpty(t, page1.NextCursor)
	// Newest first.
	assert.Equal(t, "person-11", page1.Persons[0].Name)
	assert.Equal(t, "person-07", page1.Persons[4].Name)

	page2, err := assembler.NextPage(ctx, uuid.Nil, page1.NextCursor, 5)
	require.NoError(t, err)
	assert.Len(t, page2.Persons, 5)
	assert.NotEmpty(t, page2.NextCursor)
	assert.Equal(t, "person-06", page2.Persons[0].Name)

	page3, err := assembler.NextPage(ctx, uuid.Nil, page2.NextCursor, 5)
	require.NoError(t, err)
	assert.Len(t, page3.Persons, 2)
	assert.Equal(t, "person-00", page3.Persons[1].Name)
	assert.Empty(t, page3.NextCursor, "short page ends the feed")

	// No page overlaps its predecessor.
	seen := make(map[uuid.UUID]bool)
	for _, page := range []*Page{page1, page2, page3} {
		for _, person := range page.Persons {
			assert.False(t, seen[person.ID])
			seen[person.ID] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestNextPageStaleCursorYieldsEmptyPage(t *testing.T) {
	store := databasetest.NewFakeStore()
	persons := seedPersons(t, store, 3)
	assembler := NewAssembler(store, 5, 3)

	oldest := persons[0]
	stale := EncodeCursor(models.FeedMark{CreatedAt: oldest.CreatedAt, ID: oldest.ID})

	page, err := assembler.NextPage(context.Background(), uuid.Nil, stale, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Persons)
	assert.Empty(t, page.NextCursor)
}

func TestNextPageMalformedCursor(t *testing.T) {
	store := databasetest.NewFakeStore()
	assembler := NewAssembler(store, 5, 3)

	_, err := assembler.NextPage(context.Background(), uuid.Nil, "not-a-cursor!!", 5)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestNextPageNestsTopSecrets(t *testing.T) {
	store := databasetest.NewFakeStore()
	persons := seedPersons(t, store, 1)
	assembler := NewAssembler(store, 5, 3)
	ctx := context.Background()

	// Five secrets; only the newest three should be nested.
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveSecret(ctx, &models.Secret{
			ID:        uuid.New(),
			PersonID:  persons[0].ID,
			AuthorID:  uuid.New(),
			Content:   fmt.Sprintf("secret-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	page, err := assembler.NextPage(ctx, uuid.Nil, "", 5)
	require.NoError(t, err)
	require.Len(t, page.Persons, 1)
	require.Len(t, page.Persons[0].Secrets, 3)
	assert.Equal(t, "secret-4", page.Persons[0].Secrets[0].Content)
	assert.Equal(t, "secret-2", page.Persons[0].Secrets[2].Content)
}

func TestNextPageDegradesFailedSecretFetch(t *testing.T) {
	store := databasetest.NewFakeStore()
	persons := seedPersons(t, store, 2)
	assembler := NewAssembler(store, 5, 3)
	ctx := context.Background()

	for _, person := range persons {
		require.NoError(t, store.SaveSecret(ctx, &models.Secret{
			ID:        uuid.New(),
			PersonID:  person.ID,
			AuthorID:  uuid.New(),
			Content:   "whisper",
			CreatedAt: time.Now(),
		}))
	}
	store.FailSecretsFor(persons[1].ID)

	page, err := assembler.NextPage(ctx, uuid.Nil, "", 5)
	require.NoError(t, err)
	require.Len(t, page.Persons, 2)
	for _, person := range page.Persons {
		if person.ID == persons[1].ID {
			assert.Empty(t, person.Secrets, "failed fetch degrades to no secrets")
		} else {
			assert.Len(t, person.Secrets, 1)
		}
	}
}

func TestNextPagePrimaryFailure(t *testing.T) {
	store := databasetest.NewFakeStore()
	seedPersons(t, store, 3)
	store.FailListPersons(true)
	assembler := NewAssembler(store, 5, 3)

	_, err := assembler.NextPage(context.Background(), uuid.Nil, "", 5)
	assert.True(t, utils.IsErrorCode(err, utils.ErrFeedUnavailable))
}

func TestNextPageAnnotatesViewerVotes(t *testing.T) {
	store := databasetest.NewFakeStore()
	persons := seedPersons(t, store, 2)
	assembler := NewAssembler(store, 5, 3)
	ctx := context.Background()

	secret := &models.Secret{
		ID:        uuid.New(),
		PersonID:  persons[0].ID,
		AuthorID:  uuid.New(),
		Content:   "whisper",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.SaveSecret(ctx, secret))

	viewer := uuid.New()
	_, err := store.ReconcileVote(ctx, viewer, persons[0].ID, models.PersonVote, models.VoteUp)
	require.NoError(t, err)
	_, err = store.ReconcileVote(ctx, viewer, secret.ID, models.SecretVote, models.VoteDown)
	require.NoError(t, err)

	page, err := assembler.NextPage(ctx, viewer, "", 5)
	require.NoError(t, err)
	require.Len(t, page.Persons, 2)

	for _, person := range page.Persons {
		if person.ID == persons[0].ID {
			require.NotNil(t, person.CurrentUserVote)
			assert.Equal(t, "up", *person.CurrentUserVote)
			require.Len(t, person.Secrets, 1)
			require.NotNil(t, person.Secrets[0].CurrentUserVote)
			assert.Equal(t, "down", *person.Secrets[0].CurrentUserVote)
		} else {
			assert.Nil(t, person.CurrentUserVote)
		}
	}

	// Signed-out viewers get no annotation at all.
	anonPage, err := assembler.NextPage(ctx, uuid.Nil, "", 5)
	require.NoError(t, err)
	for _, person := range anonPage.Persons {
		assert.Nil(t, person.CurrentUserVote)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	mark := models.FeedMark{
		CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		ID:        uuid.New(),
	}
	decoded, err := DecodeCursor(EncodeCursor(mark))
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, mark.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, mark.ID, decoded.ID)
}
