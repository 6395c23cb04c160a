package actors

import (
	"context"
	"testing"
	"time"

	"secretreels/internal/database/databasetest"
	"secretreels/internal/feed"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const askTimeout = 5 * time.Second

func spawnPersonActor(t *testing.T, store *databasetest.FakeStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	assembler := feed.NewAssembler(store, 5, 3)
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPersonActor(store, assembler, utils.NewMetricsCollector(), 3)
	})
	return system, system.Root.Spawn(props)
}

func ask(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, askTimeout)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func seedPerson(t *testing.T, store *databasetest.FakeStore) *models.Person {
	t.Helper()
	person := &models.Person{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Name:      "test person",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.SavePerson(context.Background(), person))
	return person
}

func TestPersonActorCreateAndGet(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)

	ownerID := uuid.New()
	result := ask(t, system, pid, &CreatePersonMsg{
		OwnerID: ownerID,
		Name:    "midnight confessor",
		Blurb:   "keeps everyone's secrets",
	})

	person := result.(*models.Person)
	assert.Equal(t, "midnight confessor", person.Name)
	assert.Equal(t, ownerID, person.OwnerID)
	assert.Zero(t, person.Upvotes)

	fetched := ask(t, system, pid, &GetPersonMsg{PersonID: person.ID}).(*models.Person)
	assert.Equal(t, person.ID, fetched.ID)
}

func TestPersonActorCreateValidation(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)

	result := ask(t, system, pid, &CreatePersonMsg{OwnerID: uuid.Nil, Name: "x"})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrUnauthenticated, appErr.Code)

	result = ask(t, system, pid, &CreatePersonMsg{OwnerID: uuid.New(), Name: ""})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestPersonActorVoteToggleRoundTrip(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	person := seedPerson(t, store)
	voter := uuid.New()

	// Fresh upvote.
	result := ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: voter, Direction: models.VoteUp,
	}).(*models.VoteResult)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, models.VoteUp, result.VoterState)
	assert.Equal(t, 1, store.VoteRecordCount(person.ID))

	// Same direction again retracts.
	result = ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: voter, Direction: models.VoteUp,
	}).(*models.VoteResult)
	assert.Equal(t, 0, result.Upvotes)
	assert.Equal(t, models.VoteNone, result.VoterState)
	assert.Equal(t, 0, store.VoteRecordCount(person.ID))
}

func TestPersonActorVoteFlip(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	person := seedPerson(t, store)
	voter := uuid.New()

	ask(t, system, pid, &VotePersonMsg{PersonID: person.ID, VoterID: voter, Direction: models.VoteUp})
	result := ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: voter, Direction: models.VoteDown,
	}).(*models.VoteResult)

	assert.Equal(t, 0, result.Upvotes)
	assert.Equal(t, 1, result.Downvotes)
	assert.Equal(t, models.VoteDown, result.VoterState)
	// Flip replaces the record, never duplicates it.
	assert.Equal(t, 1, store.VoteRecordCount(person.ID))
}

func TestPersonActorTwoVotersAreIndependent(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	person := seedPerson(t, store)
	alice, bob := uuid.New(), uuid.New()

	ask(t, system, pid, &VotePersonMsg{PersonID: person.ID, VoterID: alice, Direction: models.VoteUp})
	result := ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: bob, Direction: models.VoteUp,
	}).(*models.VoteResult)

	assert.Equal(t, 2, result.Upvotes)
	assert.Equal(t, 2, store.VoteRecordCount(person.ID))

	// One voter retracting leaves the other's vote standing.
	result = ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: alice, Direction: models.VoteUp,
	}).(*models.VoteResult)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, 1, store.VoteRecordCount(person.ID))
}

func TestPersonActorUnauthenticatedVoteWritesNothing(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	person := seedPerson(t, store)
	before := store.WriteCount()

	result := ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: uuid.Nil, Direction: models.VoteUp,
	})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrUnauthenticated, appErr.Code)
	assert.Equal(t, before, store.WriteCount())
}

func TestPersonActorVoteRetriesThroughConflicts(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	person := seedPerson(t, store)

	// Two conflicts, then the third attempt lands.
	store.InjectConflicts(2)
	result := ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: uuid.New(), Direction: models.VoteUp,
	}).(*models.VoteResult)
	assert.Equal(t, 1, result.Upvotes)
}

func TestPersonActorVoteFailsAfterRetryExhaustion(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	person := seedPerson(t, store)

	store.InjectConflicts(3)
	result := ask(t, system, pid, &VotePersonMsg{
		PersonID: person.ID, VoterID: uuid.New(), Direction: models.VoteUp,
	})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrVoteFailed, appErr.Code)
}

func TestPersonActorVoteMissingPerson(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)

	result := ask(t, system, pid, &VotePersonMsg{
		PersonID: uuid.New(), VoterID: uuid.New(), Direction: models.VoteUp,
	})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestPersonActorDeleteRequiresModerator(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	person := seedPerson(t, store)

	result := ask(t, system, pid, &DeletePersonMsg{
		PersonID: person.ID, CallerID: uuid.New(), IsModerator: false,
	})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	ack := ask(t, system, pid, &DeletePersonMsg{
		PersonID: person.ID, CallerID: uuid.New(), IsModerator: true,
	}).(*DeletePersonAck)
	assert.Equal(t, person.ID, ack.PersonID)

	result = ask(t, system, pid, &GetPersonMsg{PersonID: person.ID})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestPersonActorGetFeed(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnPersonActor(t, store)
	for i := 0; i < 7; i++ {
		seedPerson(t, store)
	}

	page := ask(t, system, pid, &GetFeedMsg{ViewerID: uuid.Nil, PageSize: 5}).(*feed.Page)
	assert.Len(t, page.Persons, 5)
	assert.NotEmpty(t, page.NextCursor)

	page = ask(t, system, pid, &GetFeedMsg{ViewerID: uuid.Nil, Cursor: page.NextCursor, PageSize: 5}).(*feed.Page)
	assert.Len(t, page.Persons, 2)
	assert.Empty(t, page.NextCursor)
}
