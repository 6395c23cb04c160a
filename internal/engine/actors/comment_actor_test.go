package actors

import (
	"testing"

	"secretreels/internal/database/databasetest"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func spawnCommentActor(t *testing.T, store *databasetest.FakeStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(store, utils.NewMetricsCollector(), 3)
	})
	return system, system.Root.Spawn(props)
}

func TestCommentActorAddRemoveRoundTrip(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnCommentActor(t, store)
	person := seedPerson(t, store)
	author := uuid.New()

	first := ask(t, system, pid, &AddCommentMsg{
		PersonID: person.ID, AuthorID: author, Content: "first",
	}).(*CommentResult)
	assert.Equal(t, 1, first.CommentCount)
	assert.Equal(t, "first", first.Comment.Content)

	second := ask(t, system, pid, &AddCommentMsg{
		PersonID: person.ID, AuthorID: author, Content: "second",
	}).(*CommentResult)
	assert.Equal(t, 2, second.CommentCount)

	removal := ask(t, system, pid, &RemoveCommentMsg{
		CommentID: first.Comment.ID, CallerID: author,
	}).(*CommentRemoval)
	assert.Equal(t, 1, removal.CommentCount)
	assert.Equal(t, person.ID, removal.PersonID)

	comments := ask(t, system, pid, &GetPersonCommentsMsg{PersonID: person.ID}).([]*models.Comment)
	assert.Len(t, comments, 1)
	assert.Equal(t, "second", comments[0].Content)
}

func TestCommentActorRemoveAuthorization(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnCommentActor(t, store)
	person := seedPerson(t, store)
	author := uuid.New()

	comment := ask(t, system, pid, &AddCommentMsg{
		PersonID: person.ID, AuthorID: author, Content: "mine",
	}).(*CommentResult)

	// A different non-moderator caller is rejected.
	result := ask(t, system, pid, &RemoveCommentMsg{
		CommentID: comment.Comment.ID, CallerID: uuid.New(),
	})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// A moderator who is not the author may remove it.
	removal := ask(t, system, pid, &RemoveCommentMsg{
		CommentID: comment.Comment.ID, CallerID: uuid.New(), IsModerator: true,
	}).(*CommentRemoval)
	assert.Equal(t, 0, removal.CommentCount)
}

func TestCommentActorValidation(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnCommentActor(t, store)
	person := seedPerson(t, store)

	result := ask(t, system, pid, &AddCommentMsg{
		PersonID: person.ID, AuthorID: uuid.Nil, Content: "anonymous",
	})
	assert.Equal(t, utils.ErrUnauthenticated, result.(*utils.AppError).Code)

	result = ask(t, system, pid, &AddCommentMsg{
		PersonID: person.ID, AuthorID: uuid.New(), Content: "",
	})
	assert.Equal(t, utils.ErrInvalidInput, result.(*utils.AppError).Code)

	result = ask(t, system, pid, &AddCommentMsg{
		PersonID: uuid.New(), AuthorID: uuid.New(), Content: "orphan",
	})
	assert.Equal(t, utils.ErrNotFound, result.(*utils.AppError).Code)
}

func TestCommentActorRemoveMissingComment(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnCommentActor(t, store)

	result := ask(t, system, pid, &RemoveCommentMsg{
		CommentID: uuid.New(), CallerID: uuid.New(), IsModerator: true,
	})
	assert.Equal(t, utils.ErrNotFound, result.(*utils.AppError).Code)
}

func TestCommentActorCountNeverGoesNegative(t *testing.T) {
	store := databasetest.NewFakeStore()
	system, pid := spawnCommentActor(t, store)
	person := seedPerson(t, store)
	author := uuid.New()

	comment := ask(t, system, pid, &AddCommentMsg{
		PersonID: person.ID, AuthorID: author, Content: "only one",
	}).(*CommentResult)

	removal := ask(t, system, pid, &RemoveCommentMsg{
		CommentID: comment.Comment.ID, CallerID: author,
	}).(*CommentRemoval)
	assert.Equal(t, 0, removal.CommentCount)

	// Removing it again reports not-found rather than driving the
	// counter below zero.
	result := ask(t, system, pid, &RemoveCommentMsg{
		CommentID: comment.Comment.ID, CallerID: author,
	})
	assert.Equal(t, utils.ErrNotFound, result.(*utils.AppError).Code)
}
