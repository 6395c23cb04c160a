package actors

import (
	"context"
	"log"
	"time"

	"secretreels/internal/database"
	"secretreels/internal/feed"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Person operations
type (
	CreatePersonMsg struct {
		OwnerID uuid.UUID
		Name    string
		Blurb   string
	}

	GetPersonMsg struct {
		PersonID uuid.UUID
	}

	DeletePersonMsg struct {
		PersonID    uuid.UUID
		CallerID    uuid.UUID
		IsModerator bool
	}

	VotePersonMsg struct {
		PersonID  uuid.UUID
		VoterID   uuid.UUID
		Direction models.VoteDirection
	}

	GetFeedMsg struct {
		ViewerID uuid.UUID
		Cursor   string
		PageSize int
	}
)

const storeTimeout = 5 * time.Second

// PersonActor handles person-related operations. Every mutation goes
// through the ledger store's transactions; the mailbox serializes
// requests so a duplicate in-flight action always reconciles against
// the committed state of its predecessor.
type PersonActor struct {
	store           database.Store
	assembler       *feed.Assembler
	metrics         *utils.MetricsCollector
	voteMaxAttempts int
}

func NewPersonActor(store database.Store, assembler *feed.Assembler, metrics *utils.MetricsCollector, voteMaxAttempts int) actor.Actor {
	return &PersonActor{
		store:           store,
		assembler:       assembler,
		metrics:         metrics,
		voteMaxAttempts: voteMaxAttempts,
	}
}

func (a *PersonActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("PersonActor started")
	case *actor.Stopping:
		log.Printf("PersonActor stopping")
	case *CreatePersonMsg:
		a.handleCreatePerson(context, msg)
	case *GetPersonMsg:
		a.handleGetPerson(context, msg)
	case *DeletePersonMsg:
		a.handleDeletePerson(context, msg)
	case *VotePersonMsg:
		a.handleVote(context, msg)
	case *GetFeedMsg:
		a.handleGetFeed(context, msg)
	}
}

func (a *PersonActor) handleCreatePerson(actCtx actor.Context, msg *CreatePersonMsg) {
	startTime := time.Now()

	if msg.OwnerID == uuid.Nil {
		actCtx.Respond(utils.NewUnauthenticatedError("creating a person requires an identity"))
		return
	}
	if msg.Name == "" {
		actCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "person name is required", nil))
		return
	}

	person := &models.Person{
		ID:        uuid.New(),
		OwnerID:   msg.OwnerID,
		Name:      msg.Name,
		Blurb:     msg.Blurb,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := a.store.SavePerson(ctx, person); err != nil {
		log.Printf("PersonActor: Failed to save person: %v", err)
		actCtx.Respond(utils.NewAppError(utils.ErrDatabase, "failed to save person", err))
		return
	}

	a.metrics.AddOperationLatency("create_person", time.Since(startTime))
	actCtx.Respond(person)
}

func (a *PersonActor) handleGetPerson(actCtx actor.Context, msg *GetPersonMsg) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	person, err := a.store.GetPerson(ctx, msg.PersonID)
	if err != nil {
		actCtx.Respond(err)
		return
	}
	actCtx.Respond(person)
}

func (a *PersonActor) handleDeletePerson(actCtx actor.Context, msg *DeletePersonMsg) {
	if msg.CallerID == uuid.Nil {
		actCtx.Respond(utils.NewUnauthenticatedError("deletion requires an identity"))
		return
	}
	if !msg.IsModerator {
		actCtx.Respond(utils.NewForbiddenError("only moderators can delete persons"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := a.store.DeletePerson(ctx, msg.PersonID); err != nil {
		actCtx.Respond(err)
		return
	}
	log.Printf("PersonActor: Person %s deleted by moderator %s", msg.PersonID, msg.CallerID)
	actCtx.Respond(&DeletePersonAck{PersonID: msg.PersonID})
}

type DeletePersonAck struct {
	PersonID uuid.UUID `json:"personId"`
}

func (a *PersonActor) handleVote(actCtx actor.Context, msg *VotePersonMsg) {
	startTime := time.Now()

	// Rejected before any ledger call.
	if msg.VoterID == uuid.Nil {
		actCtx.Respond(utils.NewUnauthenticatedError("voting requires a signed-in or guest identity"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	var result *models.VoteResult
	err := database.WithTxRetry(a.voteMaxAttempts, func() error {
		var err error
		result, err = a.store.ReconcileVote(ctx, msg.VoterID, msg.PersonID, models.PersonVote, msg.Direction)
		return err
	})
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrTxConflict) {
			err = utils.NewVoteFailedError(a.voteMaxAttempts, err)
		}
		actCtx.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("vote_person", time.Since(startTime))
	actCtx.Respond(result)
}

func (a *PersonActor) handleGetFeed(actCtx actor.Context, msg *GetFeedMsg) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	page, err := a.assembler.NextPage(ctx, msg.ViewerID, msg.Cursor, msg.PageSize)
	if err != nil {
		actCtx.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("get_feed", time.Since(startTime))
	actCtx.Respond(page)
}
