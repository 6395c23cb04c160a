package actors

import (
	"context"
	"log"
	"time"

	"secretreels/internal/database"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Secret operations
type (
	CreateSecretMsg struct {
		PersonID uuid.UUID
		AuthorID uuid.UUID
		Content  string
	}

	VoteSecretMsg struct {
		SecretID  uuid.UUID
		VoterID   uuid.UUID
		Direction models.VoteDirection
	}

	GetPersonSecretsMsg struct {
		PersonID uuid.UUID
		Limit    int
	}
)

// SecretActor handles secret-related operations.
type SecretActor struct {
	store           database.Store
	metrics         *utils.MetricsCollector
	voteMaxAttempts int
}

func NewSecretActor(store database.Store, metrics *utils.MetricsCollector, voteMaxAttempts int) actor.Actor {
	return &SecretActor{
		store:           store,
		metrics:         metrics,
		voteMaxAttempts: voteMaxAttempts,
	}
}

func (a *SecretActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("SecretActor started")
	case *CreateSecretMsg:
		a.handleCreateSecret(context, msg)
	case *VoteSecretMsg:
		a.handleVote(context, msg)
	case *GetPersonSecretsMsg:
		a.handleGetPersonSecrets(context, msg)
	}
}

func (a *SecretActor) handleCreateSecret(actCtx actor.Context, msg *CreateSecretMsg) {
	startTime := time.Now()

	if msg.AuthorID == uuid.Nil {
		actCtx.Respond(utils.NewUnauthenticatedError("sharing a secret requires an identity"))
		return
	}
	if msg.Content == "" {
		actCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "secret content is required", nil))
		return
	}

	secret := &models.Secret{
		ID:        uuid.New(),
		PersonID:  msg.PersonID,
		AuthorID:  msg.AuthorID,
		Content:   msg.Content,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := a.store.SaveSecret(ctx, secret); err != nil {
		actCtx.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_secret", time.Since(startTime))
	actCtx.Respond(secret)
}

func (a *SecretActor) handleVote(actCtx actor.Context, msg *VoteSecretMsg) {
	startTime := time.Now()

	if msg.VoterID == uuid.Nil {
		actCtx.Respond(utils.NewUnauthenticatedError("voting requires a signed-in or guest identity"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	var result *models.VoteResult
	err := database.WithTxRetry(a.voteMaxAttempts, func() error {
		var err error
		result, err = a.store.ReconcileVote(ctx, msg.VoterID, msg.SecretID, models.SecretVote, msg.Direction)
		return err
	})
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrTxConflict) {
			err = utils.NewVoteFailedError(a.voteMaxAttempts, err)
		}
		actCtx.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("vote_secret", time.Since(startTime))
	actCtx.Respond(result)
}

func (a *SecretActor) handleGetPersonSecrets(actCtx actor.Context, msg *GetPersonSecretsMsg) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	secrets, err := a.store.GetPersonSecrets(ctx, msg.PersonID, msg.Limit)
	if err != nil {
		actCtx.Respond(utils.NewAppError(utils.ErrDatabase, "failed to load secrets", err))
		return
	}
	if secrets == nil {
		secrets = []*models.Secret{}
	}
	actCtx.Respond(secrets)
}
