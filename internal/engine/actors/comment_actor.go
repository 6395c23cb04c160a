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

// Message types for Comment operations
type (
	AddCommentMsg struct {
		PersonID uuid.UUID
		AuthorID uuid.UUID
		Content  string
	}

	RemoveCommentMsg struct {
		CommentID   uuid.UUID
		CallerID    uuid.UUID
		IsModerator bool
	}

	GetPersonCommentsMsg struct {
		PersonID uuid.UUID
	}
)

// CommentResult carries the stored comment together with the parent's
// new comment count from the same transaction.
type CommentResult struct {
	Comment      *models.Comment `json:"comment"`
	PersonID     uuid.UUID       `json:"personId"`
	CommentCount int             `json:"commentCount"`
}

// CommentRemoval reports the parent's comment count after a removal.
type CommentRemoval struct {
	CommentID    uuid.UUID `json:"commentId"`
	PersonID     uuid.UUID `json:"personId"`
	CommentCount int       `json:"commentCount"`
}

// CommentActor keeps the denormalized comment count in step with the
// comment records.
type CommentActor struct {
	store           database.Store
	metrics         *utils.MetricsCollector
	voteMaxAttempts int
}

func NewCommentActor(store database.Store, metrics *utils.MetricsCollector, voteMaxAttempts int) actor.Actor {
	return &CommentActor{
		store:           store,
		metrics:         metrics,
		voteMaxAttempts: voteMaxAttempts,
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommentActor started")
	case *AddCommentMsg:
		a.handleAddComment(context, msg)
	case *RemoveCommentMsg:
		a.handleRemoveComment(context, msg)
	case *GetPersonCommentsMsg:
		a.handleGetPersonComments(context, msg)
	}
}

func (a *CommentActor) handleAddComment(actCtx actor.Context, msg *AddCommentMsg) {
	startTime := time.Now()

	if msg.AuthorID == uuid.Nil {
		actCtx.Respond(utils.NewUnauthenticatedError("commenting requires an identity"))
		return
	}
	if msg.Content == "" {
		actCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "comment content is required", nil))
		return
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		PersonID:  msg.PersonID,
		AuthorID:  msg.AuthorID,
		Content:   msg.Content,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	var newCount int
	err := database.WithTxRetry(a.voteMaxAttempts, func() error {
		var err error
		newCount, err = a.store.AddComment(ctx, comment)
		return err
	})
	if err != nil {
		actCtx.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("add_comment", time.Since(startTime))
	actCtx.Respond(&CommentResult{
		Comment:      comment,
		PersonID:     comment.PersonID,
		CommentCount: newCount,
	})
}

func (a *CommentActor) handleRemoveComment(actCtx actor.Context, msg *RemoveCommentMsg) {
	startTime := time.Now()

	if msg.CallerID == uuid.Nil {
		actCtx.Respond(utils.NewUnauthenticatedError("removing a comment requires an identity"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	// Authorization happens before the transaction: author or moderator.
	comment, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		actCtx.Respond(err)
		return
	}
	if comment.AuthorID != msg.CallerID && !msg.IsModerator {
		actCtx.Respond(utils.NewForbiddenError("only the author or a moderator can remove a comment"))
		return
	}

	var newCount int
	err = database.WithTxRetry(a.voteMaxAttempts, func() error {
		var err error
		newCount, err = a.store.RemoveComment(ctx, msg.CommentID)
		return err
	})
	if err != nil {
		actCtx.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("remove_comment", time.Since(startTime))
	actCtx.Respond(&CommentRemoval{
		CommentID:    msg.CommentID,
		PersonID:     comment.PersonID,
		CommentCount: newCount,
	})
}

func (a *CommentActor) handleGetPersonComments(actCtx actor.Context, msg *GetPersonCommentsMsg) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	comments, err := a.store.GetPersonComments(ctx, msg.PersonID)
	if err != nil {
		actCtx.Respond(utils.NewAppError(utils.ErrDatabase, "failed to load comments", err))
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	actCtx.Respond(comments)
}
