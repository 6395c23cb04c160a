// Package engine wires the actor system: one actor per content
// category, each owning its ledger operations.
package engine

import (
	"secretreels/internal/database"
	"secretreels/internal/engine/actors"
	"secretreels/internal/feed"
	"secretreels/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

type Engine struct {
	System     *actor.ActorSystem
	PersonPID  *actor.PID
	SecretPID  *actor.PID
	CommentPID *actor.PID
}

func NewEngine(system *actor.ActorSystem, store database.Store, assembler *feed.Assembler, metrics *utils.MetricsCollector, voteMaxAttempts int) *Engine {
	personProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPersonActor(store, assembler, metrics, voteMaxAttempts)
	})
	secretProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewSecretActor(store, metrics, voteMaxAttempts)
	})
	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(store, metrics, voteMaxAttempts)
	})

	return &Engine{
		System:     system,
		PersonPID:  system.Root.Spawn(personProps),
		SecretPID:  system.Root.Spawn(secretProps),
		CommentPID: system.Root.Spawn(commentProps),
	}
}
