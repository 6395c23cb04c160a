// internal/database/database.go
package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"secretreels/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

type MongoDB struct {
	Client   *mongo.Client
	Users    *mongo.Collection
	Persons  *mongo.Collection
	Secrets  *mongo.Collection
	Comments *mongo.Collection
	Votes    *mongo.Collection
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)
	return &MongoDB{
		Client:   client,
		Users:    db.Collection("users"),
		Persons:  db.Collection("persons"),
		Secrets:  db.Collection("secrets"),
		Comments: db.Collection("comments"),
		Votes:    db.Collection("votes"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the protocol relies on. The unique
// vote index is the storage-level backstop for the one-record-per-voter
// invariant; the rest serve the feed and comment queries.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	voteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "voterId", Value: 1},
				{Key: "itemId", Value: 1},
				{Key: "itemType", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := m.Votes.Indexes().CreateMany(ctx, voteIndexes); err != nil {
		return fmt.Errorf("failed to create vote indexes: %v", err)
	}

	commentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "personId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}
	if _, err := m.Comments.Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("failed to create comment indexes: %v", err)
	}

	personIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "createdAt", Value: -1},
				{Key: "_id", Value: -1},
			},
		},
	}
	if _, err := m.Persons.Indexes().CreateMany(ctx, personIndexes); err != nil {
		return fmt.Errorf("failed to create person indexes: %v", err)
	}

	secretIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "personId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}
	if _, err := m.Secrets.Indexes().CreateMany(ctx, secretIndexes); err != nil {
		return fmt.Errorf("failed to create secret indexes: %v", err)
	}

	return nil
}

// RunTransaction executes fn as a single transactional attempt with
// snapshot reads and majority writes. A transient abort or unknown
// commit outcome comes back as a TX_CONFLICT AppError so callers can
// retry from a fresh read; everything else passes through unchanged.
func (m *MongoDB) RunTransaction(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := m.Client.StartSession()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to start session", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(txnOpts); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to start transaction", err)
		}
		if err := fn(sc); err != nil {
			_ = session.AbortTransaction(sc)
			return err
		}
		return session.CommitTransaction(sc)
	})

	if err != nil && isTransientTxError(err) {
		return utils.NewAppError(utils.ErrTxConflict, "transaction aborted by a concurrent write", err)
	}
	return err
}

// WithTxRetry runs fn until it succeeds or returns a non-conflict error,
// bounded at attempts. The caller never applies a delta computed against
// stale counters: each attempt re-reads everything inside its own
// transaction. On exhaustion the last TX_CONFLICT error is returned.
func WithTxRetry(attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !utils.IsErrorCode(err, utils.ErrTxConflict) {
			return err
		}
		log.Printf("Transaction conflict on attempt %d/%d, retrying", i+1, attempts)
	}
	return err
}

func isTransientTxError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		return writeErr.HasErrorLabel("TransientTransactionError")
	}
	// A duplicate key on the unique vote index means another transaction
	// inserted the same voter's record first; retrying reconciles against
	// the committed record.
	return mongo.IsDuplicateKeyError(err)
}
