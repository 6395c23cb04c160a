package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SecretDocument represents the MongoDB schema for a secret.
type SecretDocument struct {
	ID        string    `bson:"_id"`
	PersonID  string    `bson:"personId"`
	AuthorID  string    `bson:"authorId"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
	Upvotes   int       `bson:"upvotes"`
	Downvotes int       `bson:"downvotes"`
}

func secretModelToDocument(secret *models.Secret) *SecretDocument {
	return &SecretDocument{
		ID:        secret.ID.String(),
		PersonID:  secret.PersonID.String(),
		AuthorID:  secret.AuthorID.String(),
		Content:   secret.Content,
		CreatedAt: secret.CreatedAt,
		Upvotes:   secret.Upvotes,
		Downvotes: secret.Downvotes,
	}
}

func secretDocumentToModel(doc *SecretDocument) (*models.Secret, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid secret ID: %v", err)
	}

	personID, err := uuid.Parse(doc.PersonID)
	if err != nil {
		return nil, fmt.Errorf("invalid person ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	return &models.Secret{
		ID:        id,
		PersonID:  personID,
		AuthorID:  authorID,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		Upvotes:   doc.Upvotes,
		Downvotes: doc.Downvotes,
	}, nil
}

// SaveSecret creates a secret after verifying its person exists. The
// existence check and the insert share one transaction so a concurrent
// person deletion cannot strand the secret.
func (m *MongoDB) SaveSecret(ctx context.Context, secret *models.Secret) error {
	doc := secretModelToDocument(secret)

	return m.RunTransaction(ctx, func(sc mongo.SessionContext) error {
		err := m.Persons.FindOne(sc, bson.M{"_id": secret.PersonID.String()}).Err()
		if err == mongo.ErrNoDocuments {
			return utils.NewItemNotFoundError(secret.PersonID.String())
		}
		if err != nil {
			return err
		}

		opts := options.Update().SetUpsert(true)
		filter := bson.M{"_id": doc.ID}
		update := bson.M{"$set": doc}

		_, err = m.Secrets.UpdateOne(sc, filter, update, opts)
		return err
	})
}

// GetPersonSecrets retrieves up to limit secrets for a person, newest first.
func (m *MongoDB) GetPersonSecrets(ctx context.Context, personID uuid.UUID, limit int) ([]*models.Secret, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.Secrets.Find(ctx, bson.M{"personId": personID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get person secrets: %v", err)
	}
	defer cursor.Close(ctx)

	var secrets []*models.Secret
	for cursor.Next(ctx) {
		var doc SecretDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding secret document: %v", err)
			continue
		}

		secret, err := secretDocumentToModel(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		secrets = append(secrets, secret)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return secrets, nil
}
