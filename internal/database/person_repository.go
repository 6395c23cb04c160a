// internal/database/person_repository.go
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

// PersonDocument represents the MongoDB schema for a person.
type PersonDocument struct {
	ID           string    `bson:"_id"`
	OwnerID      string    `bson:"ownerId"`
	Name         string    `bson:"name"`
	Blurb        string    `bson:"blurb,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	Upvotes      int       `bson:"upvotes"`
	Downvotes    int       `bson:"downvotes"`
	CommentCount int       `bson:"commentCount"`
}

func personModelToDocument(person *models.Person) *PersonDocument {
	return &PersonDocument{
		ID:           person.ID.String(),
		OwnerID:      person.OwnerID.String(),
		Name:         person.Name,
		Blurb:        person.Blurb,
		CreatedAt:    person.CreatedAt,
		Upvotes:      person.Upvotes,
		Downvotes:    person.Downvotes,
		CommentCount: person.CommentCount,
	}
}

func personDocumentToModel(doc *PersonDocument) (*models.Person, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid person ID: %v", err)
	}

	ownerID, err := uuid.Parse(doc.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID: %v", err)
	}

	return &models.Person{
		ID:           id,
		OwnerID:      ownerID,
		Name:         doc.Name,
		Blurb:        doc.Blurb,
		CreatedAt:    doc.CreatedAt,
		Upvotes:      doc.Upvotes,
		Downvotes:    doc.Downvotes,
		CommentCount: doc.CommentCount,
	}, nil
}

// SavePerson creates or updates a person in MongoDB.
func (m *MongoDB) SavePerson(ctx context.Context, person *models.Person) error {
	doc := personModelToDocument(person)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": person.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Persons.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetPerson retrieves a person by ID.
func (m *MongoDB) GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	var doc PersonDocument

	err := m.Persons.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewItemNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}

	return personDocumentToModel(&doc)
}

// DeletePerson removes a person and everything hanging off of it:
// secrets, comments, and vote records for the person and its secrets.
// All of it happens in one transaction so moderation never leaves
// orphaned counters behind.
func (m *MongoDB) DeletePerson(ctx context.Context, id uuid.UUID) error {
	return m.RunTransaction(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Persons.DeleteOne(sc, bson.M{"_id": id.String()})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return utils.NewItemNotFoundError(id.String())
		}

		// Collect secret IDs before deleting them so their votes can go too.
		cursor, err := m.Secrets.Find(sc, bson.M{"personId": id.String()})
		if err != nil {
			return err
		}
		itemIDs := []string{id.String()}
		for cursor.Next(sc) {
			var doc struct {
				ID string `bson:"_id"`
			}
			if err := cursor.Decode(&doc); err != nil {
				cursor.Close(sc)
				return err
			}
			itemIDs = append(itemIDs, doc.ID)
		}
		if err := cursor.Err(); err != nil {
			cursor.Close(sc)
			return err
		}
		cursor.Close(sc)

		if _, err := m.Secrets.DeleteMany(sc, bson.M{"personId": id.String()}); err != nil {
			return err
		}
		if _, err := m.Comments.DeleteMany(sc, bson.M{"personId": id.String()}); err != nil {
			return err
		}
		if _, err := m.Votes.DeleteMany(sc, bson.M{"itemId": bson.M{"$in": itemIDs}}); err != nil {
			return err
		}
		return nil
	})
}

// ListPersonsBefore retrieves up to limit persons older than the given
// mark, newest first. A nil mark starts from the newest person.
func (m *MongoDB) ListPersonsBefore(ctx context.Context, mark *models.FeedMark, limit int) ([]*models.Person, error) {
	filter := bson.M{}
	if mark != nil {
		filter = bson.M{
			"$or": []bson.M{
				{"createdAt": bson.M{"$lt": mark.CreatedAt}},
				{
					"createdAt": mark.CreatedAt,
					"_id":       bson.M{"$lt": mark.ID.String()},
				},
			},
		}
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetLimit(int64(limit))

	cursor, err := m.Persons.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	var persons []*models.Person
	for cursor.Next(ctx) {
		var doc PersonDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding person document: %v", err)
			continue
		}

		person, err := personDocumentToModel(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		persons = append(persons, person)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return persons, nil
}
