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

// CommentDocument represents comment data in MongoDB.
type CommentDocument struct {
	ID        string    `bson:"_id"`
	PersonID  string    `bson:"personId"`
	AuthorID  string    `bson:"authorId"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
}

func commentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %v", err)
	}

	personID, err := uuid.Parse(doc.PersonID)
	if err != nil {
		return nil, fmt.Errorf("invalid person ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	return &models.Comment{
		ID:        id,
		PersonID:  personID,
		AuthorID:  authorID,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// AddComment writes the comment and increments the person's comment
// count inside one transaction. Returns the new count. Fails with
// NOT_FOUND and no mutation if the person is missing.
func (m *MongoDB) AddComment(ctx context.Context, comment *models.Comment) (int, error) {
	doc := CommentDocument{
		ID:        comment.ID.String(),
		PersonID:  comment.PersonID.String(),
		AuthorID:  comment.AuthorID.String(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}

	newCount := 0
	err := m.RunTransaction(ctx, func(sc mongo.SessionContext) error {
		var person struct {
			CommentCount int `bson:"commentCount"`
		}
		err := m.Persons.FindOne(sc, bson.M{"_id": doc.PersonID}).Decode(&person)
		if err == mongo.ErrNoDocuments {
			return utils.NewItemNotFoundError(doc.PersonID)
		}
		if err != nil {
			return err
		}

		if _, err := m.Comments.InsertOne(sc, doc); err != nil {
			return err
		}

		newCount = person.CommentCount + 1
		update := bson.M{"$set": bson.M{"commentCount": newCount}}
		if _, err := m.Persons.UpdateOne(sc, bson.M{"_id": doc.PersonID}, update); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// GetComment retrieves a comment by ID.
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %v", err)
	}

	return commentDocumentToModel(&doc)
}

// RemoveComment deletes the comment and decrements the person's comment
// count, clamped at zero, inside one transaction. Returns the new count.
// Authorization is the caller's concern and happens before this is
// reached.
func (m *MongoDB) RemoveComment(ctx context.Context, id uuid.UUID) (int, error) {
	newCount := 0
	err := m.RunTransaction(ctx, func(sc mongo.SessionContext) error {
		var doc CommentDocument
		err := m.Comments.FindOne(sc, bson.M{"_id": id.String()}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
		}
		if err != nil {
			return err
		}

		if _, err := m.Comments.DeleteOne(sc, bson.M{"_id": doc.ID}); err != nil {
			return err
		}

		var person struct {
			CommentCount int `bson:"commentCount"`
		}
		err = m.Persons.FindOne(sc, bson.M{"_id": doc.PersonID}).Decode(&person)
		if err == mongo.ErrNoDocuments {
			// Person already gone; nothing left to decrement.
			log.Printf("Person %s missing while removing comment %s", doc.PersonID, doc.ID)
			return nil
		}
		if err != nil {
			return err
		}

		newCount = person.CommentCount - 1
		if newCount < 0 {
			newCount = 0
		}
		update := bson.M{"$set": bson.M{"commentCount": newCount}}
		if _, err := m.Persons.UpdateOne(sc, bson.M{"_id": doc.PersonID}, update); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// GetPersonComments retrieves all comments for a person, newest first.
// The ordering is applied at read time; storage order carries no meaning.
func (m *MongoDB) GetPersonComments(ctx context.Context, personID uuid.UUID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Comments.Find(ctx, bson.M{"personId": personID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get person comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %v", err)
		}

		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, cursor.Err()
}
