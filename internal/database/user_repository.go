package database

import (
	"context"
	"fmt"
	"time"

	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDocument represents user data in MongoDB.
type UserDocument struct {
	ID             string    `bson:"_id"`
	DisplayName    string    `bson:"displayName"`
	Email          string    `bson:"email,omitempty"`
	GoogleID       string    `bson:"googleId,omitempty"`
	IsGuest        bool      `bson:"isGuest"`
	IsModerator    bool      `bson:"isModerator"`
	HashedPassword string    `bson:"hashedPassword,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
	LastActive     time.Time `bson:"lastActive"`
}

func userModelToDocument(user *models.User) *UserDocument {
	return &UserDocument{
		ID:             user.ID.String(),
		DisplayName:    user.DisplayName,
		Email:          user.Email,
		GoogleID:       user.GoogleID,
		IsGuest:        user.IsGuest,
		IsModerator:    user.IsModerator,
		HashedPassword: user.HashedPassword,
		CreatedAt:      user.CreatedAt,
		LastActive:     user.LastActive,
	}
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	return &models.User{
		ID:             id,
		DisplayName:    doc.DisplayName,
		Email:          doc.Email,
		GoogleID:       doc.GoogleID,
		IsGuest:        doc.IsGuest,
		IsModerator:    doc.IsModerator,
		HashedPassword: doc.HashedPassword,
		CreatedAt:      doc.CreatedAt,
		LastActive:     doc.LastActive,
	}, nil
}

// SaveUser creates or updates a user in MongoDB.
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := userModelToDocument(user)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetUser retrieves a user by ID.
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// GetUserByGoogleID retrieves a user by their Google account ID.
func (m *MongoDB) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"googleId": googleID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// GetUserByEmail retrieves a user by email. Used by moderator sign-in.
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// UpdateUserActivity stamps the user's last-active time.
func (m *MongoDB) UpdateUserActivity(ctx context.Context, id uuid.UUID) error {
	update := bson.M{"$set": bson.M{"lastActive": time.Now()}}
	result, err := m.Users.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	return nil
}
