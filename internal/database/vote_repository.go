// internal/database/vote_repository.go
package database

import (
	"context"
	"time"

	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VoteDocument represents vote data in MongoDB.
type VoteDocument struct {
	ID        string    `bson:"_id"`
	VoterID   string    `bson:"voterId"`
	ItemID    string    `bson:"itemId"`
	ItemType  string    `bson:"itemType"`
	Direction string    `bson:"direction"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (m *MongoDB) itemCollection(itemType models.VoteContentType) *mongo.Collection {
	if itemType == models.SecretVote {
		return m.Secrets
	}
	return m.Persons
}

// ReconcileVote moves a voter's stance on an item to the requested
// direction and adjusts the item's counters to match, as one atomic
// transaction. The current vote record and the current counters are
// both read inside the transaction; a pre-transaction lookup would
// leave a time-of-check gap. Counters clamp at zero. Returns
// TX_CONFLICT on a transient abort so the caller can retry from a
// fresh read.
func (m *MongoDB) ReconcileVote(ctx context.Context, voterID, itemID uuid.UUID, itemType models.VoteContentType, requested models.VoteDirection) (*models.VoteResult, error) {
	if requested != models.VoteUp && requested != models.VoteDown {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "invalid vote direction", nil)
	}

	voteFilter := bson.M{
		"voterId":  voterID.String(),
		"itemId":   itemID.String(),
		"itemType": string(itemType),
	}

	var result *models.VoteResult
	err := m.RunTransaction(ctx, func(sc mongo.SessionContext) error {
		current := models.VoteNone
		var voteDoc VoteDocument
		err := m.Votes.FindOne(sc, voteFilter).Decode(&voteDoc)
		switch {
		case err == mongo.ErrNoDocuments:
			// First vote on this item.
		case err != nil:
			return err
		default:
			current = models.VoteDirection(voteDoc.Direction)
		}

		coll := m.itemCollection(itemType)
		var counters struct {
			Upvotes   int `bson:"upvotes"`
			Downvotes int `bson:"downvotes"`
		}
		err = coll.FindOne(sc, bson.M{"_id": itemID.String()}).Decode(&counters)
		if err == mongo.ErrNoDocuments {
			return utils.NewItemNotFoundError(itemID.String())
		}
		if err != nil {
			return err
		}

		res := models.ResolveVote(current, requested)

		newUp := counters.Upvotes + res.UpDelta
		if newUp < 0 {
			newUp = 0
		}
		newDown := counters.Downvotes + res.DownDelta
		if newDown < 0 {
			newDown = 0
		}

		update := bson.M{"$set": bson.M{"upvotes": newUp, "downvotes": newDown}}
		if _, err := coll.UpdateOne(sc, bson.M{"_id": itemID.String()}, update); err != nil {
			return err
		}

		now := time.Now()
		switch res.RecordOp {
		case models.RecordInsert:
			doc := VoteDocument{
				ID:        uuid.New().String(),
				VoterID:   voterID.String(),
				ItemID:    itemID.String(),
				ItemType:  string(itemType),
				Direction: string(res.NewState),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := m.Votes.InsertOne(sc, doc); err != nil {
				return err
			}
		case models.RecordUpdate:
			voteUpdate := bson.M{"$set": bson.M{
				"direction": string(res.NewState),
				"updatedAt": now,
			}}
			if _, err := m.Votes.UpdateOne(sc, voteFilter, voteUpdate); err != nil {
				return err
			}
		case models.RecordDelete:
			if _, err := m.Votes.DeleteOne(sc, voteFilter); err != nil {
				return err
			}
		}

		result = &models.VoteResult{
			ItemID:     itemID,
			ItemType:   itemType,
			Upvotes:    newUp,
			Downvotes:  newDown,
			VoterState: res.NewState,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetViewerVotes looks up the viewer's standing vote for each of the
// given items in one query. Used by the feed assembler to annotate a
// page; the annotations are display-only and never written back.
func (m *MongoDB) GetViewerVotes(ctx context.Context, viewerID uuid.UUID, itemIDs []uuid.UUID, itemType models.VoteContentType) (map[uuid.UUID]models.VoteDirection, error) {
	votes := make(map[uuid.UUID]models.VoteDirection, len(itemIDs))
	if len(itemIDs) == 0 {
		return votes, nil
	}

	idStrings := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		idStrings[i] = id.String()
	}

	filter := bson.M{
		"voterId":  viewerID.String(),
		"itemId":   bson.M{"$in": idStrings},
		"itemType": string(itemType),
	}

	cursor, err := m.Votes.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc VoteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		itemID, err := uuid.Parse(doc.ItemID)
		if err != nil {
			continue
		}
		votes[itemID] = models.VoteDirection(doc.Direction)
	}

	return votes, cursor.Err()
}
