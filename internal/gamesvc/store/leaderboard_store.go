package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/animalia/internal/gamesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeaderboardStore struct {
	coll *mongo.Collection
}

func NewLeaderboardStore(db *mongo.Database) *LeaderboardStore {
	return &LeaderboardStore{coll: db.Collection(LeaderboardCollection)}
}

// CreateLeaderboard writes an empty board for roomID, replacing any board
// left behind by an earlier partial delete.
func (s *LeaderboardStore) CreateLeaderboard(ctx context.Context, roomID int) error {
	board := models.Leaderboard{RoomID: roomID, Entries: []models.LeaderEntry{}}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"szekreny": roomID}, board, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to create leaderboard: %w", err)
	}

	return nil
}

func (s *LeaderboardStore) GetLeaderboard(ctx context.Context, roomID int) (*models.Leaderboard, error) {
	board := &models.Leaderboard{}
	err := s.coll.FindOne(ctx, bson.M{"szekreny": roomID}).Decode(board)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("leaderboard %d: %w", roomID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return board, nil
}

func (s *LeaderboardStore) ListLeaderboards(ctx context.Context) ([]models.Leaderboard, error) {
	opts := options.Find().SetSort(bson.D{{Key: "szekreny", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboards: %w", err)
	}

	boards := []models.Leaderboard{}
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboards: %w", err)
	}

	return boards, nil
}

// ReplaceEntries overwrites the entries of the board, creating it if missing.
func (s *LeaderboardStore) ReplaceEntries(ctx context.Context, roomID int, entries []models.LeaderEntry) error {
	if entries == nil {
		entries = []models.LeaderEntry{}
	}
	board := models.Leaderboard{RoomID: roomID, Entries: entries}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"szekreny": roomID}, board, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to replace leaderboard: %w", err)
	}

	return nil
}

// RecordScore applies the upsert rule of ranking.Upsert with two conditional
// updates, so concurrent submissions for the same room never lose each other.
func (s *LeaderboardStore) RecordScore(ctx context.Context, roomID int, playerName string, score int, at time.Time) (bool, error) {
	// raise an existing, lower score
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"szekreny": roomID,
			"leaders": bson.M{"$elemMatch": bson.M{
				"nev":  playerName,
				"pont": bson.M{"$lt": score},
			}},
		},
		bson.M{"$set": bson.M{
			"leaders.$.pont":    score,
			"leaders.$.created": at,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update score: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// first result of this player
	entry := models.LeaderEntry{PlayerName: playerName, Score: score, RecordedAt: at}
	res, err = s.coll.UpdateOne(ctx,
		bson.M{"szekreny": roomID, "leaders.nev": bson.M{"$ne": playerName}},
		bson.M{"$push": bson.M{"leaders": entry}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add score: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// the player already holds an equal or better score, unless the board is missing
	n, err := s.coll.CountDocuments(ctx, bson.M{"szekreny": roomID})
	if err != nil {
		return false, fmt.Errorf("failed to count leaderboards: %w", err)
	}
	if n == 0 {
		return false, fmt.Errorf("leaderboard %d: %w", roomID, ErrNotFound)
	}

	return false, nil
}

func (s *LeaderboardStore) DeleteLeaderboard(ctx context.Context, roomID int) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"szekreny": roomID})
	if err != nil {
		return fmt.Errorf("failed to delete leaderboard: %w", err)
	}

	return nil
}

// ClearAll empties every board.
func (s *LeaderboardStore) ClearAll(ctx context.Context) error {
	_, err := s.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"leaders": []models.LeaderEntry{}}})
	if err != nil {
		return fmt.Errorf("failed to clear leaderboards: %w", err)
	}

	return nil
}
