package store

import (
	"context"

	"github.com/avvvet/animalia/internal/db"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the unique szekreny index on both collections. Safe to
// run on every start.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, coll := range []string{RoomCollection, LeaderboardCollection} {
		if err := db.CreateUniqueIndexForCollection(ctx, database, coll, "szekreny"); err != nil {
			return err
		}
	}
	return nil
}
