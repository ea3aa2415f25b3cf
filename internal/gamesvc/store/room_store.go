package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/animalia/internal/gamesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoomStore struct {
	coll *mongo.Collection
}

func NewRoomStore(db *mongo.Database) *RoomStore {
	return &RoomStore{coll: db.Collection(RoomCollection)}
}

// CreateRoom inserts a new room. The unique index on szekreny turns a second
// insert of the same id into ErrDuplicate.
func (s *RoomStore) CreateRoom(ctx context.Context, room models.Room) error {
	if room.Items == nil {
		room.Items = []models.Item{}
	}

	_, err := s.coll.InsertOne(ctx, room)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("room %d: %w", room.RoomID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

func (s *RoomStore) GetRoom(ctx context.Context, roomID int) (*models.Room, error) {
	room := &models.Room{}
	err := s.coll.FindOne(ctx, bson.M{"szekreny": roomID}).Decode(room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("room %d: %w", roomID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

func (s *RoomStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "szekreny", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	rooms := []models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

// ReplaceRoom overwrites name and items of an existing room.
func (s *RoomStore) ReplaceRoom(ctx context.Context, room models.Room) error {
	if room.Items == nil {
		room.Items = []models.Item{}
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"szekreny": room.RoomID}, room)
	if err != nil {
		return fmt.Errorf("failed to replace room: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("room %d: %w", room.RoomID, ErrNotFound)
	}

	return nil
}

// PushItem appends one item with a single $push so concurrent pushes don't
// overwrite each other.
func (s *RoomStore) PushItem(ctx context.Context, roomID int, item models.Item) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"szekreny": roomID},
		bson.M{"$push": bson.M{"allatok": item}},
	)
	if err != nil {
		return fmt.Errorf("failed to push item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("room %d: %w", roomID, ErrNotFound)
	}

	return nil
}

func (s *RoomStore) DeleteRoom(ctx context.Context, roomID int) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"szekreny": roomID})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("room %d: %w", roomID, ErrNotFound)
	}

	return nil
}
