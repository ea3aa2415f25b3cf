package service

import (
	"context"
	"time"

	"github.com/avvvet/animalia/internal/comm"
	"github.com/avvvet/animalia/internal/gamesvc/models"
)

// RoomRepository is what the services need from the room store.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room models.Room) error
	GetRoom(ctx context.Context, roomID int) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ReplaceRoom(ctx context.Context, room models.Room) error
	PushItem(ctx context.Context, roomID int, item models.Item) error
	DeleteRoom(ctx context.Context, roomID int) error
}

// LeaderboardRepository is what the services need from the leaderboard store.
type LeaderboardRepository interface {
	CreateLeaderboard(ctx context.Context, roomID int) error
	GetLeaderboard(ctx context.Context, roomID int) (*models.Leaderboard, error)
	ListLeaderboards(ctx context.Context) ([]models.Leaderboard, error)
	ReplaceEntries(ctx context.Context, roomID int, entries []models.LeaderEntry) error
	// RecordScore keeps the best score per player and reports whether the
	// board changed.
	RecordScore(ctx context.Context, roomID int, playerName string, score int, at time.Time) (bool, error)
	DeleteLeaderboard(ctx context.Context, roomID int) error
	ClearAll(ctx context.Context) error
}

// EventPublisher fans out leaderboard and room changes.
type EventPublisher interface {
	Publish(ctx context.Context, event comm.Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, comm.Event) error { return nil }
