package store

import "errors"

var (
	// ErrNotFound is returned when no record exists for a room id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when creating a room id that already exists.
	ErrDuplicate = errors.New("already exists")
)

const (
	RoomCollection        = "szekrenies"
	LeaderboardCollection = "leaders"
)
