package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/animalia/internal/gamesvc/models"
	"github.com/avvvet/animalia/internal/gamesvc/ranking"
)

// MemoryStore keeps rooms and leaderboards in process. It backs STORE=memory
// and the tests; every read and write copies so callers never share slices
// with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	rooms  map[int]models.Room
	boards map[int]models.Leaderboard
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:  make(map[int]models.Room),
		boards: make(map[int]models.Leaderboard),
	}
}

func copyRoom(r models.Room) models.Room {
	r.Items = slices.Clone(r.Items)
	if r.Items == nil {
		r.Items = []models.Item{}
	}
	return r
}

func copyBoard(b models.Leaderboard) models.Leaderboard {
	b.Entries = slices.Clone(b.Entries)
	if b.Entries == nil {
		b.Entries = []models.LeaderEntry{}
	}
	return b
}

func (s *MemoryStore) CreateRoom(_ context.Context, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.RoomID]; ok {
		return fmt.Errorf("room %d: %w", room.RoomID, ErrDuplicate)
	}
	s.rooms[room.RoomID] = copyRoom(room)
	return nil
}

func (s *MemoryStore) GetRoom(_ context.Context, roomID int) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %d: %w", roomID, ErrNotFound)
	}
	room = copyRoom(room)
	return &room, nil
}

func (s *MemoryStore) ListRooms(_ context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, copyRoom(r))
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomID < rooms[j].RoomID })
	return rooms, nil
}

func (s *MemoryStore) ReplaceRoom(_ context.Context, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.RoomID]; !ok {
		return fmt.Errorf("room %d: %w", room.RoomID, ErrNotFound)
	}
	s.rooms[room.RoomID] = copyRoom(room)
	return nil
}

func (s *MemoryStore) PushItem(_ context.Context, roomID int, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return fmt.Errorf("room %d: %w", roomID, ErrNotFound)
	}
	room = copyRoom(room)
	room.Items = append(room.Items, item)
	s.rooms[roomID] = room
	return nil
}

func (s *MemoryStore) DeleteRoom(_ context.Context, roomID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[roomID]; !ok {
		return fmt.Errorf("room %d: %w", roomID, ErrNotFound)
	}
	delete(s.rooms, roomID)
	return nil
}

func (s *MemoryStore) CreateLeaderboard(_ context.Context, roomID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards[roomID] = models.Leaderboard{RoomID: roomID, Entries: []models.LeaderEntry{}}
	return nil
}

func (s *MemoryStore) GetLeaderboard(_ context.Context, roomID int) (*models.Leaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board, ok := s.boards[roomID]
	if !ok {
		return nil, fmt.Errorf("leaderboard %d: %w", roomID, ErrNotFound)
	}
	board = copyBoard(board)
	return &board, nil
}

func (s *MemoryStore) ListLeaderboards(_ context.Context) ([]models.Leaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	boards := make([]models.Leaderboard, 0, len(s.boards))
	for _, b := range s.boards {
		boards = append(boards, copyBoard(b))
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].RoomID < boards[j].RoomID })
	return boards, nil
}

func (s *MemoryStore) ReplaceEntries(_ context.Context, roomID int, entries []models.LeaderEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards[roomID] = copyBoard(models.Leaderboard{RoomID: roomID, Entries: entries})
	return nil
}

func (s *MemoryStore) RecordScore(_ context.Context, roomID int, playerName string, score int, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[roomID]
	if !ok {
		return false, fmt.Errorf("leaderboard %d: %w", roomID, ErrNotFound)
	}

	entries, changed := ranking.Upsert(board.Entries, playerName, score, at)
	board.Entries = entries
	s.boards[roomID] = board
	return changed, nil
}

func (s *MemoryStore) DeleteLeaderboard(_ context.Context, roomID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.boards, roomID)
	return nil
}

func (s *MemoryStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range s.boards {
		b.Entries = []models.LeaderEntry{}
		s.boards[id] = b
	}
	return nil
}
