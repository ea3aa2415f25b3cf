package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/avvvet/animalia/internal/comm"
	"github.com/avvvet/animalia/internal/gamesvc/models"
	"github.com/avvvet/animalia/internal/gamesvc/ranking"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	log "github.com/sirupsen/logrus"
)

// SaveRoomRequest overwrites a room and its leaderboard. A nil Name keeps the
// stored name.
type SaveRoomRequest struct {
	Name    *string
	Items   []models.Item
	Entries []models.LeaderEntry
}

// RoomSummary is one row of the admin dashboard.
type RoomSummary struct {
	Room    models.Room
	Leaders []models.LeaderEntry // every entry, best first
	Active  int                  // entries of the current school year
}

type AdminService struct {
	rooms  RoomRepository
	boards LeaderboardRepository
	lb     *LeaderboardService
}

func NewAdminService(rooms RoomRepository, boards LeaderboardRepository, lb *LeaderboardService) *AdminService {
	return &AdminService{
		rooms:  rooms,
		boards: boards,
		lb:     lb,
	}
}

// CreateRoom creates a room together with its empty leaderboard. When the
// leaderboard can't be written the room is removed again.
func (s *AdminService) CreateRoom(ctx context.Context, roomID int, name string) error {
	if roomID <= 0 {
		return fmt.Errorf("%w: room id must be positive", ErrValidation)
	}

	room := models.Room{RoomID: roomID, Name: strings.TrimSpace(name), Items: []models.Item{}}
	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return err
	}

	if err := s.boards.CreateLeaderboard(ctx, roomID); err != nil {
		if rbErr := s.rooms.DeleteRoom(ctx, roomID); rbErr != nil {
			log.Errorf("room %d left without leaderboard: %v", roomID, rbErr)
		}
		return fmt.Errorf("failed to create leaderboard: %w", err)
	}

	log.Infof("room %d (%s) created", roomID, room.Name)
	return nil
}

// SaveRoom overwrites the items of a room and the entries of its leaderboard.
func (s *AdminService) SaveRoom(ctx context.Context, roomID int, req SaveRoomRequest) error {
	if roomID <= 0 {
		return fmt.Errorf("room %d: %w", roomID, store.ErrNotFound)
	}

	existing, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	now := s.lb.now()
	entries := make([]models.LeaderEntry, 0, len(req.Entries))
	seen := make(map[string]bool, len(req.Entries))
	for i, e := range req.Entries {
		e.PlayerName = strings.TrimSpace(e.PlayerName)
		if e.PlayerName == "" {
			return fmt.Errorf("%w: leader %d has no name", ErrValidation, i)
		}
		if seen[e.PlayerName] {
			return fmt.Errorf("%w: leader %s listed twice", ErrValidation, e.PlayerName)
		}
		seen[e.PlayerName] = true
		if e.RecordedAt.IsZero() {
			e.RecordedAt = now
		}
		entries = append(entries, e)
	}

	room := models.Room{RoomID: roomID, Name: existing.Name, Items: req.Items}
	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if room.Items == nil {
		room.Items = []models.Item{}
	}

	if err := s.rooms.ReplaceRoom(ctx, room); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	if err := s.boards.ReplaceEntries(ctx, roomID, entries); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}

	log.Infof("room %d saved: %d items, %d leaders", roomID, len(room.Items), len(entries))
	s.lb.publish(ctx, comm.Event{Type: comm.EventRoomSaved, RoomID: roomID, At: now})
	return nil
}

// DeleteRoom removes a room and its leaderboard.
func (s *AdminService) DeleteRoom(ctx context.Context, roomID int) error {
	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	if err := s.boards.DeleteLeaderboard(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete leaderboard: %w", err)
	}

	log.Infof("room %d deleted", roomID)
	s.lb.publish(ctx, comm.Event{Type: comm.EventRoomDeleted, RoomID: roomID, At: s.lb.now()})
	return nil
}

func (s *AdminService) Reset(ctx context.Context) error {
	return s.lb.Reset(ctx)
}

// Dashboard lists every room with its leaderboard.
func (s *AdminService) Dashboard(ctx context.Context) ([]RoomSummary, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	boards, err := s.boards.ListLeaderboards(ctx)
	if err != nil {
		return nil, err
	}

	byRoom := make(map[int][]models.LeaderEntry, len(boards))
	for _, b := range boards {
		byRoom[b.RoomID] = b.Entries
	}

	now := s.lb.now()
	summaries := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		entries := byRoom[r.RoomID]
		summaries = append(summaries, RoomSummary{
			Room:    r,
			Leaders: ranking.RankDescending(entries),
			Active:  len(ranking.FilterActive(entries, now)),
		})
	}
	return summaries, nil
}
