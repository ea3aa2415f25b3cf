package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avvvet/animalia/internal/comm"
	"github.com/avvvet/animalia/internal/gamesvc/models"
	"github.com/avvvet/animalia/internal/gamesvc/ranking"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// LeaderboardService records results and serves the ranked boards
type LeaderboardService struct {
	boards LeaderboardRepository
	events EventPublisher
	clock  clockwork.Clock
	loc    *time.Location
}

// NewLeaderboardService creates a new LeaderboardService. loc decides where the
// school year starts; nil means UTC.
func NewLeaderboardService(boards LeaderboardRepository, events EventPublisher, clock clockwork.Clock, loc *time.Location) *LeaderboardService {
	if events == nil {
		events = noopPublisher{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LeaderboardService{
		boards: boards,
		events: events,
		clock:  clock,
		loc:    loc,
	}
}

func (s *LeaderboardService) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// SubmitResult keeps the player's best score and returns the player's rank on
// the current school year's board.
func (s *LeaderboardService) SubmitResult(ctx context.Context, roomID int, playerName string, score int) (int, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return 0, fmt.Errorf("%w: player name is required", ErrValidation)
	}
	if score < 0 {
		return 0, fmt.Errorf("%w: score must not be negative", ErrValidation)
	}

	now := s.now()
	changed, err := s.boards.RecordScore(ctx, roomID, playerName, score, now)
	if err != nil {
		return 0, fmt.Errorf("failed to record score: %w", err)
	}

	board, err := s.boards.GetLeaderboard(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("failed to reload leaderboard: %w", err)
	}
	rank := ranking.RankOf(board.Entries, playerName, now)

	log.Infof("room %d: %s scored %d, rank %d (changed=%t)", roomID, playerName, score, rank, changed)

	if changed {
		s.publish(ctx, comm.Event{
			Type:       comm.EventResultRecorded,
			RoomID:     roomID,
			PlayerName: playerName,
			Score:      score,
			Rank:       rank,
			At:         now,
		})
	}

	return rank, nil
}

// Board returns the ranked entries of the current school year.
func (s *LeaderboardService) Board(ctx context.Context, roomID int) ([]models.LeaderEntry, error) {
	board, err := s.boards.GetLeaderboard(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return ranking.RankDescending(ranking.FilterActive(board.Entries, s.now())), nil
}

// Top returns the first n entries of Board. A room without a leaderboard has
// an empty top list.
func (s *LeaderboardService) Top(ctx context.Context, roomID int, n int) ([]models.LeaderEntry, error) {
	board, err := s.boards.GetLeaderboard(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.LeaderEntry{}, nil
		}
		return nil, err
	}
	return ranking.Top(board.Entries, n, s.now()), nil
}

// Names returns every player name already used in the room, regardless of
// school year.
func (s *LeaderboardService) Names(ctx context.Context, roomID int) ([]string, error) {
	board, err := s.boards.GetLeaderboard(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	return board.Names(), nil
}

// Reset clears the entries of every leaderboard.
func (s *LeaderboardService) Reset(ctx context.Context) error {
	if err := s.boards.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to reset leaderboards: %w", err)
	}

	log.Info("all leaderboards cleared")
	s.publish(ctx, comm.Event{Type: comm.EventLeaderboardReset, At: s.now()})
	return nil
}

func (s *LeaderboardService) publish(ctx context.Context, event comm.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Errorf("error publishing %s for room %d: %v", event.Type, event.RoomID, err)
	}
}
