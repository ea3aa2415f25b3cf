package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/avvvet/animalia/internal/gamesvc/models"
	log "github.com/sirupsen/logrus"
)

const (
	// RoundSize is the number of items shown in one play round.
	RoundSize = 10
	// StartPageLeaders is the number of leaders shown on a room's start page.
	StartPageLeaders = 3
)

// Shuffler permutes n elements in place through swap.
type Shuffler func(n int, swap func(i, j int))

// StartPage is what a room's start page shows.
type StartPage struct {
	Room    models.Room
	Leaders []models.LeaderEntry
}

// Round is one play round of a room.
type Round struct {
	RoomID int
	Sample []models.Item // shuffled, at most RoundSize
	Codes  []int         // every item code, stored order
	Labels []string      // every item label, stored order
	Names  []string      // player names already on the board
}

type GameService struct {
	rooms   RoomRepository
	boards  *LeaderboardService
	shuffle Shuffler
}

// NewGameService creates a GameService. A nil shuffle uses math/rand/v2,
// which is a Fisher-Yates shuffle.
func NewGameService(rooms RoomRepository, boards *LeaderboardService, shuffle Shuffler) *GameService {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &GameService{
		rooms:   rooms,
		boards:  boards,
		shuffle: shuffle,
	}
}

func (s *GameService) StartPage(ctx context.Context, roomID int) (*StartPage, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	leaders, err := s.boards.Top(ctx, roomID, StartPageLeaders)
	if err != nil {
		return nil, err
	}

	return &StartPage{Room: *room, Leaders: leaders}, nil
}

// PlayRound draws a shuffled sample of the room's items. Codes and Labels
// cover all items so the client can check answers against the whole room.
func (s *GameService) PlayRound(ctx context.Context, roomID int) (*Round, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	round := &Round{
		RoomID: roomID,
		Codes:  make([]int, 0, len(room.Items)),
		Labels: make([]string, 0, len(room.Items)),
	}
	for _, item := range room.Items {
		round.Codes = append(round.Codes, item.Code)
		round.Labels = append(round.Labels, item.Label)
	}

	sample := slices.Clone(room.Items)
	s.shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	if len(sample) > RoundSize {
		sample = sample[:RoundSize]
	}
	round.Sample = sample

	round.Names, err = s.boards.Names(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return round, nil
}

// PushItem appends one item to a room.
func (s *GameService) PushItem(ctx context.Context, roomID int, item models.Item) error {
	item.Label = strings.TrimSpace(item.Label)
	if item.Label == "" {
		return fmt.Errorf("%w: item name is required", ErrValidation)
	}

	if err := s.rooms.PushItem(ctx, roomID, item); err != nil {
		return fmt.Errorf("failed to push item: %w", err)
	}

	log.Infof("room %d: item %s (%d) added", roomID, item.Label, item.Code)
	return nil
}
