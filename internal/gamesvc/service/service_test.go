package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/avvvet/animalia/internal/comm"
	"github.com/avvvet/animalia/internal/gamesvc/models"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []comm.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event comm.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store  *store.MemoryStore
	clock  *clockwork.FakeClock
	events *recordingPublisher
	lb     *LeaderboardService
	game   *GameService
	admin  *AdminService
}

func newFixture(t *testing.T, shuffle Shuffler) *fixture {
	t.Helper()
	f := &fixture{
		store:  store.NewMemoryStore(),
		clock:  clockwork.NewFakeClockAt(time.Date(2024, time.October, 1, 10, 0, 0, 0, time.UTC)),
		events: &recordingPublisher{},
	}
	f.lb = NewLeaderboardService(f.store, f.events, f.clock, time.UTC)
	f.game = NewGameService(f.store, f.lb, shuffle)
	f.admin = NewAdminService(f.store, f.store, f.lb)
	return f
}

func reverseShuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestSubmitResultRanks(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 1, "first"))

	rank, err := f.lb.SubmitResult(ctx, 1, "X", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	rank, err = f.lb.SubmitResult(ctx, 1, "Y", 80)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	board, err := f.lb.Board(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Y", board[0].PlayerName)
	assert.Equal(t, "X", board[1].PlayerName)

	assert.Equal(t, []string{comm.EventResultRecorded, comm.EventResultRecorded}, f.events.types())
}

func TestSubmitResultKeepsBestScore(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 1, ""))

	_, err := f.lb.SubmitResult(ctx, 1, "X", 50)
	require.NoError(t, err)
	first := f.clock.Now()

	f.clock.Advance(24 * time.Hour)
	for _, score := range []int{50, 20} {
		rank, err := f.lb.SubmitResult(ctx, 1, "X", score)
		require.NoError(t, err)
		assert.Equal(t, 1, rank)
	}

	board, err := f.lb.Board(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 50, board[0].Score)
	assert.True(t, first.Equal(board[0].RecordedAt))
	assert.Len(t, f.events.types(), 1, "unchanged submissions publish nothing")
}

func TestSubmitResultValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 1, ""))

	_, err := f.lb.SubmitResult(ctx, 1, "   ", 5)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.lb.SubmitResult(ctx, 1, "X", -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.lb.SubmitResult(ctx, 99, "X", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBoardIsWindowed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 1, ""))

	_, err := f.lb.SubmitResult(ctx, 1, "old", 100)
	require.NoError(t, err)

	f.clock.Advance(365 * 24 * time.Hour)
	rank, err := f.lb.SubmitResult(ctx, 1, "new", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	board, err := f.lb.Board(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "new", board[0].PlayerName)

	names, err := f.lb.Names(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old", "new"}, names)
}

func TestPlayRound(t *testing.T) {
	f := newFixture(t, reverseShuffle)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 3, ""))
	items := []models.Item{{Label: "A", Code: 1}, {Label: "B", Code: 2}, {Label: "C", Code: 3}}
	require.NoError(t, f.admin.SaveRoom(ctx, 3, SaveRoomRequest{Items: items}))
	_, err := f.lb.SubmitResult(ctx, 3, "Kati", 10)
	require.NoError(t, err)

	round, err := f.game.PlayRound(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, round.Codes)
	assert.Equal(t, []string{"A", "B", "C"}, round.Labels)
	assert.Equal(t, []models.Item{items[2], items[1], items[0]}, round.Sample)
	assert.Equal(t, []string{"Kati"}, round.Names)

	room, err := f.store.GetRoom(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, items, room.Items, "stored order must not change")
}

func TestPlayRoundSampleIsPermutationPrefix(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 1, ""))

	items := []models.Item{}
	for i := 0; i < 25; i++ {
		items = append(items, models.Item{Label: string(rune('a' + i)), Code: i})
	}
	require.NoError(t, f.admin.SaveRoom(ctx, 1, SaveRoomRequest{Items: items}))

	for run := 0; run < 20; run++ {
		round, err := f.game.PlayRound(ctx, 1)
		require.NoError(t, err)
		require.Len(t, round.Sample, RoundSize)

		seen := map[int]bool{}
		for _, it := range round.Sample {
			assert.False(t, seen[it.Code], "sample repeats code %d", it.Code)
			seen[it.Code] = true
		}
		rest := []int{}
		for _, it := range items {
			if !seen[it.Code] {
				rest = append(rest, it.Code)
			}
		}
		assert.Len(t, rest, len(items)-RoundSize)
	}
}

func TestPlayRoundSmallAndEmptyRooms(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 1, ""))

	round, err := f.game.PlayRound(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, round.Sample)
	assert.Empty(t, round.Codes)
	assert.Empty(t, round.Names)

	require.NoError(t, f.game.PushItem(ctx, 1, models.Item{Label: "A", Code: 1}))
	require.NoError(t, f.game.PushItem(ctx, 1, models.Item{Label: "B", Code: 2}))
	round, err = f.game.PlayRound(ctx, 1)
	require.NoError(t, err)
	codes := []int{}
	for _, it := range round.Sample {
		codes = append(codes, it.Code)
	}
	sort.Ints(codes)
	assert.Equal(t, []int{1, 2}, codes)

	_, err = f.game.PlayRound(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPushItem(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	err := f.game.PushItem(ctx, 5, models.Item{Label: "Zebra", Code: 9})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = f.game.PushItem(ctx, 5, models.Item{Label: " "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStartPage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 1, "Savanna"))

	for i, name := range []string{"a", "b", "c", "d"} {
		_, err := f.lb.SubmitResult(ctx, 1, name, i*10)
		require.NoError(t, err)
	}

	page, err := f.game.StartPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Savanna", page.Room.Name)
	require.Len(t, page.Leaders, StartPageLeaders)
	assert.Equal(t, "d", page.Leaders[0].PlayerName)

	// a room whose leaderboard went missing still renders
	require.NoError(t, f.store.DeleteLeaderboard(ctx, 1))
	page, err = f.game.StartPage(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Leaders)
}

func TestCreateRoomDuplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.admin.CreateRoom(ctx, 7, "seven"))
	err := f.admin.CreateRoom(ctx, 7, "again")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	assert.ErrorIs(t, f.admin.CreateRoom(ctx, 0, ""), ErrValidation)
}

type failingBoards struct {
	*store.MemoryStore
}

func (failingBoards) CreateLeaderboard(context.Context, int) error {
	return errors.New("disk full")
}

func TestCreateRoomRollsBackRoom(t *testing.T) {
	mem := store.NewMemoryStore()
	lb := NewLeaderboardService(mem, nil, clockwork.NewFakeClock(), nil)
	admin := NewAdminService(mem, failingBoards{mem}, lb)
	ctx := context.Background()

	err := admin.CreateRoom(ctx, 3, "")
	require.Error(t, err)

	_, err = mem.GetRoom(ctx, 3)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveRoomRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 2, "old name"))

	items := []models.Item{{Label: "B", Code: 2, ImageRef: "b.jpg"}, {Label: "A", Code: 1, ImageRef: "a.jpg"}, {Label: "B", Code: 2, ImageRef: "b.jpg"}}
	at := time.Date(2024, time.September, 20, 0, 0, 0, 0, time.UTC)
	entries := []models.LeaderEntry{{PlayerName: "P", Score: 5, RecordedAt: at}, {PlayerName: "Q", Score: 7}}
	name := "new name"

	require.NoError(t, f.admin.SaveRoom(ctx, 2, SaveRoomRequest{Name: &name, Items: items, Entries: entries}))

	room, err := f.store.GetRoom(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, items, room.Items)
	assert.Equal(t, "new name", room.Name)

	board, err := f.store.GetLeaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, at, board.Entries[0].RecordedAt)
	assert.True(t, f.clock.Now().Equal(board.Entries[1].RecordedAt))

	require.NoError(t, f.admin.SaveRoom(ctx, 2, SaveRoomRequest{Items: items[:1]}))
	room, err = f.store.GetRoom(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "new name", room.Name, "nil name keeps the stored one")

	assert.Contains(t, f.events.types(), comm.EventRoomSaved)
}

func TestSaveRoomErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 2, ""))

	assert.ErrorIs(t, f.admin.SaveRoom(ctx, 0, SaveRoomRequest{}), store.ErrNotFound)
	assert.ErrorIs(t, f.admin.SaveRoom(ctx, 9, SaveRoomRequest{}), store.ErrNotFound)

	err := f.admin.SaveRoom(ctx, 2, SaveRoomRequest{Entries: []models.LeaderEntry{{PlayerName: ""}}})
	assert.ErrorIs(t, err, ErrValidation)

	err = f.admin.SaveRoom(ctx, 2, SaveRoomRequest{Entries: []models.LeaderEntry{{PlayerName: "a"}, {PlayerName: "a"}}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteRoomCascades(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 4, ""))

	require.NoError(t, f.admin.DeleteRoom(ctx, 4))
	_, err := f.store.GetLeaderboard(ctx, 4)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, f.admin.DeleteRoom(ctx, 4), store.ErrNotFound)
}

func TestResetAndDashboard(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.admin.CreateRoom(ctx, 2, "b"))
	require.NoError(t, f.admin.CreateRoom(ctx, 1, "a"))
	_, err := f.lb.SubmitResult(ctx, 1, "X", 3)
	require.NoError(t, err)
	_, err = f.lb.SubmitResult(ctx, 2, "Y", 4)
	require.NoError(t, err)

	rows, err := f.admin.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Room.RoomID)
	assert.Equal(t, 1, rows[0].Active)
	require.Len(t, rows[1].Leaders, 1)
	assert.Equal(t, "Y", rows[1].Leaders[0].PlayerName)

	require.NoError(t, f.admin.Reset(ctx))
	rows, err = f.admin.Dashboard(ctx)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Empty(t, r.Leaders)
	}
	assert.Contains(t, f.events.types(), comm.EventLeaderboardReset)
}
