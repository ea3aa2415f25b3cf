package ranking

import (
	"slices"
	"time"

	"github.com/avvvet/animalia/internal/gamesvc/models"
)

// SchoolYear returns the [start, end) window of the school year that contains
// now. A school year starts on September 1 in now's location.
func SchoolYear(now time.Time) (time.Time, time.Time) {
	year := now.Year()
	if now.Month() < time.September {
		year--
	}
	start := time.Date(year, time.September, 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(1, 0, 0)
}

// FilterActive keeps the entries recorded in the current school year.
func FilterActive(entries []models.LeaderEntry, now time.Time) []models.LeaderEntry {
	start, end := SchoolYear(now)

	active := make([]models.LeaderEntry, 0, len(entries))
	for _, e := range entries {
		if e.RecordedAt.Before(start) || !e.RecordedAt.Before(end) {
			continue
		}
		active = append(active, e)
	}
	return active
}

// RankDescending orders entries by score, highest first. Equal scores keep
// their input order.
func RankDescending(entries []models.LeaderEntry) []models.LeaderEntry {
	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b models.LeaderEntry) int {
		return b.Score - a.Score
	})
	return ranked
}

// Upsert records score for playerName. An existing entry is only replaced when
// score beats it; the returned flag reports whether anything changed.
func Upsert(entries []models.LeaderEntry, playerName string, score int, now time.Time) ([]models.LeaderEntry, bool) {
	updated := slices.Clone(entries)

	for i := range updated {
		if updated[i].PlayerName != playerName {
			continue
		}
		if score <= updated[i].Score {
			return updated, false
		}
		updated[i].Score = score
		updated[i].RecordedAt = now
		return updated, true
	}

	updated = append(updated, models.LeaderEntry{
		PlayerName: playerName,
		Score:      score,
		RecordedAt: now,
	})
	return updated, true
}

// RankOf returns the 1-based position of playerName on the current school
// year's board, or 0 when the player is not on it.
func RankOf(entries []models.LeaderEntry, playerName string, now time.Time) int {
	ranked := RankDescending(FilterActive(entries, now))
	idx := slices.IndexFunc(ranked, func(e models.LeaderEntry) bool {
		return e.PlayerName == playerName
	})
	return idx + 1
}

// Top returns at most n entries of the current school year's board.
func Top(entries []models.LeaderEntry, n int, now time.Time) []models.LeaderEntry {
	ranked := RankDescending(FilterActive(entries, now))
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
