package models

import (
	"time"
)

// LeaderEntry is the best score of one player in a room.
type LeaderEntry struct {
	PlayerName string    `json:"nev" bson:"nev"`
	Score      int       `json:"pont" bson:"pont"`
	RecordedAt time.Time `json:"created" bson:"created"`
}

// Leaderboard represents the leaders collection, one document per room.
type Leaderboard struct {
	RoomID  int           `json:"szekreny" bson:"szekreny"`
	Entries []LeaderEntry `json:"leaders" bson:"leaders"`
}

// Names returns every player name present on the board.
func (l *Leaderboard) Names() []string {
	names := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		names = append(names, e.PlayerName)
	}
	return names
}
