package comm

import (
	"time"
)

const (
	EventResultRecorded   = "result-recorded"
	EventLeaderboardReset = "leaderboard-reset"
	EventRoomSaved        = "room-saved"
	EventRoomDeleted      = "room-deleted"
)

// Event is published on the broker and relayed to live leaderboard sockets.
// RoomID 0 means the event concerns every room.
type Event struct {
	Type       string    `json:"type"`
	RoomID     int       `json:"szekreny"`
	PlayerName string    `json:"nev,omitempty"`
	Score      int       `json:"pont,omitempty"`
	Rank       int       `json:"rank,omitempty"`
	At         time.Time `json:"at"`
}

// ForRoom reports whether a socket watching roomID should receive the event.
func (e Event) ForRoom(roomID int) bool {
	return e.RoomID == 0 || e.RoomID == roomID
}
