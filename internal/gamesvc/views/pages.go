package views

import (
	"github.com/avvvet/animalia/internal/gamesvc/models"
	"github.com/avvvet/animalia/internal/gamesvc/service"
)

type Basic struct {
	Title string
}

type Start struct {
	Title  string
	RoomID int
	Page   *service.StartPage
}

type Leader struct {
	Title   string
	RoomID  int
	Leaders []models.LeaderEntry
}

type Play struct {
	Title  string
	RoomID int
	Round  *service.Round
}

type Login struct {
	Title string
	Error string
}

type Admin struct {
	Title string
	Rooms []service.RoomSummary
}
