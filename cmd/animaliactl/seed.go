package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/animalia/internal/gamesvc/models"
	"github.com/avvvet/animalia/internal/gamesvc/service"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type seedItem struct {
	Label    string `yaml:"nev"`
	Code     int    `yaml:"szam"`
	ImageRef string `yaml:"url"`
}

type seedRoom struct {
	RoomID int        `yaml:"szekreny"`
	Name   string     `yaml:"name"`
	Items  []seedItem `yaml:"allatok"`
}

func parseSeed(data []byte) ([]models.Room, error) {
	var seeds []seedRoom
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	rooms := make([]models.Room, 0, len(seeds))
	seen := make(map[int]bool, len(seeds))
	for i, s := range seeds {
		if s.RoomID <= 0 {
			return nil, fmt.Errorf("seed room %d: szekreny must be positive", i)
		}
		if seen[s.RoomID] {
			return nil, fmt.Errorf("seed room %d listed twice", s.RoomID)
		}
		seen[s.RoomID] = true

		room := models.Room{RoomID: s.RoomID, Name: s.Name, Items: make([]models.Item, 0, len(s.Items))}
		for _, it := range s.Items {
			room.Items = append(room.Items, models.Item{Label: it.Label, Code: it.Code, ImageRef: it.ImageRef})
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// applySeed creates missing rooms and overwrites the items of every seeded
// room. Leaderboards are left alone.
func applySeed(ctx context.Context, admin *service.AdminService, rooms service.RoomRepository, seeds []models.Room) error {
	for _, room := range seeds {
		_, err := rooms.GetRoom(ctx, room.RoomID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if err := admin.CreateRoom(ctx, room.RoomID, room.Name); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		if err := rooms.ReplaceRoom(ctx, room); err != nil {
			return fmt.Errorf("seed room %d: %w", room.RoomID, err)
		}
		log.Infof("room %d seeded with %d items", room.RoomID, len(room.Items))
	}
	return nil
}
