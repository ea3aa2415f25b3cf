package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/animalia/configs"
	"github.com/avvvet/animalia/internal/db"
	appconfig "github.com/avvvet/animalia/internal/gamesvc/config"
	"github.com/avvvet/animalia/internal/gamesvc/service"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	"github.com/jonboulle/clockwork"
)

const SERVICE_NAME = "ctl"

const usage = `usage: animaliactl <command>

commands:
  indexes            create the unique szekreny indexes
  create <id> [name] create a room with an empty leaderboard
  delete <id>        delete a room and its leaderboard
  reset              clear every leaderboard
  seed <rooms.yaml>  create missing rooms and overwrite their items`

func main() {
	config.Logging(SERVICE_NAME + "_service_" + config.CreateUniqueInstance(SERVICE_NAME))
	config.LoadEnv(SERVICE_NAME)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Errorf("%s failed: %v", os.Args[1], err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	cfg := appconfig.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, database, err := db.ConnectToDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer db.Disconnect(client)
	log.Printf("mongo connection established successfully, db %s", database.Name())

	rooms := store.NewRoomStore(database)
	boards := store.NewLeaderboardStore(database)
	lb := service.NewLeaderboardService(boards, nil, clockwork.NewRealClock(), cfg.Location)
	admin := service.NewAdminService(rooms, boards, lb)

	switch command {
	case "indexes":
		return store.EnsureIndexes(ctx, database)

	case "create":
		id, err := roomArg(args)
		if err != nil {
			return err
		}
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		return admin.CreateRoom(ctx, id, name)

	case "delete":
		id, err := roomArg(args)
		if err != nil {
			return err
		}
		return admin.DeleteRoom(ctx, id)

	case "reset":
		return admin.Reset(ctx)

	case "seed":
		if len(args) < 1 {
			return fmt.Errorf("seed needs a file\n%s", usage)
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		seeds, err := parseSeed(data)
		if err != nil {
			return err
		}
		return applySeed(ctx, admin, rooms, seeds)

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func roomArg(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing room id\n%s", usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid room id %q", args[0])
	}
	return id, nil
}
