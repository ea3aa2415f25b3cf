package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/jonboulle/clockwork"

	config "github.com/avvvet/animalia/configs"
	"github.com/avvvet/animalia/internal/db"
	"github.com/avvvet/animalia/internal/gamesvc/broker"
	appconfig "github.com/avvvet/animalia/internal/gamesvc/config"
	handlers "github.com/avvvet/animalia/internal/gamesvc/handlers"
	"github.com/avvvet/animalia/internal/gamesvc/live"
	"github.com/avvvet/animalia/internal/gamesvc/service"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	"github.com/avvvet/animalia/internal/gamesvc/views"
	natscli "github.com/avvvet/animalia/internal/nats"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "animalia"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

type repositories struct {
	rooms  service.RoomRepository
	boards service.LeaderboardRepository
	close  func()
}

func openStore(cfg appconfig.Config) (*repositories, error) {
	if cfg.Store == "memory" {
		log.Warn("using the in-memory store, data is lost on restart")
		mem := store.NewMemoryStore()
		return &repositories{rooms: mem, boards: mem, close: func() {}}, nil
	}

	client, database, err := db.ConnectToDB(context.Background(), cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	log.Printf("mongo connection established successfully, db %s", database.Name())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.EnsureIndexes(ctx, database); err != nil {
		db.Disconnect(client)
		return nil, err
	}

	return &repositories{
		rooms:  store.NewRoomStore(database),
		boards: store.NewLeaderboardStore(database),
		close:  func() { db.Disconnect(client) },
	}, nil
}

func main() {
	cfg := appconfig.Load()

	repos, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer repos.close()

	hub := live.NewHub()

	// events go through NATS when configured so every instance's live
	// clients see them
	var events service.EventPublisher = hub
	var sub *nats.Subscription
	if cfg.NatsURL != "" {
		n, err := natscli.Connect(cfg.NatsURL, cfg.NatsToken)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		b := broker.NewBroker(n.Conn, hub.Deliver)
		sub, err = b.Subscribe()
		if err != nil {
			log.Fatalf("Error: unable to subscribe to %s %v", broker.Topic, err)
		}
		events = b
	}

	lb := service.NewLeaderboardService(repos.boards, events, clockwork.NewRealClock(), cfg.Location)
	gameService := service.NewGameService(repos.rooms, lb, nil)
	adminService := service.NewAdminService(repos.rooms, repos.boards, lb)

	renderer, err := views.New()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(c.Handler)

	// to protect the service from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(cfg, gameService, lb, adminService, renderer, hub)
	h.InitAuth()
	h.SetRoutes(r)

	// no read/write timeout, live sockets stay open; handlers are bounded
	// by middleware.Timeout
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if sub != nil {
		sub.Unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
