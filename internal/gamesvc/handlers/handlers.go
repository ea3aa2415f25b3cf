package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avvvet/animalia/internal/gamesvc/config"
	"github.com/avvvet/animalia/internal/gamesvc/live"
	"github.com/avvvet/animalia/internal/gamesvc/service"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	"github.com/avvvet/animalia/internal/gamesvc/views"
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	cfg       config.Config
	game      *service.GameService
	lb        *service.LeaderboardService
	admin     *service.AdminService
	views     *views.Renderer
	hub       *live.Hub
	tokenAuth *jwtauth.JWTAuth
}

func NewHandler(cfg config.Config, game *service.GameService, lb *service.LeaderboardService,
	admin *service.AdminService, renderer *views.Renderer, hub *live.Hub) *Handler {
	return &Handler{
		cfg:   cfg,
		game:  game,
		lb:    lb,
		admin: admin,
		views: renderer,
		hub:   hub,
	}
}

type Response struct {
	Success interface{} `json:"success,omitempty"`
	Message string      `json:"message,omitempty"`
	Code    int         `json:"code"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// ErrorResponse maps service errors to status codes. Store failures are logged
// and reported without detail.
func (h *Handler) ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	rsp := Response{Error: err.Error()}
	switch {
	case errors.Is(err, store.ErrNotFound):
		rsp.Code = http.StatusNotFound
		rsp.Error = "szekreny not found"
	case errors.Is(err, store.ErrDuplicate):
		rsp.Code = http.StatusBadRequest
	case errors.Is(err, service.ErrValidation), errors.Is(err, errBadPayload):
		rsp.Code = http.StatusBadRequest
	default:
		log.Errorf("Error %s %s: %v", r.Method, r.URL.Path, err)
		rsp.Code = http.StatusInternalServerError
		rsp.Error = "internal error"
	}
	h.CreateResponse(w, rsp)
}

// pageError redirects home for an unknown room; anything else is a 500.
func (h *Handler) pageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	log.Errorf("Error %s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// roomParam reads the roomId path segment and checks it is in 1..max.
func roomParam(r *http.Request, max int) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "roomId"))
	if err != nil || id < 1 || id > max {
		return 0, false
	}
	return id, true
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "animalia service is running at port " + h.cfg.Port,
		Code:    http.StatusOK,
	})
}
