package handlers

import (
	"net/http"

	"github.com/avvvet/animalia/internal/gamesvc/views"
)

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "home", views.Basic{})
}

func (h *Handler) InfoPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "info", views.Basic{Title: "Információ"})
}

func (h *Handler) PushPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "push", views.Basic{Title: "Feltöltés"})
}

func (h *Handler) StartPageHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomParam(r, h.cfg.StartRooms)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	page, err := h.game.StartPage(r.Context(), roomID)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "start", views.Start{Title: page.Room.Name, RoomID: roomID, Page: page})
}

func (h *Handler) LeaderPageHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomParam(r, h.cfg.PlayRooms)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	leaders, err := h.lb.Board(r.Context(), roomID)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "leaderboard", views.Leader{Title: "Toplista", RoomID: roomID, Leaders: leaders})
}

func (h *Handler) PlayPageHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomParam(r, h.cfg.PlayRooms)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	round, err := h.game.PlayRound(r.Context(), roomID)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "play", views.Play{Title: "Játék", RoomID: roomID, Round: round})
}

func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.admin.Dashboard(r.Context())
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "admin", views.Admin{Title: "Admin", Rooms: rooms})
}

func (h *Handler) LiveHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomParam(r, h.cfg.PlayRooms)
	if !ok {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}
	h.hub.ServeRoom(w, r, roomID)
}
