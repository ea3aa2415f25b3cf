package handlers

import (
	"net/http"
	"strconv"

	"github.com/avvvet/animalia/internal/gamesvc/service"
	"github.com/avvvet/animalia/internal/gamesvc/store"
	"github.com/go-chi/chi"
)

// idParam parses the {id} segment. A malformed id is treated as an unknown room.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, store.ErrNotFound
	}
	return id, nil
}

func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeRequest(r, &req); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}

	if err := h.admin.CreateRoom(r.Context(), int(req.RoomID), req.Name); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}
	h.CreateResponse(w, Response{Success: true, Code: http.StatusOK})
}

func (h *Handler) SaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := idParam(r)
	if err != nil {
		h.ErrorResponse(w, r, err)
		return
	}

	var req saveRoomRequest
	if err := decodeRequest(r, &req); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}

	err = h.admin.SaveRoom(r.Context(), roomID, service.SaveRoomRequest{
		Name:    req.Name,
		Items:   req.items(),
		Entries: req.entries(),
	})
	if err != nil {
		h.ErrorResponse(w, r, err)
		return
	}
	h.CreateResponse(w, Response{Success: true, Code: http.StatusOK})
}

func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := idParam(r)
	if err != nil {
		h.ErrorResponse(w, r, err)
		return
	}

	if err := h.admin.DeleteRoom(r.Context(), roomID); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}
	h.CreateResponse(w, Response{Success: true, Code: http.StatusOK})
}

// ResetHandler empties every leaderboard and returns to the dashboard.
func (h *Handler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Reset(r.Context()); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ClearHandler is the legacy GET form of the reset.
func (h *Handler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Reset(r.Context()); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
