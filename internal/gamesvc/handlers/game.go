package handlers

import (
	"net/http"

	"github.com/avvvet/animalia/internal/gamesvc/models"
)

// NewResultHandler records a finished round and answers with the player's
// rank on the current school-year board.
func (h *Handler) NewResultHandler(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decodeRequest(r, &req); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}

	rank, err := h.lb.SubmitResult(r.Context(), int(req.RoomID), req.Name, int(req.Score))
	if err != nil {
		h.ErrorResponse(w, r, err)
		return
	}
	h.CreateResponse(w, Response{Success: rank, Code: http.StatusOK})
}

func (h *Handler) PushItemHandler(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if err := decodeRequest(r, &req); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}

	item := models.Item{Label: req.Label, Code: int(req.Code), ImageRef: req.ImageRef}
	if err := h.game.PushItem(r.Context(), int(req.RoomID), item); err != nil {
		h.ErrorResponse(w, r, err)
		return
	}
	h.CreateResponse(w, Response{Success: item.Label, Code: http.StatusOK})
}
