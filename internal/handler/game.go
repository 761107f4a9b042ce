package handler

import (
	"log/slog"
	"net/http"

	"github.com/gamefest/backend/internal/model"
	"github.com/gamefest/backend/internal/service"
)

// GameHandler serves the read-only game catalog.
type GameHandler struct {
	svc *service.GameService
}

// NewGameHandler constructs a GameHandler.
func NewGameHandler(svc *service.GameService) *GameHandler {
	return &GameHandler{svc: svc}
}

// ListGames handles GET /games?q=&genre=&platform=
// All filters are optional substring matches and combine with AND.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.GameFilter{
		Title:    q.Get("q"),
		Genre:    q.Get("genre"),
		Platform: q.Get("platform"),
	}

	games, err := h.svc.ListGames(r.Context(), filter)
	if err != nil {
		slog.Error("list games failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}

	if games == nil {
		games = []model.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}
