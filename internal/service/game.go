package service

import (
	"context"

	"github.com/gamefest/backend/internal/model"
)

// GameStore is the catalog persistence the game service depends on.
type GameStore interface {
	List(ctx context.Context, filter model.GameFilter) ([]model.Game, error)
}

// GameService serves the read-only game catalog.
type GameService struct {
	games GameStore
}

// NewGameService constructs a GameService.
func NewGameService(games GameStore) *GameService {
	return &GameService{games: games}
}

// ListGames returns catalog entries matching the filter.
func (s *GameService) ListGames(ctx context.Context, filter model.GameFilter) ([]model.Game, error) {
	return s.games.List(ctx, filter)
}
