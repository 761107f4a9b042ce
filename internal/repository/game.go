package repository

import (
	"context"
	"fmt"

	"github.com/gamefest/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameRepository handles read access to the game catalog.
type GameRepository struct {
	db *pgxpool.Pool
}

// NewGameRepository constructs a GameRepository.
func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// List returns catalog entries matching the filter. Empty filter fields are
// skipped; non-empty ones combine as case-insensitive substring matches.
// The platform filter matches against the JSONB array's text form.
func (r *GameRepository) List(ctx context.Context, filter model.GameFilter) ([]model.Game, error) {
	query := `SELECT id, title, genre, platforms, description, image, created_at
	          FROM games WHERE 1=1`
	var args []any

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if filter.Genre != "" {
		args = append(args, "%"+filter.Genre+"%")
		query += fmt.Sprintf(" AND genre ILIKE $%d", len(args))
	}
	if filter.Platform != "" {
		args = append(args, "%"+filter.Platform+"%")
		query += fmt.Sprintf(" AND platforms::text ILIKE $%d", len(args))
	}

	query += " ORDER BY title ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(
			&g.ID, &g.Title, &g.Genre, &g.Platforms,
			&g.Description, &g.Image, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
