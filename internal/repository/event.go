package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamefest/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, type, date, time, description, image, free_seats, created_by, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Type, &e.Date, &e.Time,
		&e.Description, &e.Image, &e.FreeSeats, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event and returns it with its generated id.
func (r *EventRepository) Create(ctx context.Context, req model.CreateEventRequest, createdBy int64) (*model.Event, error) {
	image := req.Image
	if image == "" {
		image = "default.png"
	}

	event := &model.Event{
		Title:       req.Title,
		Type:        req.Type,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
		Image:       image,
		FreeSeats:   req.FreeSeats,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO events (title, type, date, time, description, image, free_seats, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		event.Title, event.Type, event.Date, event.Time, event.Description,
		event.Image, event.FreeSeats, event.CreatedBy, event.CreatedAt,
	).Scan(&event.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// List returns one page of events matching the filter, ordered by date and
// time ascending. Filters combine with AND.
func (r *EventRepository) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * model.EventPageSize

	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []any

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if filter.OnlyAvailable {
		query += " AND free_seats > 0"
	}

	args = append(args, model.EventPageSize, offset)
	query += fmt.Sprintf(" ORDER BY date ASC, time ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	event, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListByUser returns the events a user is enrolled in, ordered by date.
func (r *EventRepository) ListByUser(ctx context.Context, userID int64) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.title, e.type, e.date, e.time, e.description, e.image,
		        e.free_seats, e.created_by, e.created_at
		 FROM events e
		 JOIN enrollments en ON e.id = en.event_id
		 WHERE en.user_id = $1
		 ORDER BY e.date ASC, e.time ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Type, &e.Date, &e.Time,
			&e.Description, &e.Image, &e.FreeSeats, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
