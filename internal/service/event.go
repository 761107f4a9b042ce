package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamefest/backend/internal/model"
	"github.com/gamefest/backend/internal/repository"
	"github.com/go-playground/validator/v10"
)

// EventStore is the event persistence the event service depends on.
type EventStore interface {
	Create(ctx context.Context, req model.CreateEventRequest, createdBy int64) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Event, error)
}

// EventService orchestrates event catalog operations.
type EventService struct {
	events   EventStore
	validate *validator.Validate
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore) *EventService {
	return &EventService{
		events:   events,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateEvent validates the request and persists a new event. The caller is
// responsible for having checked the ADMIN role.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest, createdBy int64) (*model.Event, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return s.events.Create(ctx, req, createdBy)
}

// ListEvents returns one page of events matching the filter.
func (s *EventService) ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	return s.events.List(ctx, filter)
}

// GetEvent returns a single event by id.
func (s *EventService) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListUserEvents returns the events the user is enrolled in.
func (s *EventService) ListUserEvents(ctx context.Context, userID int64) ([]model.Event, error) {
	return s.events.ListByUser(ctx, userID)
}
