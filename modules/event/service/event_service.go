package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"cusoon-api/core/cache"
	"cusoon-api/core/constants"
	"cusoon-api/core/errors"
	"cusoon-api/core/logger"
	"cusoon-api/core/utils"
	"cusoon-api/modules/event/dto"
	"cusoon-api/modules/event/entity"
	"cusoon-api/modules/event/repository"

	"github.com/gosimple/slug"
)

// EventService handles event lifecycle and invitation bookkeeping.
type EventService struct {
	repo  repository.EventRepositoryInterface
	cache cache.Cache
}

// EventServiceInterface defines the service contract.
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, organizerEmail string, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEventByID(ctx context.Context, eventID string) (*dto.EventResponse, *errors.AppError)
	GetEventsForEmail(ctx context.Context, email string) ([]dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID string) *errors.AppError
	RespondToInvitation(ctx context.Context, eventID, userEmail, status string) *errors.AppError
}

func NewEventService(repo repository.EventRepositoryInterface, cache cache.Cache) *EventService {
	return &EventService{repo: repo, cache: cache}
}

// CreateEvent validates and persists a new event with its invited
// participants. Slot generation is a separate step driven by the caller.
func (s *EventService) CreateEvent(ctx context.Context, organizerEmail string, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if appErr := validateCreateRequest(organizerEmail, req); appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		ID:                   utils.GenerateID(),
		Title:                req.Title,
		Slug:                 slug.Make(req.Title),
		OrganizerEmail:       organizerEmail,
		AvailableDays:        req.AvailableDays,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		DurationMinutes:      req.DurationMinutes,
		SubmittedPreferences: entity.PreferenceMap{},
		OptimalSlots:         entity.SlotBlockList{},
	}

	participants := make([]entity.Participant, 0, len(req.ParticipantEmails))
	for _, email := range req.ParticipantEmails {
		necessity := req.ParticipantNecessity[email]
		switch necessity {
		case 0, entity.NecessityOptional, entity.NecessityRequired:
		default:
			logger.Warn("EventService:CreateEvent:UnknownNecessity",
				"email", email, "necessity", necessity)
		}
		participants = append(participants, entity.Participant{
			EventID:   event.ID,
			Email:     email,
			Necessity: necessity,
			Status:    entity.ParticipantStatusPending,
		})
	}

	if err := s.repo.CreateEvent(ctx, event, participants); err != nil {
		return nil, errors.NewAppError(errors.ErrUnavailable, "Failed to create event", err)
	}

	return s.GetEventByID(ctx, event.ID)
}

// GetEventByID serves the event from cache when possible, falling back to
// the store and repopulating the cache.
func (s *EventService) GetEventByID(ctx context.Context, eventID string) (*dto.EventResponse, *errors.AppError) {
	if payload, err := s.cache.GetEventJSON(ctx, eventID); err != nil {
		logger.Warn("EventService:GetEventByID:CacheGet", "error", err)
	} else if payload != nil {
		var resp dto.EventResponse
		if err := json.Unmarshal(payload, &resp); err == nil {
			return &resp, nil
		}
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnavailable, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found: "+eventID, nil)
	}

	resp := dto.ToEventResponse(event)
	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.SetEventJSON(ctx, eventID, payload); err != nil {
			logger.Warn("EventService:GetEventByID:CacheSet", "error", err)
		}
	}

	return resp, nil
}

// GetEventsForEmail lists events the email organizes or participates in.
func (s *EventService) GetEventsForEmail(ctx context.Context, email string) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.GetEventsForEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnavailable, "Failed to load events", err)
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *dto.ToEventResponse(&events[i]))
	}
	return result, nil
}

// DeleteEvent removes the event with its slots and participant rows.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) *errors.AppError {
	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewAppError(errors.ErrNotFound, "Event not found: "+eventID, err)
		}
		return errors.NewAppError(errors.ErrUnavailable, "Failed to delete event", err)
	}

	if err := s.cache.InvalidateEvent(ctx, eventID); err != nil {
		logger.Warn("EventService:DeleteEvent:CacheInvalidate", "error", err)
	}
	return nil
}

// RespondToInvitation records an accept or reject. Rejecting drops the
// user from the derived participant and necessity views; accepting clears
// any earlier rejection.
func (s *EventService) RespondToInvitation(ctx context.Context, eventID, userEmail, status string) *errors.AppError {
	var accept bool
	switch {
	case strings.EqualFold(status, "accept"):
		accept = true
	case strings.EqualFold(status, "reject"):
		accept = false
	default:
		return errors.NewAppError(errors.ErrInvalidInput, "Status must be accept or reject", nil)
	}

	if userEmail == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "userEmail is required", nil)
	}

	if err := s.repo.RecordResponse(ctx, eventID, userEmail, accept); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewAppError(errors.ErrNotFound, "Event not found: "+eventID, err)
		}
		return errors.NewAppError(errors.ErrUnavailable, "Failed to record invitation response", err)
	}

	if err := s.cache.InvalidateEvent(ctx, eventID); err != nil {
		logger.Warn("EventService:RespondToInvitation:CacheInvalidate", "error", err)
	}
	return nil
}

func validateCreateRequest(organizerEmail string, req *dto.CreateEventRequest) *errors.AppError {
	if organizerEmail == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Organizer email is required", nil)
	}
	if req.Title == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if len(req.AvailableDays) == 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "At least one available day is required", nil)
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes%constants.SlotLengthMinutes != 0 {
		return errors.NewAppError(errors.ErrInvalidInput,
			"Duration must be a positive multiple of 15 minutes", nil)
	}

	if _, err := time.Parse(constants.TimeLayout, req.StartTime); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Invalid start time: "+req.StartTime, err)
	}
	if _, err := time.Parse(constants.TimeLayout, req.EndTime); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Invalid end time: "+req.EndTime, err)
	}
	for _, day := range req.AvailableDays {
		if _, err := time.Parse(constants.DateLayout, day); err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "Invalid date: "+day, err)
		}
	}
	return nil
}
