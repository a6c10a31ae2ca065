package service

import (
	"context"
	"time"

	"cusoon-api/core/cache"
	"cusoon-api/core/constants"
	"cusoon-api/core/errors"
	"cusoon-api/core/logger"
	eventRepo "cusoon-api/modules/event/repository"
	"cusoon-api/modules/slot/entity"
	"cusoon-api/modules/slot/repository"
)

// OptimizeEnqueuer schedules a background re-optimization run.
type OptimizeEnqueuer interface {
	EnqueueOptimizeEvent(ctx context.Context, eventID string) error
}

// SlotService owns the availability grid: generating it when an event is
// created and mutating per-participant weights as preferences come in.
type SlotService struct {
	repo      repository.SlotRepositoryInterface
	eventRepo eventRepo.EventRepositoryInterface
	cache     cache.Cache
	tasks     OptimizeEnqueuer
}

// SlotServiceInterface defines the service contract.
type SlotServiceInterface interface {
	GenerateSlots(ctx context.Context, eventID string, availableDays []string, startTime, endTime string) *errors.AppError
	SubmitPreferences(ctx context.Context, eventID, userEmail string, rankings map[string]int, deletedTimespanIDs []string) *errors.AppError
	GetPreferences(ctx context.Context, eventID string) ([]entity.Slot, *errors.AppError)
}

func NewSlotService(repo repository.SlotRepositoryInterface, eventRepo eventRepo.EventRepositoryInterface, cache cache.Cache, tasks OptimizeEnqueuer) *SlotService {
	return &SlotService{
		repo:      repo,
		eventRepo: eventRepo,
		cache:     cache,
		tasks:     tasks,
	}
}

// GenerateSlots creates one empty slot per 15-minute tick of the event's
// window, for every available day. Slot IDs are deterministic, so a
// replayed run recreates the same rows.
func (s *SlotService) GenerateSlots(ctx context.Context, eventID string, availableDays []string, startTime, endTime string) *errors.AppError {
	start, err := time.Parse(constants.TimeLayout, startTime)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Invalid start time: "+startTime, err)
	}
	end, err := time.Parse(constants.TimeLayout, endTime)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Invalid end time: "+endTime, err)
	}

	lastStart := end.Add(-constants.SlotLengthMinutes * time.Minute)

	var slots []entity.Slot
	for _, dayStr := range availableDays {
		if _, err := time.Parse(constants.DateLayout, dayStr); err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "Invalid date: "+dayStr, err)
		}

		for cur := start; !cur.After(lastStart); cur = cur.Add(constants.SlotLengthMinutes * time.Minute) {
			slotTime := cur.Format(constants.TimeLayout)
			slots = append(slots, entity.Slot{
				ID:                 dayStr + "T" + slotTime,
				EventID:            eventID,
				Date:               dayStr,
				StartTime:          slotTime,
				ParticipantWeights: entity.WeightMap{},
			})
		}
	}

	if err := s.repo.SaveSlots(ctx, slots); err != nil {
		return errors.NewAppError(errors.ErrUnavailable, "Failed to save slots", err)
	}

	logger.Info("SlotService:GenerateSlots", "event_id", eventID, "slot_count", len(slots))
	return nil
}

// SubmitPreferences applies a participant's availability submission:
// deleted timespans are cleared first, then rankings are written, so a
// slot covered by both ends up with the new weight. Malformed timespans
// are logged and skipped without failing the rest of the submission.
func (s *SlotService) SubmitPreferences(ctx context.Context, eventID, userEmail string, rankings map[string]int, deletedTimespanIDs []string) *errors.AppError {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrUnavailable, "Failed to load event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found: "+eventID, nil)
	}

	// 1. Deletions
	for _, timespanID := range deletedTimespanIDs {
		ts, err := parseTimespan(timespanID)
		if err != nil {
			logger.Warn("SlotService:SubmitPreferences:SkipDeletion", "error", err)
			continue
		}
		for _, slotID := range ts.slotIDs() {
			if err := s.repo.RemoveWeight(ctx, eventID, slotID, userEmail); err != nil {
				return errors.NewAppError(errors.ErrUnavailable, "Failed to clear slot weight", err)
			}
		}
	}

	// 2. New or updated rankings
	for timespanID, weight := range rankings {
		ts, err := parseTimespan(timespanID)
		if err != nil {
			logger.Warn("SlotService:SubmitPreferences:SkipRanking", "error", err)
			continue
		}
		for _, slotID := range ts.slotIDs() {
			if err := s.repo.SetWeight(ctx, eventID, slotID, userEmail, weight); err != nil {
				return errors.NewAppError(errors.ErrUnavailable, "Failed to set slot weight", err)
			}
		}
	}

	// 3. Mirror the submission onto the event record; an empty rankings
	// map removes the user's entry entirely.
	if err := s.eventRepo.SetSubmittedPreferences(ctx, eventID, userEmail, rankings); err != nil {
		return errors.NewAppError(errors.ErrUnavailable, "Failed to record submitted preferences", err)
	}

	if err := s.cache.InvalidateEvent(ctx, eventID); err != nil {
		logger.Warn("SlotService:SubmitPreferences:CacheInvalidate", "error", err)
	}

	// Keep the stored ranked blocks fresh. Best effort: a failed enqueue
	// does not fail the submission.
	if err := s.tasks.EnqueueOptimizeEvent(ctx, eventID); err != nil {
		logger.Warn("SlotService:SubmitPreferences:Enqueue", "error", err)
	}

	return nil
}

// GetPreferences returns every slot of the event, sorted by slot ID.
func (s *SlotService) GetPreferences(ctx context.Context, eventID string) ([]entity.Slot, *errors.AppError) {
	slots, err := s.repo.GetSlotsByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnavailable, "Failed to load slots", err)
	}
	if slots == nil {
		slots = []entity.Slot{}
	}
	return slots, nil
}
