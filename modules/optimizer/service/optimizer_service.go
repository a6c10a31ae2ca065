package service

import (
	"context"
	"sort"
	"time"

	"cusoon-api/core/cache"
	"cusoon-api/core/constants"
	"cusoon-api/core/database"
	"cusoon-api/core/errors"
	"cusoon-api/core/logger"
	eventEntity "cusoon-api/modules/event/entity"
	eventRepo "cusoon-api/modules/event/repository"
	slotEntity "cusoon-api/modules/slot/entity"
	slotRepo "cusoon-api/modules/slot/repository"

	"github.com/jmoiron/sqlx"
)

// OptimizerService computes the best contiguous meeting blocks for an
// event from participant slot weights and necessity levels.
type OptimizerService struct {
	db        database.IDatabase
	eventRepo eventRepo.EventRepositoryInterface
	slotRepo  slotRepo.SlotRepositoryInterface
	cache     cache.Cache
}

// OptimizerServiceInterface defines the service contract.
type OptimizerServiceInterface interface {
	OptimizeAndSave(ctx context.Context, eventID string) ([]eventEntity.SlotBlock, *errors.AppError)
	ComputeOptimalSlots(event *eventEntity.Event, slots []slotEntity.Slot) []eventEntity.SlotBlock
}

func NewOptimizerService(db database.IDatabase, eventRepo eventRepo.EventRepositoryInterface, slotRepo slotRepo.SlotRepositoryInterface, cache cache.Cache) *OptimizerService {
	return &OptimizerService{
		db:        db,
		eventRepo: eventRepo,
		slotRepo:  slotRepo,
		cache:     cache,
	}
}

// OptimizeAndSave runs the optimization inside a single transaction: the
// event is read and locked, blocks are computed from the current slots,
// and the ranked list overwrites the event's stored blocks. Either the
// whole read-modify-write commits or nothing is written.
func (s *OptimizerService) OptimizeAndSave(ctx context.Context, eventID string) ([]eventEntity.SlotBlock, *errors.AppError) {
	var blocks []eventEntity.SlotBlock

	err := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		event, err := s.eventRepo.GetEventByIDTx(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return errors.NewAppError(errors.ErrNotFound, "Event not found: "+eventID, nil)
		}

		if event.DurationMinutes <= 0 || event.DurationMinutes%constants.SlotLengthMinutes != 0 {
			return errors.NewAppError(errors.ErrInvalidInput,
				"Event duration must be a positive multiple of 15 minutes", nil)
		}

		slots, err := s.slotRepo.GetSlotsByEventIDTx(ctx, tx, eventID)
		if err != nil {
			return err
		}

		blocks = s.ComputeOptimalSlots(event, slots)

		event.OptimalSlots = blocks
		return s.eventRepo.SaveEventTx(ctx, tx, event)
	})
	if err != nil {
		if ae, ok := err.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrUnavailable, "Optimization transaction failed", err)
	}

	if err := s.cache.InvalidateEvent(ctx, eventID); err != nil {
		logger.Warn("OptimizerService:OptimizeAndSave:CacheInvalidate", "error", err)
	}

	logger.Info("OptimizerService:OptimizeAndSave", "event_id", eventID, "block_count", len(blocks))
	return blocks, nil
}

// ComputeOptimalSlots slides a window of duration/15 consecutive slots
// over the chronologically sorted grid, keeps windows whose slots are
// strictly 15 minutes apart, scores them by necessity-weighted
// participant preference, and returns at most the top 5. Ties keep scan
// order, so earlier blocks rank first among equal scores.
func (s *OptimizerService) ComputeOptimalSlots(event *eventEntity.Event, slots []slotEntity.Slot) []eventEntity.SlotBlock {
	sorted := make([]slotEntity.Slot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	blockSize := event.DurationMinutes / constants.SlotLengthMinutes
	if blockSize <= 0 {
		return []eventEntity.SlotBlock{}
	}

	results := []eventEntity.SlotBlock{}
	for i := 0; i+blockSize <= len(sorted); i++ {
		window := sorted[i : i+blockSize]
		if !isValidBlock(window) {
			continue
		}

		slotIDs := make([]string, 0, blockSize)
		for _, slot := range window {
			slotIDs = append(slotIDs, slot.ID)
		}

		results = append(results, eventEntity.SlotBlock{
			SlotIDs:    slotIDs,
			TotalScore: computeBlockScore(window, event.ParticipantNecessity),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})

	if len(results) > constants.MaxOptimalBlocks {
		results = results[:constants.MaxOptimalBlocks]
	}
	return results
}

// isValidBlock checks that every adjacent pair of slots is exactly 15
// minutes apart by wall clock. A gap, a day boundary, or an unparsable ID
// invalidates the window.
func isValidBlock(window []slotEntity.Slot) bool {
	for j := 0; j < len(window)-1; j++ {
		t1, err1 := time.Parse(constants.SlotIDLayout, window[j].ID)
		t2, err2 := time.Parse(constants.SlotIDLayout, window[j+1].ID)
		if err1 != nil || err2 != nil {
			return false
		}
		if t2.Sub(t1) != constants.SlotLengthMinutes*time.Minute {
			return false
		}
	}
	return true
}

// computeBlockScore sums weight × necessity multiplier over every
// (slot, participant, weight) entry in the window. A participant present
// in several slots contributes once per slot.
func computeBlockScore(window []slotEntity.Slot, necessity map[string]int) float64 {
	total := 0.0
	for _, slot := range window {
		for email, weight := range slot.ParticipantWeights {
			total += float64(weight) * necessityMultiplier(necessity[email])
		}
	}
	return total
}

// necessityMultiplier maps a necessity level to its score multiplier.
// The levels are the literal values the clients send; everything outside
// the table falls back to the neutral multiplier, including absent
// participants.
func necessityMultiplier(level int) float64 {
	switch level {
	case eventEntity.NecessityRequired:
		return 1.5
	case eventEntity.NecessityOptional:
		return 0.5
	default:
		return 1.0
	}
}
