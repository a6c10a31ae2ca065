package repository

import (
	"context"

	"cusoon-api/core/database"
	"cusoon-api/core/logger"
	"cusoon-api/modules/slot/entity"

	"github.com/jmoiron/sqlx"
)

// SlotRepository handles the per-event availability grid.
type SlotRepository struct {
	DB database.IDatabase
}

func NewSlotRepository(db database.IDatabase) *SlotRepository {
	return &SlotRepository{DB: db}
}

// SlotRepositoryInterface defines the repository contract.
type SlotRepositoryInterface interface {
	SaveSlots(ctx context.Context, slots []entity.Slot) error
	GetSlotsByEventID(ctx context.Context, eventID string) ([]entity.Slot, error)
	GetSlotsByEventIDTx(ctx context.Context, tx *sqlx.Tx, eventID string) ([]entity.Slot, error)
	SetWeight(ctx context.Context, eventID, slotID, email string, weight int) error
	RemoveWeight(ctx context.Context, eventID, slotID, email string) error
}

// SaveSlots upserts slots by ID; a replayed generation run overwrites the
// same rows rather than adding new ones.
func (r *SlotRepository) SaveSlots(ctx context.Context, slots []entity.Slot) error {
	query := `
		INSERT INTO slots (event_id, id, date, start_time, participant_weights)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, id) DO UPDATE
		SET date = EXCLUDED.date,
		    start_time = EXCLUDED.start_time,
		    participant_weights = EXCLUDED.participant_weights
	`

	for _, slot := range slots {
		err := r.DB.ExecContext(ctx, query,
			slot.EventID, slot.ID, slot.Date, slot.StartTime, slot.ParticipantWeights)
		if err != nil {
			logger.Error("SlotRepository:SaveSlots", err)
			return err
		}
	}
	return nil
}

const slotSelect = `
	SELECT id, event_id, date, start_time, participant_weights
	FROM slots
	WHERE event_id = $1
	ORDER BY id ASC
`

func (r *SlotRepository) GetSlotsByEventID(ctx context.Context, eventID string) ([]entity.Slot, error) {
	var slots []entity.Slot
	err := r.DB.SelectContext(ctx, &slots, slotSelect, eventID)
	if err != nil {
		logger.Error("SlotRepository:GetSlotsByEventID", err)
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) GetSlotsByEventIDTx(ctx context.Context, tx *sqlx.Tx, eventID string) ([]entity.Slot, error) {
	var slots []entity.Slot
	err := tx.SelectContext(ctx, &slots, slotSelect, eventID)
	if err != nil {
		logger.Error("SlotRepository:GetSlotsByEventIDTx", err)
		return nil, err
	}
	return slots, nil
}

// SetWeight writes a single participant's weight on one slot. The JSONB
// merge is a single statement, so each field update is atomic at the
// store level. A missing slot row is a no-op.
func (r *SlotRepository) SetWeight(ctx context.Context, eventID, slotID, email string, weight int) error {
	err := r.DB.ExecContext(ctx, `
		UPDATE slots
		SET participant_weights =
			COALESCE(participant_weights, '{}'::jsonb) || jsonb_build_object($3::text, $4::int)
		WHERE event_id = $1 AND id = $2
	`, eventID, slotID, email, weight)
	if err != nil {
		logger.Error("SlotRepository:SetWeight", err)
	}
	return err
}

// RemoveWeight deletes a participant's weight from one slot. Removing an
// absent key, or targeting a missing slot, is a no-op.
func (r *SlotRepository) RemoveWeight(ctx context.Context, eventID, slotID, email string) error {
	err := r.DB.ExecContext(ctx, `
		UPDATE slots
		SET participant_weights = COALESCE(participant_weights, '{}'::jsonb) - $3
		WHERE event_id = $1 AND id = $2
	`, eventID, slotID, email)
	if err != nil {
		logger.Error("SlotRepository:RemoveWeight", err)
	}
	return err
}
