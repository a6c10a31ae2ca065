package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"cusoon-api/core/database"
	"cusoon-api/core/logger"
	"cusoon-api/modules/event/entity"

	"github.com/jmoiron/sqlx"
)

// EventRepository handles event and participant database operations.
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event, participants []entity.Participant) error
	GetEventByID(ctx context.Context, id string) (*entity.Event, error)
	GetEventsForEmail(ctx context.Context, email string) ([]entity.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	RecordResponse(ctx context.Context, eventID, email string, accept bool) error
	SetSubmittedPreferences(ctx context.Context, eventID, email string, rankings map[string]int) error

	// Transaction-scoped variants used by the optimize-and-save path.
	GetEventByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (*entity.Event, error)
	SaveEventTx(ctx context.Context, tx *sqlx.Tx, event *entity.Event) error
}

const eventColumns = `
	id, title, slug, organizer_email, available_days, start_time, end_time,
	duration_minutes, submitted_preferences, optimal_slots, created_at, updated_at
`

// ===================== Event CRUD =====================

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event, participants []entity.Participant) error {
	return r.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO events (id, title, slug, organizer_email, available_days,
			                    start_time, end_time, duration_minutes,
			                    submitted_preferences, optimal_slots)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, query,
			event.ID, event.Title, event.Slug, event.OrganizerEmail, event.AvailableDays,
			event.StartTime, event.EndTime, event.DurationMinutes,
			event.SubmittedPreferences, event.OptimalSlots)
		if err != nil {
			logger.Error("EventRepository:CreateEvent", err)
			return err
		}

		for _, p := range participants {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO event_participants (event_id, email, necessity, status)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (event_id, email) DO UPDATE SET necessity = EXCLUDED.necessity
			`, event.ID, p.Email, p.Necessity, p.Status)
			if err != nil {
				logger.Error("EventRepository:CreateEvent:Participant", err)
				return err
			}
		}

		return nil
	})
}

func (r *EventRepository) GetEventByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	if err := r.attachParticipants(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetEventsForEmail(ctx context.Context, email string) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		WHERE e.organizer_email = $1
		   OR EXISTS (
			SELECT 1 FROM event_participants p
			WHERE p.event_id = e.id AND p.email = $1 AND p.status <> 'rejected'
		   )
		ORDER BY e.created_at DESC
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, email)
	if err != nil {
		logger.Error("EventRepository:GetEventsForEmail", err)
		return nil, err
	}

	for i := range events {
		if err := r.attachParticipants(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	return r.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var found string
		if err := tx.GetContext(ctx, &found, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, id); err != nil {
			return err
		}

		for _, query := range []string{
			`DELETE FROM slots WHERE event_id = $1`,
			`DELETE FROM event_participants WHERE event_id = $1`,
			`DELETE FROM events WHERE id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				logger.Error("EventRepository:DeleteEvent", err)
				return err
			}
		}
		return nil
	})
}

// ===================== Invitation responses =====================

// RecordResponse upserts the participant's status. Accepting clears a
// previous rejection and vice versa; necessity assigned at invite time is
// kept.
func (r *EventRepository) RecordResponse(ctx context.Context, eventID, email string, accept bool) error {
	status := entity.ParticipantStatusRejected
	if accept {
		status = entity.ParticipantStatusAccepted
	}

	return r.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var found string
		if err := tx.GetContext(ctx, &found, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO event_participants (event_id, email, necessity, status)
			VALUES ($1, $2, 0, $3)
			ON CONFLICT (event_id, email) DO UPDATE SET status = EXCLUDED.status
		`, eventID, email, status)
		if err != nil {
			logger.Error("EventRepository:RecordResponse", err)
		}
		return err
	})
}

// ===================== Submitted preferences =====================

// SetSubmittedPreferences replaces the user's entry in the event's
// submitted_preferences map, or removes it when rankings is empty.
func (r *EventRepository) SetSubmittedPreferences(ctx context.Context, eventID, email string, rankings map[string]int) error {
	if len(rankings) == 0 {
		err := r.DB.ExecContext(ctx, `
			UPDATE events
			SET submitted_preferences = COALESCE(submitted_preferences, '{}'::jsonb) - $2,
			    updated_at = NOW()
			WHERE id = $1
		`, eventID, email)
		if err != nil {
			logger.Error("EventRepository:SetSubmittedPreferences:Delete", err)
		}
		return err
	}

	payload, err := json.Marshal(rankings)
	if err != nil {
		return err
	}

	err = r.DB.ExecContext(ctx, `
		UPDATE events
		SET submitted_preferences = jsonb_set(
			COALESCE(submitted_preferences, '{}'::jsonb), ARRAY[$2], $3::jsonb, true),
		    updated_at = NOW()
		WHERE id = $1
	`, eventID, email, string(payload))
	if err != nil {
		logger.Error("EventRepository:SetSubmittedPreferences", err)
	}
	return err
}

// ===================== Transaction-scoped =====================

// GetEventByIDTx loads and locks the event row inside tx.
func (r *EventRepository) GetEventByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	var event entity.Event
	err := tx.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByIDTx", err)
		return nil, err
	}

	if err := r.attachParticipantsExec(ctx, tx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// SaveEventTx replaces the stored event record with the given one.
func (r *EventRepository) SaveEventTx(ctx context.Context, tx *sqlx.Tx, event *entity.Event) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE events
		SET title = $2, slug = $3, available_days = $4, start_time = $5,
		    end_time = $6, duration_minutes = $7, submitted_preferences = $8,
		    optimal_slots = $9, updated_at = NOW()
		WHERE id = $1
	`, event.ID, event.Title, event.Slug, event.AvailableDays, event.StartTime,
		event.EndTime, event.DurationMinutes, event.SubmittedPreferences, event.OptimalSlots)
	if err != nil {
		logger.Error("EventRepository:SaveEventTx", err)
	}
	return err
}

// ===================== Participant assembly =====================

type participantQuerier interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (r *EventRepository) attachParticipants(ctx context.Context, event *entity.Event) error {
	return r.attachParticipantsExec(ctx, r.DB, event)
}

func (r *EventRepository) attachParticipantsExec(ctx context.Context, q participantQuerier, event *entity.Event) error {
	var participants []entity.Participant
	err := q.SelectContext(ctx, &participants, `
		SELECT event_id, email, necessity, status
		FROM event_participants
		WHERE event_id = $1
		ORDER BY email
	`, event.ID)
	if err != nil {
		logger.Error("EventRepository:attachParticipants", err)
		return err
	}

	event.ParticipantEmails = []string{}
	event.ParticipantNecessity = map[string]int{}
	event.ConfirmedParticipants = []string{}
	event.RejectedParticipants = []string{}

	for _, p := range participants {
		switch p.Status {
		case entity.ParticipantStatusRejected:
			event.RejectedParticipants = append(event.RejectedParticipants, p.Email)
		default:
			event.ParticipantEmails = append(event.ParticipantEmails, p.Email)
			event.ParticipantNecessity[p.Email] = p.Necessity
			if p.Status == entity.ParticipantStatusAccepted {
				event.ConfirmedParticipants = append(event.ConfirmedParticipants, p.Email)
			}
		}
	}
	return nil
}
