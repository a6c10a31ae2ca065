package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

// Participant invitation status, tracked per event.
type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusAccepted ParticipantStatus = "accepted"
	ParticipantStatusRejected ParticipantStatus = "rejected"
)

// Necessity levels submitted by organizers. Anything outside this set
// scores with the neutral multiplier during optimization.
const (
	NecessityOptional = 3
	NecessityRequired = 5
)

// Event is a meeting to be scheduled: the organizer's day list and time
// window, the invited participants with their necessity levels, the
// preferences participants have submitted so far, and the ranked blocks
// the optimizer last computed.
type Event struct {
	ID              string         `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	Slug            string         `db:"slug" json:"slug"`
	OrganizerEmail  string         `db:"organizer_email" json:"organizer_email"`
	AvailableDays   pq.StringArray `db:"available_days" json:"available_days"`
	StartTime       string         `db:"start_time" json:"start_time"`
	EndTime         string         `db:"end_time" json:"end_time"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`

	// Derived from event_participants rows; rejected participants are
	// excluded from both.
	ParticipantEmails    []string       `db:"-" json:"participant_emails"`
	ParticipantNecessity map[string]int `db:"-" json:"participant_necessity"`

	ConfirmedParticipants []string `db:"-" json:"confirmed_participants"`
	RejectedParticipants  []string `db:"-" json:"rejected_participants"`

	// email -> (timespan ID -> preference weight), exactly as submitted.
	SubmittedPreferences PreferenceMap `db:"submitted_preferences" json:"submitted_preferences"`

	// Overwritten wholesale on every optimization run.
	OptimalSlots SlotBlockList `db:"optimal_slots" json:"optimal_slots"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Participant is one event_participants row.
type Participant struct {
	EventID   string            `db:"event_id" json:"event_id"`
	Email     string            `db:"email" json:"email"`
	Necessity int               `db:"necessity" json:"necessity"`
	Status    ParticipantStatus `db:"status" json:"status"`
}

// SlotBlock is a contiguous run of slot IDs matching the event duration,
// with its aggregate desirability score. Blocks are never stored on their
// own; the ranked list lives on the event row as JSONB.
type SlotBlock struct {
	SlotIDs    []string `json:"slot_ids"`
	TotalScore float64  `json:"total_score"`
}

type SlotBlockList []SlotBlock

func (l SlotBlockList) Value() (driver.Value, error) {
	if l == nil {
		l = SlotBlockList{}
	}
	return json.Marshal(l)
}

func (l *SlotBlockList) Scan(value any) error {
	if value == nil {
		*l = SlotBlockList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

type PreferenceMap map[string]map[string]int

func (m PreferenceMap) Value() (driver.Value, error) {
	if m == nil {
		m = PreferenceMap{}
	}
	return json.Marshal(m)
}

func (m *PreferenceMap) Scan(value any) error {
	if value == nil {
		*m = PreferenceMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}
