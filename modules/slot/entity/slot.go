package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Slot is one 15-minute unit of an event's availability grid. Its ID is
// the "YYYY-MM-DDTHH:mm" timestamp, which also sorts chronologically as a
// plain string.
type Slot struct {
	ID                 string    `db:"id" json:"id"`
	EventID            string    `db:"event_id" json:"-"`
	Date               string    `db:"date" json:"date"`
	StartTime          string    `db:"start_time" json:"start_time"`
	ParticipantWeights WeightMap `db:"participant_weights" json:"participant_weights"`
}

// WeightMap maps participant email to preference weight, stored as JSONB.
type WeightMap map[string]int

func (m WeightMap) Value() (driver.Value, error) {
	if m == nil {
		m = WeightMap{}
	}
	return json.Marshal(m)
}

func (m *WeightMap) Scan(value any) error {
	if value == nil {
		*m = WeightMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}
