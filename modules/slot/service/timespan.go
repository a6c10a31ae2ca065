package service

import (
	"fmt"
	"strings"
	"time"

	"cusoon-api/core/constants"
)

// timespan is a parsed "HH:mm-HH:mm@YYYY-MM-DD" identifier: a half-open
// time range on a single date.
type timespan struct {
	date  string
	start time.Time
	end   time.Time
}

func parseTimespan(id string) (timespan, error) {
	parts := strings.Split(id, "@")
	if len(parts) != 2 {
		return timespan{}, fmt.Errorf("timespan %q: missing '@' separator", id)
	}

	timeRange := strings.Split(parts[0], "-")
	if len(timeRange) != 2 {
		return timespan{}, fmt.Errorf("timespan %q: malformed time range", id)
	}

	start, err := time.Parse(constants.TimeLayout, timeRange[0])
	if err != nil {
		return timespan{}, fmt.Errorf("timespan %q: bad start time: %w", id, err)
	}
	end, err := time.Parse(constants.TimeLayout, timeRange[1])
	if err != nil {
		return timespan{}, fmt.Errorf("timespan %q: bad end time: %w", id, err)
	}
	if _, err := time.Parse(constants.DateLayout, parts[1]); err != nil {
		return timespan{}, fmt.Errorf("timespan %q: bad date: %w", id, err)
	}

	return timespan{date: parts[1], start: start, end: end}, nil
}

// slotIDs expands the range into the 15-minute slot IDs it covers:
// start, start+15, ... while still before end.
func (t timespan) slotIDs() []string {
	var ids []string
	for cur := t.start; cur.Before(t.end); cur = cur.Add(constants.SlotLengthMinutes * time.Minute) {
		ids = append(ids, t.date+"T"+cur.Format(constants.TimeLayout))
	}
	return ids
}
