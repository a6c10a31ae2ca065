package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimespan(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "10:00-11:30@2025-05-01", false},
		{"missing separator", "10:00-11:30", true},
		{"double separator", "10:00-11:30@2025@05", true},
		{"missing range dash", "10:00@2025-05-01", true},
		{"bad start time", "10am-11:30@2025-05-01", true},
		{"bad end time", "10:00-99:99@2025-05-01", true},
		{"bad date", "10:00-11:30@May 1st", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := parseTimespan(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2025-05-01", ts.date)
		})
	}
}

func TestTimespanSlotIDs(t *testing.T) {
	ts, err := parseTimespan("17:00-18:30@2025-05-01")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2025-05-01T17:00",
		"2025-05-01T17:15",
		"2025-05-01T17:30",
		"2025-05-01T17:45",
		"2025-05-01T18:00",
		"2025-05-01T18:15",
	}, ts.slotIDs())
}

func TestTimespanSlotIDs_EmptyRange(t *testing.T) {
	ts, err := parseTimespan("10:00-10:00@2025-05-01")
	require.NoError(t, err)
	assert.Empty(t, ts.slotIDs())
}
