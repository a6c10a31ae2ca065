package service

import (
	"testing"

	eventEntity "cusoon-api/modules/event/entity"
	slotEntity "cusoon-api/modules/slot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *OptimizerService {
	return NewOptimizerService(nil, nil, nil, nil)
}

func slot(id string, weights map[string]int) slotEntity.Slot {
	return slotEntity.Slot{ID: id, ParticipantWeights: weights}
}

func TestComputeOptimalSlots_BlocksScoredAndSortedCorrectly(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{
		DurationMinutes: 30,
		ParticipantNecessity: map[string]int{
			"alice@example.com": 5,
			"bob@example.com":   3,
		},
	}

	slots := []slotEntity.Slot{
		slot("2025-04-01T10:00", map[string]int{"alice@example.com": 2}),
		slot("2025-04-01T10:15", map[string]int{"bob@example.com": 3}),
		slot("2025-04-01T10:30", map[string]int{"alice@example.com": 1}),
	}

	blocks := svc.ComputeOptimalSlots(event, slots)

	require.Len(t, blocks, 2)
	assert.Equal(t, []string{"2025-04-01T10:00", "2025-04-01T10:15"}, blocks[0].SlotIDs)
	assert.InDelta(t, 4.5, blocks[0].TotalScore, 0.001) // 2*1.5 + 3*0.5
	assert.Equal(t, []string{"2025-04-01T10:15", "2025-04-01T10:30"}, blocks[1].SlotIDs)
	assert.InDelta(t, 3.0, blocks[1].TotalScore, 0.001) // 3*0.5 + 1*1.5
}

func TestComputeOptimalSlots_SkipsGapBlocks(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{
		DurationMinutes:      30,
		ParticipantNecessity: map[string]int{"alice@example.com": 5},
	}

	// 45-minute gap between the two slots: no valid 30-minute block.
	slots := []slotEntity.Slot{
		slot("2025-04-01T10:00", map[string]int{"alice@example.com": 3}),
		slot("2025-04-01T10:45", map[string]int{"alice@example.com": 3}),
	}

	blocks := svc.ComputeOptimalSlots(event, slots)
	assert.Empty(t, blocks)
}

func TestComputeOptimalSlots_BlockSizeMatchesDuration(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{DurationMinutes: 60}

	var slots []slotEntity.Slot
	for _, tm := range []string{"09:00", "09:15", "09:30", "09:45", "10:00", "10:15"} {
		slots = append(slots, slot("2025-04-01T"+tm, nil))
	}

	blocks := svc.ComputeOptimalSlots(event, slots)

	require.Len(t, blocks, 3)
	for _, block := range blocks {
		assert.Len(t, block.SlotIDs, 4)
	}
}

func TestComputeOptimalSlots_ReturnsAtMostFiveBlocks(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{DurationMinutes: 15}

	var slots []slotEntity.Slot
	for _, tm := range []string{"10:00", "10:15", "10:30", "10:45", "11:00", "11:15", "11:30", "11:45", "12:00", "12:15"} {
		slots = append(slots, slot("2025-04-01T"+tm, nil))
	}

	blocks := svc.ComputeOptimalSlots(event, slots)
	assert.Len(t, blocks, 5)
}

func TestComputeOptimalSlots_TiesKeepScanOrder(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{DurationMinutes: 30}

	// All windows score 0.0; the earliest-starting block must come first.
	slots := []slotEntity.Slot{
		slot("2025-04-01T10:00", nil),
		slot("2025-04-01T10:15", nil),
		slot("2025-04-01T10:30", nil),
		slot("2025-04-01T10:45", nil),
	}

	blocks := svc.ComputeOptimalSlots(event, slots)

	require.Len(t, blocks, 3)
	assert.Equal(t, "2025-04-01T10:00", blocks[0].SlotIDs[0])
	assert.Equal(t, "2025-04-01T10:15", blocks[1].SlotIDs[0])
	assert.Equal(t, "2025-04-01T10:30", blocks[2].SlotIDs[0])
}

func TestComputeOptimalSlots_SortsUnorderedInput(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{DurationMinutes: 30}

	slots := []slotEntity.Slot{
		slot("2025-04-01T10:15", nil),
		slot("2025-04-01T10:00", nil),
	}

	blocks := svc.ComputeOptimalSlots(event, slots)

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"2025-04-01T10:00", "2025-04-01T10:15"}, blocks[0].SlotIDs)
}

func TestComputeOptimalSlots_WindowsNeverCrossDays(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{DurationMinutes: 30}

	// Last slot of one day and first of a later day are adjacent in the
	// sorted list but hours apart on the wall clock.
	slots := []slotEntity.Slot{
		slot("2025-04-01T20:45", nil),
		slot("2025-04-02T09:00", nil),
		slot("2025-04-02T09:15", nil),
	}

	blocks := svc.ComputeOptimalSlots(event, slots)

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"2025-04-02T09:00", "2025-04-02T09:15"}, blocks[0].SlotIDs)
}

func TestNecessityMultiplier_ExplicitTable(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{5, 1.5},
		{3, 0.5},
		{0, 1.0},
		{1, 1.0},
		{2, 1.0},
		{4, 1.0},
		{7, 1.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, necessityMultiplier(tt.level), "level %d", tt.level)
	}
}

func TestComputeOptimalSlots_ParticipantCountsOncePerSlot(t *testing.T) {
	svc := newTestService()

	event := &eventEntity.Event{
		DurationMinutes:      30,
		ParticipantNecessity: map[string]int{"alice@example.com": 0},
	}

	slots := []slotEntity.Slot{
		slot("2025-04-01T10:00", map[string]int{"alice@example.com": 2}),
		slot("2025-04-01T10:15", map[string]int{"alice@example.com": 2}),
	}

	blocks := svc.ComputeOptimalSlots(event, slots)

	require.Len(t, blocks, 1)
	assert.InDelta(t, 4.0, blocks[0].TotalScore, 0.001)
}
