package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	apperrors "cusoon-api/core/errors"
	eventEntity "cusoon-api/modules/event/entity"
	"cusoon-api/modules/slot/entity"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== Fakes =====================

type fakeSlotRepo struct {
	saved   []entity.Slot
	weights map[string]map[string]int // slot ID -> email -> weight
	ops     []string                  // applied weight mutations, in order
	saveErr error
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{weights: map[string]map[string]int{}}
}

func (f *fakeSlotRepo) SaveSlots(ctx context.Context, slots []entity.Slot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, slots...)
	for _, s := range slots {
		f.weights[s.ID] = map[string]int{}
	}
	return nil
}

func (f *fakeSlotRepo) GetSlotsByEventID(ctx context.Context, eventID string) ([]entity.Slot, error) {
	var ids []string
	for id := range f.weights {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var slots []entity.Slot
	for _, id := range ids {
		weights := entity.WeightMap{}
		for email, w := range f.weights[id] {
			weights[email] = w
		}
		slots = append(slots, entity.Slot{ID: id, EventID: eventID, ParticipantWeights: weights})
	}
	return slots, nil
}

func (f *fakeSlotRepo) GetSlotsByEventIDTx(ctx context.Context, tx *sqlx.Tx, eventID string) ([]entity.Slot, error) {
	return f.GetSlotsByEventID(ctx, eventID)
}

func (f *fakeSlotRepo) SetWeight(ctx context.Context, eventID, slotID, email string, weight int) error {
	f.ops = append(f.ops, "set:"+slotID)
	if m, ok := f.weights[slotID]; ok {
		m[email] = weight
	}
	return nil
}

func (f *fakeSlotRepo) RemoveWeight(ctx context.Context, eventID, slotID, email string) error {
	f.ops = append(f.ops, "remove:"+slotID)
	if m, ok := f.weights[slotID]; ok {
		delete(m, email)
	}
	return nil
}

type fakeEventRepo struct {
	events        map[string]*eventEntity.Event
	lastRankings  map[string]int
	lastRankEmail string
}

func newFakeEventRepo(events ...*eventEntity.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: map[string]*eventEntity.Event{}}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, event *eventEntity.Event, participants []eventEntity.Participant) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) GetEventByID(ctx context.Context, id string) (*eventEntity.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) GetEventsForEmail(ctx context.Context, email string) ([]eventEntity.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) DeleteEvent(ctx context.Context, id string) error { return nil }

func (f *fakeEventRepo) RecordResponse(ctx context.Context, eventID, email string, accept bool) error {
	return nil
}

func (f *fakeEventRepo) SetSubmittedPreferences(ctx context.Context, eventID, email string, rankings map[string]int) error {
	f.lastRankEmail = email
	f.lastRankings = rankings
	return nil
}

func (f *fakeEventRepo) GetEventByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (*eventEntity.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) SaveEventTx(ctx context.Context, tx *sqlx.Tx, event *eventEntity.Event) error {
	return nil
}

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) GetEventJSON(ctx context.Context, eventID string) ([]byte, error) {
	return nil, nil
}

func (f *fakeCache) SetEventJSON(ctx context.Context, eventID string, payload []byte) error {
	return nil
}

func (f *fakeCache) InvalidateEvent(ctx context.Context, eventID string) error {
	f.invalidated = append(f.invalidated, eventID)
	return nil
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

type fakeEnqueuer struct {
	enqueued []string
}

func (f *fakeEnqueuer) EnqueueOptimizeEvent(ctx context.Context, eventID string) error {
	f.enqueued = append(f.enqueued, eventID)
	return nil
}

func newSlotTestService(repo *fakeSlotRepo, events *fakeEventRepo) (*SlotService, *fakeCache, *fakeEnqueuer) {
	cache := &fakeCache{}
	tasks := &fakeEnqueuer{}
	return NewSlotService(repo, events, cache, tasks), cache, tasks
}

// ===================== GenerateSlots =====================

func TestGenerateSlots_OneSlotPerFifteenMinutes(t *testing.T) {
	repo := newFakeSlotRepo()
	svc, _, _ := newSlotTestService(repo, newFakeEventRepo())

	appErr := svc.GenerateSlots(context.Background(), "ev1", []string{"2025-05-01"}, "09:00", "10:00")

	require.Nil(t, appErr)
	require.Len(t, repo.saved, 4)
	var ids []string
	for _, s := range repo.saved {
		ids = append(ids, s.ID)
		assert.Equal(t, "ev1", s.EventID)
		assert.Equal(t, "2025-05-01", s.Date)
		assert.Empty(t, s.ParticipantWeights)
	}
	assert.Equal(t, []string{
		"2025-05-01T09:00",
		"2025-05-01T09:15",
		"2025-05-01T09:30",
		"2025-05-01T09:45",
	}, ids)
}

func TestGenerateSlots_MultipleDays(t *testing.T) {
	repo := newFakeSlotRepo()
	svc, _, _ := newSlotTestService(repo, newFakeEventRepo())

	appErr := svc.GenerateSlots(context.Background(), "ev1",
		[]string{"2025-05-01", "2025-05-02"}, "10:00", "10:30")

	require.Nil(t, appErr)
	assert.Len(t, repo.saved, 4)
	assert.Equal(t, "2025-05-01T10:00", repo.saved[0].ID)
	assert.Equal(t, "2025-05-02T10:15", repo.saved[3].ID)
}

func TestGenerateSlots_TruncatesPartialTrailingSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc, _, _ := newSlotTestService(repo, newFakeEventRepo())

	// 09:00-09:50 only fits three full slots; 09:45 would run past the end.
	appErr := svc.GenerateSlots(context.Background(), "ev1", []string{"2025-05-01"}, "09:00", "09:50")

	require.Nil(t, appErr)
	require.Len(t, repo.saved, 3)
	assert.Equal(t, "2025-05-01T09:30", repo.saved[2].ID)
}

func TestGenerateSlots_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		days  []string
		start string
		end   string
	}{
		{"bad start time", []string{"2025-05-01"}, "9am", "10:00"},
		{"bad end time", []string{"2025-05-01"}, "09:00", "25:99"},
		{"bad date", []string{"05/01/2025"}, "09:00", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSlotRepo()
			svc, _, _ := newSlotTestService(repo, newFakeEventRepo())

			appErr := svc.GenerateSlots(context.Background(), "ev1", tt.days, tt.start, tt.end)

			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
			assert.Empty(t, repo.saved)
		})
	}
}

func TestGenerateSlots_SaveFailureIsUnavailable(t *testing.T) {
	repo := newFakeSlotRepo()
	repo.saveErr = errors.New("connection refused")
	svc, _, _ := newSlotTestService(repo, newFakeEventRepo())

	appErr := svc.GenerateSlots(context.Background(), "ev1", []string{"2025-05-01"}, "09:00", "10:00")

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrUnavailable, appErr.Code)
}

// ===================== SubmitPreferences =====================

func seedEventWithSlots(t *testing.T, repo *fakeSlotRepo, events *fakeEventRepo, eventID string) {
	t.Helper()
	events.events[eventID] = &eventEntity.Event{ID: eventID}
	require.NoError(t, repo.SaveSlots(context.Background(), []entity.Slot{
		{ID: "2025-05-01T10:00", EventID: eventID},
		{ID: "2025-05-01T10:15", EventID: eventID},
		{ID: "2025-05-01T10:30", EventID: eventID},
	}))
}

func TestSubmitPreferences_WritesWeightForEveryCoveredSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	events := newFakeEventRepo()
	seedEventWithSlots(t, repo, events, "ev1")
	svc, cache, tasks := newSlotTestService(repo, events)

	rankings := map[string]int{"10:00-10:30@2025-05-01": 3}
	appErr := svc.SubmitPreferences(context.Background(), "ev1", "alice@example.com", rankings, nil)

	require.Nil(t, appErr)
	assert.Equal(t, 3, repo.weights["2025-05-01T10:00"]["alice@example.com"])
	assert.Equal(t, 3, repo.weights["2025-05-01T10:15"]["alice@example.com"])
	_, touched := repo.weights["2025-05-01T10:30"]["alice@example.com"]
	assert.False(t, touched, "slot outside the timespan must stay untouched")

	assert.Equal(t, "alice@example.com", events.lastRankEmail)
	assert.Equal(t, rankings, events.lastRankings)
	assert.Equal(t, []string{"ev1"}, cache.invalidated)
	assert.Equal(t, []string{"ev1"}, tasks.enqueued)
}

func TestSubmitPreferences_DeletionsApplyBeforeRankings(t *testing.T) {
	repo := newFakeSlotRepo()
	events := newFakeEventRepo()
	seedEventWithSlots(t, repo, events, "ev1")
	repo.weights["2025-05-01T10:00"]["alice@example.com"] = 5
	svc, _, _ := newSlotTestService(repo, events)

	// The same span is deleted and re-ranked; the new weight must win.
	appErr := svc.SubmitPreferences(context.Background(), "ev1", "alice@example.com",
		map[string]int{"10:00-10:15@2025-05-01": 2},
		[]string{"10:00-10:15@2025-05-01"})

	require.Nil(t, appErr)
	assert.Equal(t, 2, repo.weights["2025-05-01T10:00"]["alice@example.com"])
	require.Len(t, repo.ops, 2)
	assert.Equal(t, "remove:2025-05-01T10:00", repo.ops[0])
	assert.Equal(t, "set:2025-05-01T10:00", repo.ops[1])
}

func TestSubmitPreferences_DeletionClearsWeights(t *testing.T) {
	repo := newFakeSlotRepo()
	events := newFakeEventRepo()
	seedEventWithSlots(t, repo, events, "ev1")
	repo.weights["2025-05-01T10:00"]["alice@example.com"] = 4
	repo.weights["2025-05-01T10:15"]["alice@example.com"] = 4
	svc, _, _ := newSlotTestService(repo, events)

	appErr := svc.SubmitPreferences(context.Background(), "ev1", "alice@example.com",
		nil, []string{"10:00-10:30@2025-05-01"})

	require.Nil(t, appErr)
	assert.Empty(t, repo.weights["2025-05-01T10:00"])
	assert.Empty(t, repo.weights["2025-05-01T10:15"])
}

func TestSubmitPreferences_MalformedTimespanIsSkipped(t *testing.T) {
	repo := newFakeSlotRepo()
	events := newFakeEventRepo()
	seedEventWithSlots(t, repo, events, "ev1")
	svc, _, _ := newSlotTestService(repo, events)

	appErr := svc.SubmitPreferences(context.Background(), "ev1", "alice@example.com",
		map[string]int{
			"not-a-timespan":         9,
			"10:15-10:30@2025-05-01": 1,
		},
		[]string{"also@broken@id"})

	require.Nil(t, appErr)
	assert.Equal(t, 1, repo.weights["2025-05-01T10:15"]["alice@example.com"])
}

func TestSubmitPreferences_EmptyRankingsStillRecorded(t *testing.T) {
	repo := newFakeSlotRepo()
	events := newFakeEventRepo()
	seedEventWithSlots(t, repo, events, "ev1")
	svc, _, _ := newSlotTestService(repo, events)

	appErr := svc.SubmitPreferences(context.Background(), "ev1", "alice@example.com",
		map[string]int{}, nil)

	require.Nil(t, appErr)
	assert.Equal(t, "alice@example.com", events.lastRankEmail)
	assert.Empty(t, events.lastRankings)
}

func TestSubmitPreferences_UnknownEvent(t *testing.T) {
	repo := newFakeSlotRepo()
	svc, _, tasks := newSlotTestService(repo, newFakeEventRepo())

	appErr := svc.SubmitPreferences(context.Background(), "missing", "alice@example.com",
		map[string]int{"10:00-10:15@2025-05-01": 2}, nil)

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.Empty(t, repo.ops)
	assert.Empty(t, tasks.enqueued)
}

// ===================== GetPreferences =====================

func TestGetPreferences_ReturnsSortedSlots(t *testing.T) {
	repo := newFakeSlotRepo()
	events := newFakeEventRepo()
	seedEventWithSlots(t, repo, events, "ev1")
	repo.weights["2025-05-01T10:15"]["bob@example.com"] = 2
	svc, _, _ := newSlotTestService(repo, events)

	slots, appErr := svc.GetPreferences(context.Background(), "ev1")

	require.Nil(t, appErr)
	require.Len(t, slots, 3)
	assert.Equal(t, "2025-05-01T10:00", slots[0].ID)
	assert.Equal(t, entity.WeightMap{"bob@example.com": 2}, slots[1].ParticipantWeights)
}

func TestGetPreferences_EmptyEventReturnsEmptySlice(t *testing.T) {
	repo := newFakeSlotRepo()
	svc, _, _ := newSlotTestService(repo, newFakeEventRepo())

	slots, appErr := svc.GetPreferences(context.Background(), "ev1")

	require.Nil(t, appErr)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}
