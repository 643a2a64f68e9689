package get_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

var london = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func findSlot(t *testing.T, slots []domain.Slot, start time.Time) domain.Slot {
	t.Helper()
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return slot
		}
	}
	t.Fatalf("slot %s not in grid", start)
	return domain.Slot{}
}

func TestResolveStartDay_DefaultsToToday(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)

	startDay, err := resolveStartDay(now, "", london)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, london), startDay)
}

func TestResolveStartDay_UsesRequestedDate(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)

	startDay, err := resolveStartDay(now, "2026-04-15", london)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, london), startDay)
}

func TestResolveStartDay_ClampsPastDateToToday(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)

	startDay, err := resolveStartDay(now, "2026-04-01", london)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, london), startDay)
}

func TestResolveStartDay_RejectsMalformedDate(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)

	_, err := resolveStartDay(now, "15/04/2026", london)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateSlots_GridShape(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, london)

	slots := generateSlots(now, startDay, 60, 30, 0, nil, london)

	// 31 days, 32 half-hour starts per day (06:00 through 21:30).
	assert.Len(t, slots, 31*32)

	first := slots[0]
	assert.Equal(t, 6, first.Start.Hour())
	assert.Equal(t, 0, first.Start.Minute())

	last := slots[len(slots)-1]
	assert.Equal(t, 21, last.Start.Hour())
	assert.Equal(t, 30, last.Start.Minute())
}

func TestGenerateSlots_PastAndNoticeUnavailable(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, london)

	slots := generateSlots(now, startDay, 60, 30, 24, nil, london)

	// Morning slots are in the past.
	morning := findSlot(t, slots, time.Date(2026, 4, 10, 9, 0, 0, 0, london))
	assert.False(t, morning.Available)

	// Tomorrow 11:30 is inside the 24h notice window.
	tooSoon := findSlot(t, slots, time.Date(2026, 4, 11, 11, 30, 0, 0, london))
	assert.False(t, tooSoon.Available)

	// Tomorrow 12:00 is exactly at the notice boundary and bookable.
	boundary := findSlot(t, slots, time.Date(2026, 4, 11, 12, 0, 0, 0, london))
	assert.True(t, boundary.Available)
}

func TestGenerateSlots_ZeroNoticeSameDay(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, london)

	slots := generateSlots(now, startDay, 75, 30, 0, nil, london)

	sameDay := findSlot(t, slots, time.Date(2026, 4, 10, 12, 30, 0, 0, london))
	assert.True(t, sameDay.Available)
}

func TestGenerateSlots_HorizonCutoff(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, london)

	slots := generateSlots(now, startDay, 60, 30, 0, nil, london)

	// Day 30 at 12:00 is exactly at the horizon.
	atHorizon := findSlot(t, slots, time.Date(2026, 5, 10, 12, 0, 0, 0, london))
	assert.True(t, atHorizon.Available)

	// Day 30 at 12:30 is past it, still emitted but unavailable.
	pastHorizon := findSlot(t, slots, time.Date(2026, 5, 10, 12, 30, 0, 0, london))
	assert.False(t, pastHorizon.Available)
}

func TestGenerateSlots_BufferedOverlap(t *testing.T) {
	now := time.Date(2026, 4, 10, 6, 0, 0, 0, london)
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, london)

	blocked := []domain.BlockedInterval{
		{
			Start: time.Date(2026, 4, 11, 10, 0, 0, 0, london),
			End:   time.Date(2026, 4, 11, 11, 0, 0, 0, london),
		},
	}

	// 60-minute visit with a 30-minute buffer blocks [start-30m, start+90m).
	slots := generateSlots(now, startDay, 60, 30, 0, blocked, london)

	// 08:30 visit occupies up to 10:00 exactly; touching is allowed.
	before := findSlot(t, slots, time.Date(2026, 4, 11, 8, 30, 0, 0, london))
	assert.True(t, before.Available)

	// 09:00 visit occupies up to 10:30 and collides.
	overlapping := findSlot(t, slots, time.Date(2026, 4, 11, 9, 0, 0, 0, london))
	assert.False(t, overlapping.Available)

	// 10:30 visit starts buffered at 10:00 and collides with the event end.
	inside := findSlot(t, slots, time.Date(2026, 4, 11, 10, 30, 0, 0, london))
	assert.False(t, inside.Available)

	// 11:30 visit starts buffered at 11:00 exactly; touching is allowed.
	after := findSlot(t, slots, time.Date(2026, 4, 11, 11, 30, 0, 0, london))
	assert.True(t, after.Available)
}

func TestGroupByDay(t *testing.T) {
	now := time.Date(2026, 4, 10, 6, 0, 0, 0, london)
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, london)

	slots := generateSlots(now, startDay, 60, 30, 0, nil, london)
	days := groupByDay(slots)

	require.Len(t, days, 31)
	assert.Equal(t, "2026-04-10", days[0].Date)
	assert.Equal(t, "2026-05-10", days[30].Date)
	assert.Len(t, days[0].Slots, 32)
}

func TestFirstAvailable(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, london)
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, london)

	slots := generateSlots(now, startDay, 60, 30, 0, nil, london)

	first := firstAvailable(slots)
	require.NotNil(t, first)
	assert.Equal(t, time.Date(2026, 4, 10, 12, 0, 0, 0, london), *first)
}
