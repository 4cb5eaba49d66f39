package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindowMode(t *testing.T) {
	m, err := ParseWindowMode("")
	require.NoError(t, err)
	assert.Equal(t, WindowRolling, m)

	m, err = ParseWindowMode("calendar")
	require.NoError(t, err)
	assert.Equal(t, WindowCalendar, m)

	_, err = ParseWindowMode("fortnight")
	assert.Error(t, err)
}

func TestWindowStart(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// Wednesday 2026-03-11 10:30 UTC
	now := time.Date(2026, 3, 11, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		mode WindowMode
		loc  *time.Location
		want time.Time
	}{
		{"rolling", WindowRolling, nil, time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)},
		{"calendar utc", WindowCalendar, time.UTC, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"calendar nil location", WindowCalendar, nil, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"calendar paris", WindowCalendar, paris, time.Date(2026, 3, 9, 0, 0, 0, 0, paris)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowStart(tt.mode, now, tt.loc)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestWindowStartCalendarOnMondayAndSunday(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.True(t, monday.Equal(WindowStart(WindowCalendar, monday, time.UTC)))

	sunday := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	assert.True(t, monday.Equal(WindowStart(WindowCalendar, sunday, time.UTC)))
}

func TestWindowStartCalendarUsesLocalDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// Sunday 20:00 UTC is already Monday in Tokyo.
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)

	got := WindowStart(WindowCalendar, now, tokyo)
	assert.True(t, time.Date(2026, 3, 16, 0, 0, 0, 0, tokyo).Equal(got))
}
