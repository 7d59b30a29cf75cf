package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		date time.Time
		want bool
	}{
		{Date(2026, 3, 6), false}, // Friday
		{Date(2026, 3, 7), true},  // Saturday
		{Date(2026, 3, 8), true},  // Sunday
		{Date(2026, 3, 9), false}, // Monday
	}

	for _, tt := range tests {
		t.Run(Format(tt.date), func(t *testing.T) {
			assert.Equal(t, tt.want, IsWeekend(tt.date))
		})
	}
}

func TestIsPeakSeason(t *testing.T) {
	assert.False(t, IsPeakSeason(Date(2026, 6, 30)))
	assert.True(t, IsPeakSeason(Date(2026, 7, 1)))
	assert.True(t, IsPeakSeason(Date(2031, 8, 31)))
	assert.False(t, IsPeakSeason(Date(2026, 9, 1)))
}

func TestDaysBetween(t *testing.T) {
	start := Date(2026, 1, 30)
	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, 30, DaysBetween(start, start.AddDate(0, 0, 30)))
	assert.Equal(t, -5, DaysBetween(start, start.AddDate(0, 0, -5)))
	assert.Equal(t, 31, DaysBetween(Date(2026, 3, 1), Date(2026, 4, 1)))

	// Spans past the range of time.Duration.
	assert.Equal(t, 146097, DaysBetween(Date(1600, 1, 1), Date(2000, 1, 1)))
	assert.Equal(t, 292194, DaysBetween(Date(2000, 1, 1), Date(2800, 1, 1)))
	assert.Equal(t, 2932532, DaysBetween(Date(1, 1, 1), Date(8030, 1, 1)))
}

func TestEachDay(t *testing.T) {
	var got []string
	EachDay(Date(2026, 2, 27), Date(2026, 3, 2), func(d time.Time) bool {
		got = append(got, Format(d))
		return true
	})
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, got)

	count := 0
	EachDay(Date(2026, 3, 1), Date(2026, 3, 31), func(time.Time) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)

	called := false
	EachDay(Date(2026, 3, 2), Date(2026, 3, 1), func(time.Time) bool {
		called = true
		return true
	})
	assert.False(t, called, "empty range should not iterate")
}

func TestOverlaps(t *testing.T) {
	d := func(day int) time.Time { return Date(2026, 5, day) }

	assert.True(t, Overlaps(d(10), d(12), d(12), d(14)), "shared end/start day")
	assert.True(t, Overlaps(d(10), d(20), d(12), d(14)), "containment")
	assert.True(t, Overlaps(d(10), d(10), d(10), d(10)), "same single day")
	assert.False(t, Overlaps(d(10), d(12), d(13), d(14)), "adjacent days")
	assert.False(t, Overlaps(d(15), d(16), d(10), d(14)))
}

func TestParse(t *testing.T) {
	got, err := Parse("2026-07-04")
	require.NoError(t, err)
	assert.Equal(t, Date(2026, 7, 4), got)

	_, err = Parse("2026/07/04")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	assert.Equal(t, Date(2026, 10, 20), Truncate(time.Date(2026, 10, 20, 1, 30, 0, 0, loc)))
}
