package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
		ok   bool
	}{
		{"same day", "2025-01-13", "2025-01-13", 0, true},
		{"forward", "2025-01-13", "2025-01-01", 12, true},
		{"backward", "2025-01-01", "2025-01-13", -12, true},
		{"across month end", "2025-03-02", "2025-02-26", 4, true},
		{"leap february", "2024-03-01", "2024-02-28", 2, true},
		{"across dst boundary", "2025-04-01", "2025-03-01", 31, true},
		{"across a year", "2026-01-01", "2025-01-01", 365, true},
		{"missing a", "", "2025-01-01", 0, false},
		{"missing b", "2025-01-01", "", 0, false},
		{"garbage", "not-a-date", "2025-01-01", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DayDiff(tt.a, tt.b)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, "2025-01-16", AddDays("2025-01-01", 15))
	assert.Equal(t, "2024-12-29", AddDays("2025-01-01", -3))
	assert.Equal(t, "2025-03-01", AddDays("2025-02-26", 3))
	assert.Equal(t, "2024-02-29", AddDays("2024-02-28", 1))
	assert.Equal(t, "", AddDays("bogus", 1))
}

func TestAddDaysDayDiffRoundTrip(t *testing.T) {
	for _, n := range []int{-400, -30, -1, 0, 1, 7, 30, 365} {
		shifted := AddDays("2025-06-15", n)
		d, ok := DayDiff(shifted, "2025-06-15")
		require.True(t, ok)
		assert.Equal(t, n, d)
	}
}

func TestMonthBucket(t *testing.T) {
	assert.Equal(t, "2025-09", MonthBucket("2025-09-22"))
	assert.Equal(t, "2024-12", MonthBucket("2024-12-01"))
	assert.Equal(t, "", MonthBucket("22/09/2025"))
}

func TestToday(t *testing.T) {
	today := Today()
	require.Len(t, today, 10)
	_, ok := DayDiff(today, today)
	assert.True(t, ok)
}
