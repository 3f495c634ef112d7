package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParsePeriod(t *testing.T) {
	t.Run("empty defaults to monthly", func(t *testing.T) {
		p, err := ParsePeriod("")
		require.NoError(t, err)
		assert.Equal(t, PeriodMonthly, p)
	})

	t.Run("case insensitive", func(t *testing.T) {
		p, err := ParsePeriod(" weekly ")
		require.NoError(t, err)
		assert.Equal(t, PeriodWeekly, p)
	})

	t.Run("unknown period is rejected", func(t *testing.T) {
		_, err := ParsePeriod("DAILY")
		require.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		name      string
		period    string
		start     time.Time
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "monthly window containing now",
			period:    PeriodMonthly,
			start:     day(2024, time.January, 15),
			now:       day(2024, time.March, 20),
			wantStart: day(2024, time.March, 15),
			wantEnd:   day(2024, time.April, 15),
		},
		{
			name:      "monthly before anchor day of month",
			period:    PeriodMonthly,
			start:     day(2024, time.January, 15),
			now:       day(2024, time.March, 10),
			wantStart: day(2024, time.February, 15),
			wantEnd:   day(2024, time.March, 15),
		},
		{
			name:      "monthly anchor on the 31st clamps to short months",
			period:    PeriodMonthly,
			start:     day(2024, time.January, 31),
			now:       day(2024, time.March, 15),
			wantStart: day(2024, time.February, 29),
			wantEnd:   day(2024, time.March, 31),
		},
		{
			name:      "now on the boundary starts the next window",
			period:    PeriodMonthly,
			start:     day(2024, time.January, 1),
			now:       day(2024, time.February, 1),
			wantStart: day(2024, time.February, 1),
			wantEnd:   day(2024, time.March, 1),
		},
		{
			name:      "weekly",
			period:    PeriodWeekly,
			start:     day(2024, time.January, 1),
			now:       day(2024, time.January, 17),
			wantStart: day(2024, time.January, 15),
			wantEnd:   day(2024, time.January, 22),
		},
		{
			name:      "yearly",
			period:    PeriodYearly,
			start:     day(2022, time.July, 1),
			now:       day(2024, time.March, 1),
			wantStart: day(2023, time.July, 1),
			wantEnd:   day(2024, time.July, 1),
		},
		{
			name:      "now before start returns the first window",
			period:    PeriodMonthly,
			start:     day(2024, time.May, 10),
			now:       day(2024, time.April, 1),
			wantStart: day(2024, time.May, 10),
			wantEnd:   day(2024, time.June, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := PeriodWindow(tt.period, tt.start, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
			assert.True(t, w.Contains(tt.now) || tt.now.Before(tt.start))
		})
	}

	t.Run("time of day is ignored", func(t *testing.T) {
		now := time.Date(2024, time.March, 20, 23, 59, 0, 0, time.UTC)
		w, err := PeriodWindow(PeriodMonthly, day(2024, time.March, 1), now)
		require.NoError(t, err)
		assert.Equal(t, day(2024, time.March, 1), w.Start)
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := PeriodWindow("HOURLY", day(2024, time.March, 1), day(2024, time.March, 2))
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(2024, time.December)
	assert.Equal(t, day(2024, time.December, 1), w.Start)
	assert.Equal(t, day(2025, time.January, 1), w.End)
	assert.True(t, w.Contains(day(2024, time.December, 31)))
	assert.False(t, w.Contains(day(2025, time.January, 1)))
}
