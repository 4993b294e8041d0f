package transform

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTime(t *testing.T) {
	// 1541121934796 ms = 2018-11-02T01:25:34Z (millis truncated).
	parts, err := DeriveTime(1541121934796)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2018, time.November, 2, 1, 25, 34, 0, time.UTC), parts.StartTime)
	assert.Equal(t, 1, parts.Hour)
	assert.Equal(t, 2, parts.Day)
	assert.Equal(t, 44, parts.Week)
	assert.Equal(t, "Friday", parts.Weekday)
	assert.Equal(t, 11, parts.Month)
	assert.Equal(t, 2018, parts.Year)
}

func TestDeriveTime_Deterministic(t *testing.T) {
	first, err := DeriveTime(1541121934796)
	require.NoError(t, err)

	for range 10 {
		again, err := DeriveTime(1541121934796)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDeriveTime_TruncatesToSeconds(t *testing.T) {
	a, err := DeriveTime(1541121934000)
	require.NoError(t, err)
	b, err := DeriveTime(1541121934999)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveTime_ComponentRanges(t *testing.T) {
	// A spread of timestamps across years, months, and week boundaries.
	samples := []int64{
		1541121934796, // 2018-11-02
		1262304000000, // 2010-01-01
		1420070400000, // 2015-01-01 (ISO week 1 of 2015)
		1451606400000, // 2016-01-01 (ISO week 53 of 2015)
		1483228799000, // 2016-12-31 23:59:59
		1583020800000, // 2020-03-01 (leap year)
	}
	for _, ts := range samples {
		parts, err := DeriveTime(ts)
		require.NoError(t, err, "ts: %d", ts)

		assert.GreaterOrEqual(t, parts.Hour, 0, "ts: %d", ts)
		assert.LessOrEqual(t, parts.Hour, 23, "ts: %d", ts)
		assert.GreaterOrEqual(t, parts.Day, 1, "ts: %d", ts)
		assert.LessOrEqual(t, parts.Day, 31, "ts: %d", ts)
		assert.GreaterOrEqual(t, parts.Week, 1, "ts: %d", ts)
		assert.LessOrEqual(t, parts.Week, 53, "ts: %d", ts)
		assert.GreaterOrEqual(t, parts.Month, 1, "ts: %d", ts)
		assert.LessOrEqual(t, parts.Month, 12, "ts: %d", ts)
	}
}

func TestDeriveTime_Invalid(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
	}{
		{"zero", 0},
		{"negative", -1541121934796},
		{"before range", 631152000000},    // 1990
		{"after range", 4200000000000000}, // year 135060
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveTime(tt.ts)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidTimestamp))
		})
	}
}
