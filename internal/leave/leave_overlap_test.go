package leave_test

import (
	"testing"
	"time"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(leave.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(start, end string) leave.DateRange {
	return leave.DateRange{Start: day(start), End: day(end)}
}

func TestParseDateRange(t *testing.T) {
	t.Run("inclusive count", func(t *testing.T) {
		r, err := leave.ParseDateRange("2025-11-01", "2025-11-05")
		require.NoError(t, err)
		assert.Equal(t, 5, r.Days())
	})

	t.Run("single day", func(t *testing.T) {
		r, err := leave.ParseDateRange("2025-11-01", "2025-11-01")
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("across a month boundary", func(t *testing.T) {
		r, err := leave.ParseDateRange("2024-02-27", "2024-03-02")
		require.NoError(t, err)
		assert.Equal(t, 5, r.Days())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := leave.ParseDateRange("2025-11-05", "2025-11-01")
		assert.ErrorIs(t, err, leaveerrors.ErrDateRangeInvalid)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := leave.ParseDateRange("01/11/2025", "2025-11-05")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})
}

func TestDateRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b leave.DateRange
		want bool
	}{
		{"contained", rng("2025-11-01", "2025-11-05"), rng("2025-11-03", "2025-11-04"), true},
		{"shared boundary day", rng("2025-11-01", "2025-11-05"), rng("2025-11-05", "2025-11-08"), true},
		{"adjacent days", rng("2025-11-01", "2025-11-05"), rng("2025-11-06", "2025-11-08"), false},
		{"before", rng("2025-10-01", "2025-10-05"), rng("2025-11-01", "2025-11-05"), false},
		{"identical", rng("2025-11-01", "2025-11-01"), rng("2025-11-01", "2025-11-01"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestAnyOverlap(t *testing.T) {
	approved := []leave.DateRange{rng("2025-01-10", "2025-01-12"), rng("2025-03-01", "2025-03-03")}

	assert.True(t, leave.AnyOverlap(approved, rng("2025-03-03", "2025-03-07")))
	assert.False(t, leave.AnyOverlap(approved, rng("2025-02-01", "2025-02-05")))
	assert.False(t, leave.AnyOverlap(nil, rng("2025-02-01", "2025-02-05")))
}
