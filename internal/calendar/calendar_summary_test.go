package calendar_test

import (
	"testing"
	"time"

	"go-leave/internal/calendar"
	calendarerrors "go-leave/internal/calendar/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewMonth(t *testing.T) {
	m, err := calendar.NewMonth(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 29, m.Days())
	assert.Equal(t, "2024-02", m.String())
	assert.Equal(t, date(2024, 3, 1), m.Next().Start())

	_, err = calendar.NewMonth(2024, 13)
	assert.ErrorIs(t, err, calendarerrors.ErrInvalidMonth)
	_, err = calendar.NewMonth(2024, 0)
	assert.ErrorIs(t, err, calendarerrors.ErrInvalidMonth)
	_, err = calendar.NewMonth(0, 5)
	assert.ErrorIs(t, err, calendarerrors.ErrInvalidYear)
}

func TestSummarize(t *testing.T) {
	m, _ := calendar.NewMonth(2025, 11)
	types := []calendar.LeaveTypeRef{
		{ID: "lt-annual", Name: "Annual"},
		{ID: "lt-sick", Name: "Sick"},
		{ID: "lt-study", Name: "Study"},
	}
	entries := []calendar.Entry{
		// Starts in October, only Nov 1-2 count as occupied.
		{ID: "a", EmployeeID: "e1", LeaveTypeID: "lt-annual", StartDate: date(2025, 10, 28), EndDate: date(2025, 11, 2), RequestedDays: 6},
		{ID: "b", EmployeeID: "e2", LeaveTypeID: "lt-annual", StartDate: date(2025, 11, 1), EndDate: date(2025, 11, 5), RequestedDays: 5},
		// Same days as b for another employee, summed independently.
		{ID: "c", EmployeeID: "e3", LeaveTypeID: "lt-sick", StartDate: date(2025, 11, 3), EndDate: date(2025, 11, 4), RequestedDays: 2},
		// Runs into December.
		{ID: "d", EmployeeID: "e1", LeaveTypeID: "lt-sick", StartDate: date(2025, 11, 29), EndDate: date(2025, 12, 3), RequestedDays: 5},
	}

	s := calendar.Summarize(m, entries, types)

	assert.Equal(t, 30, s.DaysInMonth)
	assert.Equal(t, 2+5+2+2, s.OccupiedDays)
	assert.Equal(t, 30-11, s.FreeDays)
	assert.Equal(t, 4, s.ActiveRequests)
	assert.Equal(t, []calendar.TypeTotal{
		{LeaveTypeID: "lt-annual", LeaveType: "Annual", Days: 5},
		{LeaveTypeID: "lt-sick", LeaveType: "Sick", Days: 7},
		{LeaveTypeID: "lt-study", LeaveType: "Study", Days: 0},
	}, s.ByType)
	require.Len(t, s.Requests, 4)
	assert.Equal(t, "2025-10-28", s.Requests[0].StartDate)
}

func TestSummarize_SpanningWholeMonth(t *testing.T) {
	m, _ := calendar.NewMonth(2025, 2)
	entries := []calendar.Entry{
		{ID: "a", LeaveTypeID: "lt", StartDate: date(2025, 1, 20), EndDate: date(2025, 3, 10), RequestedDays: 50},
	}

	s := calendar.Summarize(m, entries, nil)

	assert.Equal(t, 28, s.OccupiedDays)
	assert.Equal(t, 0, s.FreeDays)
	assert.Empty(t, s.ByType)
}

func TestSummarize_EmptyMonth(t *testing.T) {
	m, _ := calendar.NewMonth(2025, 4)

	s := calendar.Summarize(m, nil, []calendar.LeaveTypeRef{{ID: "lt", Name: "Annual"}})

	assert.Equal(t, 30, s.FreeDays)
	assert.Equal(t, 0, s.ActiveRequests)
	assert.NotNil(t, s.Requests)
	assert.Equal(t, 0, s.ByType[0].Days)
}
