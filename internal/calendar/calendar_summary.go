package calendar

import (
	"fmt"
	"time"

	calendarerrors "go-leave/internal/calendar/errors"
	"go-leave/internal/leave"
)

// Month is a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year, month int) (Month, error) {
	if year < 1 {
		return Month{}, calendarerrors.ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return Month{}, calendarerrors.ErrInvalidMonth
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

func (m Month) Days() int {
	return m.End().Day()
}

func (m Month) Next() Month {
	return MonthOf(m.Start().AddDate(0, 1, 0))
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Summarize derives the month statistics. Occupied days add up each entry
// clamped to the month, so two employees off on the same day count twice.
// Per type totals take the full requested days of entries starting in the month.
func Summarize(m Month, entries []Entry, types []LeaveTypeRef) MonthSummary {
	window := leave.DateRange{Start: m.Start(), End: m.End()}

	occupied := 0
	byType := make(map[string]int)
	requests := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		clamped := leave.DateRange{Start: e.StartDate, End: e.EndDate}
		if !clamped.Overlaps(window) {
			continue
		}
		if clamped.Start.Before(window.Start) {
			clamped.Start = window.Start
		}
		if clamped.End.After(window.End) {
			clamped.End = window.End
		}
		occupied += clamped.Days()

		if !e.StartDate.Before(window.Start) && !e.StartDate.After(window.End) {
			byType[e.LeaveTypeID] += e.RequestedDays
		}
		requests = append(requests, toEntryResponse(e))
	}

	totals := make([]TypeTotal, len(types))
	for i, t := range types {
		totals[i] = TypeTotal{LeaveTypeID: t.ID, LeaveType: t.Name, Days: byType[t.ID]}
	}

	return MonthSummary{
		Year:           m.Year,
		Month:          int(m.Month),
		DaysInMonth:    m.Days(),
		OccupiedDays:   occupied,
		FreeDays:       m.Days() - occupied,
		ActiveRequests: len(requests),
		ByType:         totals,
		Requests:       requests,
	}
}

func toEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		Number:        e.Number,
		EmployeeID:    e.EmployeeID,
		EmployeeName:  e.EmployeeName,
		LeaveTypeID:   e.LeaveTypeID,
		LeaveType:     e.LeaveTypeName,
		StartDate:     e.StartDate.Format(leave.DateLayout),
		EndDate:       e.EndDate.Format(leave.DateLayout),
		RequestedDays: e.RequestedDays,
	}
}
