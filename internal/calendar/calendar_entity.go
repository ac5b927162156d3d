package calendar

import "time"

// Entry is an approved request joined with the names shown on the calendar.
type Entry struct {
	ID            string
	Number        string
	EmployeeID    string
	EmployeeName  string
	LeaveTypeID   string
	LeaveTypeName string
	StartDate     time.Time
	EndDate       time.Time
	RequestedDays int
}

type LeaveTypeRef struct {
	ID   string
	Name string
}
