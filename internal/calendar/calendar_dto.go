package calendar

type EntryResponse struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RequestedDays int    `json:"requested_days"`
}

type TypeTotal struct {
	LeaveTypeID string `json:"leave_type_id"`
	LeaveType   string `json:"leave_type"`
	Days        int    `json:"days"`
}

type MonthSummary struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	DaysInMonth    int             `json:"days_in_month"`
	OccupiedDays   int             `json:"occupied_days"`
	FreeDays       int             `json:"free_days"`
	ActiveRequests int             `json:"active_requests"`
	ByType         []TypeTotal     `json:"by_type"`
	Requests       []EntryResponse `json:"requests"`
}
