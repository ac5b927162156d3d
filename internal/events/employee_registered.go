package events

import "time"

const EmployeeLifecycleTopic = "leave.employee.lifecycle.v1"

const EmployeeRegistered = "employee_registered"

type EmployeeRegisteredEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	HireDate   string    `json:"hire_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
