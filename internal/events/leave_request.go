package events

import "time"

const LeaveRequestLifecycleTopic = "leave.request.lifecycle.v1"

const (
	LeaveRequestCreated  = "leave_request_created"
	LeaveRequestApproved = "leave_request_approved"
	LeaveRequestRejected = "leave_request_rejected"
	LeaveRequestDeleted  = "leave_request_deleted"
)

type LeaveRequestEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	Number         string    `json:"number"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	Status         string    `json:"status"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	RequestedDays  int       `json:"requested_days"`
	ActorID        string    `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
