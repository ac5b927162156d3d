package leave

import (
	"time"

	"go-leave/internal/approval"
)

type CreateLeaveRequest struct {
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	Reason      *string `json:"reason" binding:"omitempty,max=1000"`
}

// DecisionRequest is the optional body of the approve and reject routes.
type DecisionRequest struct {
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
}

// DecideRequest carries a decision for the approvals endpoint.
type DecideRequest struct {
	LeaveRequestID string  `json:"leave_request_id" binding:"required,uuid"`
	Decision       string  `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comment        *string `json:"comment" binding:"omitempty,max=1000"`
}

type LeaveResponse struct {
	ID            string                      `json:"id"`
	Number        string                      `json:"number"`
	EmployeeID    string                      `json:"employee_id"`
	LeaveTypeID   string                      `json:"leave_type_id"`
	StartDate     string                      `json:"start_date"`
	EndDate       string                      `json:"end_date"`
	RequestedDays int                         `json:"requested_days"`
	Status        string                      `json:"status"`
	Reason        *string                     `json:"reason,omitempty"`
	CreatedAt     string                      `json:"created_at"`
	DecidedAt     *string                     `json:"decided_at,omitempty"`
	Decisions     []approval.DecisionResponse `json:"decisions"`
}

func mapToResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            r.ID.String(),
		Number:        r.Number,
		EmployeeID:    r.EmployeeID.String(),
		LeaveTypeID:   r.LeaveTypeID.String(),
		StartDate:     r.StartDate.Format(DateLayout),
		EndDate:       r.EndDate.Format(DateLayout),
		RequestedDays: r.RequestedDays,
		Status:        r.Status,
		Reason:        r.Reason,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		Decisions:     make([]approval.DecisionResponse, 0, len(r.Decisions)),
	}
	if r.DecidedAt != nil {
		decided := r.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	for _, d := range r.Decisions {
		resp.Decisions = append(resp.Decisions, approval.ToResponse(d))
	}
	return resp
}

func mapToResponses(rows []LeaveRequest) []LeaveResponse {
	res := make([]LeaveResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
