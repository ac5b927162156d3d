package approval

type DecisionResponse struct {
	ID             string  `json:"id"`
	LeaveRequestID string  `json:"leave_request_id"`
	ApproverID     string  `json:"approver_id"`
	Decision       string  `json:"decision"`
	Comment        *string `json:"comment,omitempty"`
	DecidedAt      string  `json:"decided_at"`
}

func ToResponse(d Decision) DecisionResponse {
	return DecisionResponse{
		ID:             d.ID.String(),
		LeaveRequestID: d.LeaveRequestID.String(),
		ApproverID:     d.ApproverID.String(),
		Decision:       d.Decision,
		Comment:        d.Comment,
		DecidedAt:      d.DecidedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
