package approval

import (
	"time"

	"github.com/google/uuid"
)

const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// Decision is an append-only record of one approver acting on one request.
type Decision struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;index"`
	ApproverID     uuid.UUID `gorm:"type:uuid"`
	Decision       string
	Comment        *string
	DecidedAt      time.Time
}

func (Decision) TableName() string {
	return "approval_decisions"
}
