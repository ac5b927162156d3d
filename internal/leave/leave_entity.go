package leave

import (
	"time"

	"go-leave/internal/approval"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveRequest moves from PENDING to exactly one terminal status.
type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number        string    `gorm:"uniqueIndex:uq_leave_requests_number"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	LeaveTypeID   uuid.UUID `gorm:"type:uuid;not null"`
	StartDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate       time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	RequestedDays int       `gorm:"not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Reason        *string   `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DecidedAt     *time.Time

	Decisions []approval.Decision `gorm:"foreignKey:LeaveRequestID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (r LeaveRequest) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}
