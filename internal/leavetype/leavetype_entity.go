package leavetype

import (
	"time"

	"github.com/google/uuid"
)

const (
	TimeUnitDays    = "DAYS"
	TimeUnitMinutes = "MINUTES"
)

type LeaveType struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"uniqueIndex:uq_leave_types_name"`
	DefaultAnnualDays *int
	IsVariable        bool
	RequiresApproval  bool
	RequiresDocument  bool
	TimeUnit          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}
