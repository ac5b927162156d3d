package balance

import (
	"time"

	"github.com/google/uuid"
)

// Balance is one employee's allowance for one leave type in one calendar year.
// AvailableDays always equals TotalDays - UsedDays and never drops below zero.
type Balance struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_balances_employee_type_year,priority:1"`
	LeaveTypeID   uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_balances_employee_type_year,priority:2"`
	Year          int       `gorm:"uniqueIndex:uq_balances_employee_type_year,priority:3"`
	TotalDays     int
	UsedDays      int
	AvailableDays int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Balance) TableName() string {
	return "balances"
}
