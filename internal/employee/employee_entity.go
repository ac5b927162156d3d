package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName     string
	Email        string `gorm:"uniqueIndex:uq_employees_email"`
	Position     string
	Department   string
	Category     string
	SupervisorID *uuid.UUID `gorm:"type:uuid"`
	HireDate     time.Time  `gorm:"type:date"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}
