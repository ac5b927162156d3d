package calendar

import (
	"context"
	"time"

	"go-leave/internal/leave"

	"gorm.io/gorm"
)

type Repository interface {
	// FindApprovedInWindow returns approved requests intersecting [start, end]
	// ordered by start date.
	FindApprovedInWindow(ctx context.Context, start, end time.Time) ([]Entry, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeRef, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindApprovedInWindow(ctx context.Context, start, end time.Time) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).Raw(`
		SELECT lr.id, lr.number, lr.employee_id, e.full_name AS employee_name,
		       lr.leave_type_id, lt.name AS leave_type_name,
		       lr.start_date, lr.end_date, lr.requested_days
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.status = ? AND lr.start_date <= ? AND lr.end_date >= ?
		ORDER BY lr.start_date ASC, lr.number ASC
	`, leave.StatusApproved, end, start).Scan(&entries).Error
	return entries, err
}

func (r *repository) ListLeaveTypes(ctx context.Context) ([]LeaveTypeRef, error) {
	var types []LeaveTypeRef
	err := r.db.WithContext(ctx).
		Table("leave_types").
		Select("id, name").
		Order("name ASC").
		Scan(&types).Error
	return types, err
}
