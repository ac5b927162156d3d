package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/txutil"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	// FindByIDForUpdate row-locks the request until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	// UpdateStatus moves the request only while it is still in from.
	UpdateStatus(ctx context.Context, id, from, to string, decidedAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	// LockEmployee serializes approvals of one employee's requests.
	LockEmployee(ctx context.Context, employeeID string) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	LeaveTypeExists(ctx context.Context, leaveTypeID string) (bool, error)
	FindApprovedRanges(ctx context.Context, employeeID string, excludeID string) ([]DateRange, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return txutil.Bind(ctx, r.db, r.tx).Omit("Decisions").Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := txutil.Bind(ctx, r.db, r.tx).
		Preload("Decisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("decided_at ASC")
		}).
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &lr, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := txutil.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &lr, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := txutil.Bind(ctx, r.db, r.tx).
		Preload("Decisions").
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	query := txutil.Bind(ctx, r.db, r.tx).Preload("Decisions")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, from, to string, decidedAt time.Time) (bool, error) {
	res := txutil.Bind(ctx, r.db, r.tx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"decided_at": decidedAt,
			"updated_at": decidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res := txutil.Bind(ctx, r.db, r.tx).Where("id = ?", id).Delete(&LeaveRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) LockEmployee(ctx context.Context, employeeID string) error {
	var ids []string
	err := txutil.Bind(ctx, r.db, r.tx).
		Raw("SELECT id FROM employees WHERE id = ? FOR UPDATE", employeeID).
		Scan(&ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	return r.exists(ctx, "employees", employeeID)
}

func (r *repository) LeaveTypeExists(ctx context.Context, leaveTypeID string) (bool, error) {
	return r.exists(ctx, "leave_types", leaveTypeID)
}

func (r *repository) exists(ctx context.Context, table, id string) (bool, error) {
	var count int64
	err := txutil.Bind(ctx, r.db, r.tx).
		Table(table).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindApprovedRanges(ctx context.Context, employeeID string, excludeID string) ([]DateRange, error) {
	var rows []struct {
		StartDate time.Time
		EndDate   time.Time
	}
	query := txutil.Bind(ctx, r.db, r.tx).
		Model(&LeaveRequest{}).
		Select("start_date, end_date").
		Where("employee_id = ? AND status = ?", employeeID, StatusApproved)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	ranges := make([]DateRange, len(rows))
	for i, row := range rows {
		ranges[i] = DateRange{Start: row.StartDate, End: row.EndDate}
	}
	return ranges, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveRequestNotFound
	}
	return err
}
