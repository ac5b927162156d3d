package balance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/txutil"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueBalanceConstraint = "uq_balances_employee_type_year"

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *Balance) error
	Find(ctx context.Context, employeeID, leaveTypeID string, year int) (*Balance, error)
	ListByEmployee(ctx context.Context, employeeID string, year *int) ([]Balance, error)
	// ApplyApproval moves days from available to used only when enough are
	// available, returning the number of rows changed (0 or 1).
	ApplyApproval(ctx context.Context, employeeID, leaveTypeID string, year, days int) (int64, error)
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

func (r *repository) Create(ctx context.Context, b *Balance) error {
	return txutil.Bind(ctx, r.db, r.tx).Create(b).Error
}

func (r *repository) Find(ctx context.Context, employeeID, leaveTypeID string, year int) (*Balance, error) {
	var b Balance
	err := txutil.Bind(ctx, r.db, r.tx).
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, year *int) ([]Balance, error) {
	var balances []Balance
	q := txutil.Bind(ctx, r.db, r.tx).Where("employee_id = ?", employeeID)
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	err := q.Order("year DESC, leave_type_id ASC").Find(&balances).Error
	return balances, err
}

func (r *repository) ApplyApproval(ctx context.Context, employeeID, leaveTypeID string, year, days int) (int64, error) {
	res := txutil.Bind(ctx, r.db, r.tx).Exec(`
		UPDATE balances
		SET used_days = used_days + ?, available_days = available_days - ?, updated_at = now()
		WHERE employee_id = ? AND leave_type_id = ? AND year = ? AND available_days >= ?
	`, days, days, employeeID, leaveTypeID, year, days)
	return res.RowsAffected, res.Error
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return balanceerrors.ErrBalanceNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == uniqueBalanceConstraint:
			return balanceerrors.ErrDuplicateBalance.WithCause(err)
		case pgErr.Code == "23503":
			// employee or leave type does not exist
			return apperror.ErrNotFound.WithCause(err)
		}
	}
	return err
}
