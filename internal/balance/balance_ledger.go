package balance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "go-leave/internal/balance/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger is the view of balances the request lifecycle needs. Calls made
// through WithTx run inside the caller's transaction.
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	// Available returns the available days, or 0 when no row exists.
	Available(ctx context.Context, employeeID, leaveTypeID string, year int) (int, error)
	// ApplyApproval consumes days. It fails with ErrInsufficientBalance when
	// fewer days are available and ErrBalanceNotFound when no row exists.
	ApplyApproval(ctx context.Context, employeeID, leaveTypeID string, year, days int) error
}

type ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, logger: l}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{repo: l.repo.WithTx(tx), logger: l.logger}
}

func (l *ledger) Available(ctx context.Context, employeeID, leaveTypeID string, year int) (int, error) {
	b, err := l.repo.Find(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return b.AvailableDays, nil
}

func (l *ledger) ApplyApproval(ctx context.Context, employeeID, leaveTypeID string, year, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	affected, err := l.repo.ApplyApproval(ctx, employeeID, leaveTypeID, year, days)
	if err != nil {
		l.logger.Error("apply approval update failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return err
	}
	if affected == 1 {
		return nil
	}

	// Nothing changed: distinguish a missing row from a short one.
	if _, err := l.repo.Find(ctx, employeeID, leaveTypeID, year); err != nil {
		return mapRepositoryError(err)
	}
	l.logger.Warn("apply approval insufficient balance",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Int("days", days),
	)
	return balanceerrors.ErrInsufficientBalance
}
