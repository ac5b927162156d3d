package approval

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/txutil"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, d *Decision) error
	ListByRequest(ctx context.Context, leaveRequestID string) ([]Decision, error)
	DeleteByRequest(ctx context.Context, leaveRequestID string) error
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

func (r *repository) Append(ctx context.Context, d *Decision) error {
	return txutil.Bind(ctx, r.db, r.tx).Create(d).Error
}

func (r *repository) ListByRequest(ctx context.Context, leaveRequestID string) ([]Decision, error) {
	var decisions []Decision
	err := txutil.Bind(ctx, r.db, r.tx).
		Where("leave_request_id = ?", leaveRequestID).
		Order("decided_at ASC").
		Find(&decisions).Error
	return decisions, err
}

func (r *repository) DeleteByRequest(ctx context.Context, leaveRequestID string) error {
	return txutil.Bind(ctx, r.db, r.tx).
		Where("leave_request_id = ?", leaveRequestID).
		Delete(&Decision{}).Error
}
