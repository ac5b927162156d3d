package app

import (
	"context"
	"fmt"

	"go-leave/internal/approval"
	"go-leave/internal/balance"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// constraints are the rules AutoMigrate cannot express. Each statement is
// idempotent.
var constraints = []string{
	`ALTER TABLE balances DROP CONSTRAINT IF EXISTS chk_balances_available_non_negative`,
	`ALTER TABLE balances ADD CONSTRAINT chk_balances_available_non_negative CHECK (available_days >= 0)`,
	`ALTER TABLE balances DROP CONSTRAINT IF EXISTS chk_balances_arithmetic`,
	`ALTER TABLE balances ADD CONSTRAINT chk_balances_arithmetic CHECK (available_days = total_days - used_days)`,
	`ALTER TABLE balances DROP CONSTRAINT IF EXISTS fk_balances_employee`,
	`ALTER TABLE balances ADD CONSTRAINT fk_balances_employee FOREIGN KEY (employee_id) REFERENCES employees(id)`,
	`ALTER TABLE balances DROP CONSTRAINT IF EXISTS fk_balances_leave_type`,
	`ALTER TABLE balances ADD CONSTRAINT fk_balances_leave_type FOREIGN KEY (leave_type_id) REFERENCES leave_types(id)`,
	`ALTER TABLE leave_requests DROP CONSTRAINT IF EXISTS chk_leave_requests_status`,
	`ALTER TABLE leave_requests ADD CONSTRAINT chk_leave_requests_status CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED'))`,
	`ALTER TABLE leave_requests DROP CONSTRAINT IF EXISTS chk_leave_requests_dates`,
	`ALTER TABLE leave_requests ADD CONSTRAINT chk_leave_requests_dates CHECK (end_date >= start_date AND requested_days > 0)`,
	`ALTER TABLE leave_requests DROP CONSTRAINT IF EXISTS fk_leave_requests_employee`,
	`ALTER TABLE leave_requests ADD CONSTRAINT fk_leave_requests_employee FOREIGN KEY (employee_id) REFERENCES employees(id)`,
	`ALTER TABLE leave_requests DROP CONSTRAINT IF EXISTS fk_leave_requests_leave_type`,
	`ALTER TABLE leave_requests ADD CONSTRAINT fk_leave_requests_leave_type FOREIGN KEY (leave_type_id) REFERENCES leave_types(id)`,
	`CREATE TABLE IF NOT EXISTS sequence_counters (
		scope        VARCHAR(64) NOT NULL,
		counter_type VARCHAR(64) NOT NULL,
		last_value   BIGINT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (scope, counter_type)
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id             UUID PRIMARY KEY,
		request_id     VARCHAR(100),
		aggregate_type VARCHAR(50) NOT NULL,
		aggregate_id   UUID NOT NULL,
		event_type     VARCHAR(100) NOT NULL,
		topic          VARCHAR(200) NOT NULL,
		payload        JSONB NOT NULL,
		status         VARCHAR(20) NOT NULL DEFAULT 'pending',
		retry_count    INT NOT NULL DEFAULT 0,
		error_message  TEXT,
		next_retry_at  TIMESTAMPTZ,
		processed_at   TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created ON outbox_events (status, created_at)`,
}

// Migrate brings the schema up to date. It is safe to run on every start.
func Migrate(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	log := logger.Named("app.migrate")

	err := db.WithContext(ctx).AutoMigrate(
		&employee.Employee{},
		&leavetype.LeaveType{},
		&balance.Balance{},
		&leave.LeaveRequest{},
		&approval.Decision{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range constraints {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("apply constraint: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("schema up to date", zap.Int("constraints", len(constraints)))
	return nil
}
