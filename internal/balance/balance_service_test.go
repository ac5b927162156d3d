package balance_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	balanceMock "go-leave/internal/balance/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func TestBalanceService_Seed(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.NewString()
	leaveTypeID := uuid.NewString()

	t.Run("creates row with used zero and available total", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, b *balance.Balance) error {
			assert.Equal(t, 15, b.TotalDays)
			assert.Equal(t, 0, b.UsedDays)
			assert.Equal(t, 15, b.AvailableDays)
			assert.Equal(t, 2024, b.Year)
			return nil
		})

		resp, err := balance.NewService(repo, balance.Defaults{}).Seed(ctx, balance.SeedBalanceRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        2024,
			TotalDays:   intPtr(15),
		})

		require.NoError(t, err)
		assert.Equal(t, 15, resp.AvailableDays)
		assert.Equal(t, employeeID, resp.EmployeeID)
	})

	t.Run("duplicate key maps to DuplicateBalance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_balances_employee_type_year"})

		_, err := balance.NewService(repo, balance.Defaults{}).Seed(ctx, balance.SeedBalanceRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        2024,
			TotalDays:   intPtr(15),
		})

		assert.ErrorIs(t, err, balanceerrors.ErrDuplicateBalance)
	})

	t.Run("negative total rejected before store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)

		_, err := balance.NewService(repo, balance.Defaults{}).Seed(ctx, balance.SeedBalanceRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        2024,
			TotalDays:   intPtr(-1),
		})

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidTotalDays)
	})
}

func TestBalanceService_SeedDefault(t *testing.T) {
	ctx := context.Background()
	defaultType := uuid.NewString()

	t.Run("uses configured leave type and days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, b *balance.Balance) error {
			assert.Equal(t, defaultType, b.LeaveTypeID.String())
			assert.Equal(t, 15, b.TotalDays)
			assert.Equal(t, 2025, b.Year)
			return nil
		})

		svc := balance.NewService(repo, balance.Defaults{LeaveTypeID: defaultType, AnnualDays: 15})
		_, err := svc.SeedDefault(ctx, uuid.NewString(), 2025)
		require.NoError(t, err)
	})

	t.Run("unset default leave type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := balance.NewService(balanceMock.NewMockRepository(ctrl), balance.Defaults{AnnualDays: 15})
		_, err := svc.SeedDefault(ctx, uuid.NewString(), 2025)
		assert.ErrorIs(t, err, balanceerrors.ErrDefaultLeaveTypeUnset)
	})
}

func TestBalanceService_ListByEmployee(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := balanceMock.NewMockRepository(ctrl)
	employeeID := uuid.New()
	year := 2024

	repo.EXPECT().ListByEmployee(ctx, employeeID.String(), &year).Return([]balance.Balance{
		{ID: uuid.New(), EmployeeID: employeeID, LeaveTypeID: uuid.New(), Year: 2024, TotalDays: 15, UsedDays: 5, AvailableDays: 10},
	}, nil)

	resp, err := balance.NewService(repo, balance.Defaults{}).ListByEmployee(ctx, employeeID.String(), &year)

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, 10, resp[0].AvailableDays)
	assert.Equal(t, 5, resp[0].UsedDays)
}

func TestLedger_Available(t *testing.T) {
	ctx := context.Background()

	t.Run("missing row counts as zero", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().Find(ctx, "e", "lt", 2024).Return(nil, gorm.ErrRecordNotFound)

		available, err := balance.NewLedger(repo).Available(ctx, "e", "lt", 2024)

		require.NoError(t, err)
		assert.Equal(t, 0, available)
	})

	t.Run("returns available days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().Find(ctx, "e", "lt", 2024).Return(&balance.Balance{AvailableDays: 3}, nil)

		available, err := balance.NewLedger(repo).Available(ctx, "e", "lt", 2024)

		require.NoError(t, err)
		assert.Equal(t, 3, available)
	})

	t.Run("store error propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().Find(ctx, "e", "lt", 2024).Return(nil, errors.New("down"))

		_, err := balance.NewLedger(repo).Available(ctx, "e", "lt", 2024)
		assert.EqualError(t, err, "down")
	})
}

func TestLedger_ApplyApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("one row updated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().ApplyApproval(ctx, "e", "lt", 2024, 5).Return(int64(1), nil)

		assert.NoError(t, balance.NewLedger(repo).ApplyApproval(ctx, "e", "lt", 2024, 5))
	})

	t.Run("row exists but short", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().ApplyApproval(ctx, "e", "lt", 2024, 5).Return(int64(0), nil)
		repo.EXPECT().Find(ctx, "e", "lt", 2024).Return(&balance.Balance{AvailableDays: 3}, nil)

		err := balance.NewLedger(repo).ApplyApproval(ctx, "e", "lt", 2024, 5)
		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
	})

	t.Run("no row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().ApplyApproval(ctx, "e", "lt", 2024, 5).Return(int64(0), nil)
		repo.EXPECT().Find(ctx, "e", "lt", 2024).Return(nil, gorm.ErrRecordNotFound)

		err := balance.NewLedger(repo).ApplyApproval(ctx, "e", "lt", 2024, 5)
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})

	t.Run("non positive days rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)

		err := balance.NewLedger(repo).ApplyApproval(ctx, "e", "lt", 2024, 0)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidDays)
	})

	t.Run("with tx binds repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := balanceMock.NewMockRepository(ctrl)
		txRepo := balanceMock.NewMockRepository(ctrl)
		repo.EXPECT().WithTx(gomock.Nil()).Return(txRepo)
		txRepo.EXPECT().ApplyApproval(ctx, "e", "lt", 2024, 2).Return(int64(1), nil)

		assert.NoError(t, balance.NewLedger(repo).WithTx(nil).ApplyApproval(ctx, "e", "lt", 2024, 2))
	})
}
