package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	kafkaMock "go-leave/internal/messaging/kafka/mock"
	"go-leave/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeRepo struct {
	CreateFn   func(ctx context.Context, e *employee.Employee) error
	SearchFn   func(ctx context.Context, q employee.EmployeeQuery) ([]employee.Employee, int64, error)
	FindByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
	ExistsFn   func(ctx context.Context, id string) (bool, error)
	boundTx    *sql.Tx
}

func (f *fakeRepo) WithTx(tx *sql.Tx) employee.Repository {
	f.boundTx = tx
	return f
}
func (f *fakeRepo) Create(ctx context.Context, e *employee.Employee) error {
	return f.CreateFn(ctx, e)
}
func (f *fakeRepo) Search(ctx context.Context, q employee.EmployeeQuery) ([]employee.Employee, int64, error) {
	return f.SearchFn(ctx, q)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	return f.ExistsFn(ctx, id)
}

type outboxMatcher struct {
	rid string
}

func (m outboxMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	if !ok {
		return false
	}
	var payload events.EmployeeRegisteredEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return false
	}
	return event.RequestID == m.rid &&
		event.Topic == events.EmployeeLifecycleTopic &&
		payload.EventType == events.EmployeeRegistered &&
		payload.EmployeeID == event.AggregateID
}

func (m outboxMatcher) String() string {
	return fmt.Sprintf("employee_registered outbox event with request id %q", m.rid)
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeRepo
	outbox  *kafkaMock.MockOutboxRepository
	service employee.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeRepo{}
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		outbox:  outbox,
		service: employee.NewService(db, repo, outbox),
	}
}

func validRequest() employee.RegisterEmployeeRequest {
	return employee.RegisterEmployeeRequest{
		FullName:   "Ana Perez",
		Email:      "ana@example.com",
		Position:   "Engineer",
		Department: "Platform",
		HireDate:   "2024-03-01",
	}
}

func TestEmployeeService_Register(t *testing.T) {
	t.Run("success persists employee and outbox event in one tx", func(t *testing.T) {
		deps := setupServiceTest(t)
		rid := "REQ-1"
		ctx := contextutil.WithRequestID(context.Background(), rid)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		var created *employee.Employee
		deps.repo.CreateFn = func(ctx context.Context, e *employee.Employee) error {
			created = e
			return nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), outboxMatcher{rid: rid}).Return(nil)

		resp, err := deps.service.Register(ctx, validRequest())

		require.NoError(t, err)
		assert.NotNil(t, deps.repo.boundTx)
		assert.Equal(t, created.ID.String(), resp.ID)
		assert.Equal(t, "2024-03-01", resp.HireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.CreateFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"}
		}

		_, err := deps.service.Register(context.Background(), validRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown supervisor", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		supervisorID := uuid.NewString()
		deps.repo.ExistsFn = func(ctx context.Context, id string) (bool, error) {
			assert.Equal(t, supervisorID, id)
			return false, nil
		}

		req := validRequest()
		req.SupervisorID = supervisorID
		_, err := deps.service.Register(context.Background(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrSupervisorNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.CreateFn = func(ctx context.Context, e *employee.Employee) error { return nil }
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		_, err := deps.service.Register(context.Background(), validRequest())

		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid hire date never opens a tx", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validRequest()
		req.HireDate = "01/03/2024"

		_, err := deps.service.Register(context.Background(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)

	t.Run("invalid id", func(t *testing.T) {
		_, err := deps.service.GetByID(context.Background(), "abc")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("not found", func(t *testing.T) {
		deps.repo.FindByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}
		_, err := deps.service.GetByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_List(t *testing.T) {
	deps := setupServiceTest(t)
	supervisor := uuid.New()
	var got employee.EmployeeQuery
	deps.repo.SearchFn = func(ctx context.Context, q employee.EmployeeQuery) ([]employee.Employee, int64, error) {
		got = q
		return []employee.Employee{{ID: uuid.New(), FullName: "Ana", SupervisorID: &supervisor}}, 7, nil
	}

	page, err := deps.service.List(context.Background(), employee.EmployeeQuery{Search: "an"})

	require.NoError(t, err)
	assert.Equal(t, employee.EmployeeQuery{Search: "an", SortBy: "name", SortDir: "asc", Page: 1, PageSize: 10}, got)
	require.Len(t, page.Items, 1)
	assert.Equal(t, supervisor.String(), page.Items[0].SupervisorID)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 10, page.PageSize)
}
