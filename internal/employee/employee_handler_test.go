package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	RegisterFn func(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.EmployeeResponse, error)
	ListFn     func(ctx context.Context, q employee.EmployeeQuery) (employee.EmployeePage, error)
	GetByIDFn  func(ctx context.Context, id string) (employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) Register(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.RegisterFn(ctx, req)
}
func (f *fakeEmployeeService) List(ctx context.Context, q employee.EmployeeQuery) (employee.EmployeePage, error) {
	return f.ListFn(ctx, q)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestEmployeeHandler_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			RegisterFn: func(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "John Doe", req.FullName)
				return employee.EmployeeResponse{ID: "e-1", FullName: req.FullName, Email: req.Email}, nil
			},
		}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"John Doe","email":"john@example.com","position":"Engineer","department":"Platform","hire_date":"2026-01-01"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		employee.NewHandler(svc).Register(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "John Doe")
	})

	t.Run("validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"email":"bad"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		employee.NewHandler(&fakeEmployeeService{}).Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeEmployeeService{
			RegisterFn: func(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
			},
		}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"John Doe","email":"john@example.com","position":"Engineer","department":"Platform"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		employee.NewHandler(svc).Register(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEmployeeHandler_List(t *testing.T) {
	var got employee.EmployeeQuery
	svc := &fakeEmployeeService{
		ListFn: func(ctx context.Context, q employee.EmployeeQuery) (employee.EmployeePage, error) {
			got = q
			return employee.EmployeePage{
				Items:    []employee.EmployeeResponse{{ID: "2", FullName: "adam", Email: "adam@example.com"}},
				Total:    3,
				Page:     2,
				PageSize: 1,
			}, nil
		},
	}
	r := setupRouter()
	r.GET("/employees", employee.NewHandler(svc).List)

	t.Run("binds query and renders page meta", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?q=example&department=Platform&sort_by=email&sort_dir=desc&page=2&page_size=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, employee.EmployeeQuery{
			Search: "example", Department: "Platform", SortBy: "email", SortDir: "desc", Page: 2, PageSize: 1,
		}, got)

		var body struct {
			Data []employee.EmployeeResponse `json:"data"`
			Meta struct {
				Total      int `json:"total"`
				TotalPages int `json:"totalPages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "adam", body.Data[0].FullName)
		assert.Equal(t, 3, body.Meta.Total)
		assert.Equal(t, 3, body.Meta.TotalPages)
	})

	t.Run("unknown sort column", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?sort_by=salary", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error", func(t *testing.T) {
		failing := &fakeEmployeeService{ListFn: func(ctx context.Context, q employee.EmployeeQuery) (employee.EmployeePage, error) {
			return employee.EmployeePage{}, errors.New("boom")
		}}
		r := setupRouter()
		r.GET("/employees", employee.NewHandler(failing).List)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	svc := &fakeEmployeeService{GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
		return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}}
	r := setupRouter()
	r.GET("/employees/:id", employee.NewHandler(svc).GetByID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/x", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
