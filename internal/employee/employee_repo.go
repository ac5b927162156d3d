package employee

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go-leave/internal/shared/txutil"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	Search(ctx context.Context, q EmployeeQuery) ([]Employee, int64, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return txutil.Bind(ctx, r.db, r.tx).Create(e).Error
}

var sortColumns = map[string]string{
	"name":      "full_name",
	"email":     "email",
	"hire_date": "hire_date",
}

func matching(q EmployeeQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term := strings.TrimSpace(q.Search); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			db = db.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
		if q.Department != "" {
			db = db.Where("department = ?", q.Department)
		}
		return db
	}
}

// Search expects q to carry defaults already. The total ignores paging.
func (r *repository) Search(ctx context.Context, q EmployeeQuery) ([]Employee, int64, error) {
	var total int64
	err := txutil.Bind(ctx, r.db, r.tx).
		Model(&Employee{}).
		Scopes(matching(q)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns["name"]
	}
	dir := "ASC"
	if q.SortDir == "desc" {
		dir = "DESC"
	}

	var employees []Employee
	err = txutil.Bind(ctx, r.db, r.tx).
		Scopes(matching(q)).
		Order(fmt.Sprintf("%s %s, id", column, dir)).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&employees).Error
	return employees, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := txutil.Bind(ctx, r.db, r.tx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := txutil.Bind(ctx, r.db, r.tx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
