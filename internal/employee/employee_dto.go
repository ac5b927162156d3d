package employee

type RegisterEmployeeRequest struct {
	FullName     string `json:"full_name" binding:"required,max=150"`
	Email        string `json:"email" binding:"required,email"`
	Position     string `json:"position" binding:"required"`
	Department   string `json:"department" binding:"required"`
	Category     string `json:"category"`
	SupervisorID string `json:"supervisor_id" binding:"omitempty,uuid"`
	HireDate     string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Position     string `json:"position"`
	Department   string `json:"department"`
	Category     string `json:"category,omitempty"`
	SupervisorID string `json:"supervisor_id,omitempty"`
	HireDate     string `json:"hire_date"`
}

// EmployeeQuery is bound from the list endpoint's query string.
type EmployeeQuery struct {
	Search     string `form:"q" binding:"omitempty,max=100"`
	Department string `form:"department" binding:"omitempty,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name email hire_date"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q EmployeeQuery) withDefaults() EmployeeQuery {
	if q.SortBy == "" {
		q.SortBy = "name"
	}
	if q.SortDir == "" {
		q.SortDir = "asc"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	return q
}

type EmployeePage struct {
	Items    []EmployeeResponse
	Total    int64
	Page     int
	PageSize int
}
