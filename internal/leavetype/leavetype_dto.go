package leavetype

type CreateLeaveTypeRequest struct {
	Name              string `json:"name" binding:"required,max=100"`
	DefaultAnnualDays *int   `json:"default_annual_days" binding:"omitempty,min=0"`
	IsVariable        bool   `json:"is_variable"`
	RequiresApproval  *bool  `json:"requires_approval"`
	RequiresDocument  bool   `json:"requires_document"`
	TimeUnit          string `json:"time_unit" binding:"omitempty,oneof=DAYS MINUTES"`
}

type LeaveTypeResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	DefaultAnnualDays *int   `json:"default_annual_days,omitempty"`
	IsVariable        bool   `json:"is_variable"`
	RequiresApproval  bool   `json:"requires_approval"`
	RequiresDocument  bool   `json:"requires_document"`
	TimeUnit          string `json:"time_unit"`
}
