package rbac

import "go-leave/internal/domain"

const (
	ResourceLeaveRequest = "leave_request"
	ResourceLeaveType    = "leave_type"
	ResourceEmployee     = "employee"
	ResourceBalance      = "balance"
	ResourceApproval     = "approval"
	ResourceCalendar     = "calendar"
)

const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionReadOwn = "read_own"
	ActionDecide  = "decide"
	ActionDelete  = "delete"
)

type Permission struct {
	Role     string
	Resource string
	Action   string
}

// RoleInheritance lists child -> parent: the child gets every parent permission.
var RoleInheritance = [][2]string{
	{domain.RoleApprover, domain.RoleEmployee},
	{domain.RoleAdmin, domain.RoleApprover},
}

var DefaultPermissions = []Permission{
	{domain.RoleEmployee, ResourceLeaveRequest, ActionCreate},
	{domain.RoleEmployee, ResourceLeaveRequest, ActionReadOwn},
	{domain.RoleEmployee, ResourceBalance, ActionReadOwn},
	{domain.RoleEmployee, ResourceLeaveType, ActionRead},
	{domain.RoleEmployee, ResourceCalendar, ActionRead},

	{domain.RoleApprover, ResourceLeaveRequest, ActionRead},
	{domain.RoleApprover, ResourceLeaveRequest, ActionDecide},
	{domain.RoleApprover, ResourceApproval, ActionRead},
	{domain.RoleApprover, ResourceEmployee, ActionRead},
	{domain.RoleApprover, ResourceBalance, ActionRead},

	{domain.RoleAdmin, ResourceLeaveRequest, ActionDelete},
	{domain.RoleAdmin, ResourceLeaveType, ActionCreate},
	{domain.RoleAdmin, ResourceEmployee, ActionCreate},
	{domain.RoleAdmin, ResourceBalance, ActionCreate},
}
