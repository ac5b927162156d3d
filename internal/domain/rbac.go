package domain

// Roles carried in the JWT role claim.
const (
	RoleEmployee = "EMPLOYEE"
	RoleApprover = "APPROVER"
	RoleAdmin    = "ADMIN"
)

// EnforceRequest asks whether role may perform action on resource.
type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}
