package approval

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	r.GET("/leave-requests/:id/decisions",
		middleware.RBACAuthorize(rbacService, rbac.ResourceApproval, rbac.ActionRead),
		handler.History,
	)
}
