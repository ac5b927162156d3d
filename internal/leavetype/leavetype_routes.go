package leavetype

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	types := r.Group("/leave-types")
	{
		types.GET("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead),
			handler.List,
		)
		types.GET("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead),
			handler.GetByID,
		)
		types.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionCreate),
			handler.Create,
		)
	}
}
