package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	requests := r.Group("/leave-requests")
	{
		requests.POST("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionCreate),
			handler.Create,
		)
		requests.GET("/me",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionReadOwn),
			handler.ListMine,
		)
		requests.GET("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead),
			handler.List,
		)
		requests.GET("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead),
			handler.GetByID,
		)
		requests.PUT("/:id/approve",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionDecide),
			handler.Approve,
		)
		requests.PUT("/:id/reject",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionDecide),
			handler.Reject,
		)
		requests.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionDelete),
			handler.Delete,
		)
	}

	r.POST("/approvals",
		middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionDecide),
		handler.Decide,
	)
}
