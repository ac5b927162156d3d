package balance

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	balances := r.Group("/balances")
	{
		balances.GET("/me",
			middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, rbac.ActionReadOwn),
			handler.Mine,
		)
		balances.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, rbac.ActionCreate),
			handler.Seed,
		)
	}

	r.GET("/employees/:id/balances",
		middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, rbac.ActionRead),
		handler.ByEmployee,
	)
}
