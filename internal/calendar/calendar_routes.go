package calendar

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	cal := r.Group("/calendar")
	cal.Use(middleware.RBACAuthorize(rbacService, rbac.ResourceCalendar, rbac.ActionRead))
	{
		cal.GET("/:year/:month", handler.MonthRequests)
		cal.GET("/stats/:year/:month", handler.MonthSummary)
		cal.GET("/export/:year/:month",
			middleware.RateLimitByUser(0.2, 2),
			handler.ExportPDF,
		)
	}
}
