package calendar

import (
	"fmt"
	"net/http"
	"strconv"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("calendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("calendar request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) MonthRequests(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	resp, err := h.service.MonthRequests(c.Request.Context(), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthSummary(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	resp, err := h.service.MonthSummary(c.Request.Context(), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportPDF(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	doc, err := h.service.ExportMonthPDF(c.Request.Context(), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="calendar-%04d-%02d.pdf"`, year, month))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func parseYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		appErr := apperror.InvalidField("year")
		response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		appErr := apperror.InvalidField("month")
		response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return 0, 0, false
	}
	return year, month, true
}
