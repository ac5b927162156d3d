package approval

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	recorder Recorder
	logger   *zap.Logger
}

func NewHandler(recorder Recorder, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("approval.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.handler")
	}
	return &Handler{recorder: recorder, logger: l}
}

// History lists the decisions taken on a leave request, oldest first.
func (h *Handler) History(c *gin.Context) {
	decisions, err := h.recorder.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("decision history failed", zap.String("leave_request_id", c.Param("id")), zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp := make([]DecisionResponse, len(decisions))
	for i, d := range decisions {
		resp[i] = ToResponse(d)
	}
	response.Success(c, http.StatusOK, resp, nil)
}
