package middleware

import (
	"net/http"

	"go-leave/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrInvalidActorID = apperror.New(apperror.CodeUnauthorized, "Invalid employee id in token", http.StatusUnauthorized)

// ExtractActorID rejects requests whose authenticated employee id is not a UUID.
func ExtractActorID() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetString(string(ContextEmployeeID))
		if actorID == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}
		if _, err := uuid.Parse(actorID); err != nil {
			abortWith(c, ErrInvalidActorID)
			return
		}
		c.Next()
	}
}
