package middleware

import (
	"net/http"

	"evchargesim/internal/apiserver/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from a panic in a later handler and renders it as a
// JSON error instead of crashing the connection.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "an unexpected error occurred"
		if err, ok := recovered.(error); ok {
			message = err.Error()
		} else if s, ok := recovered.(string); ok {
			message = s
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: message},
		})
		c.Abort()
	})
}
