package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Recovery turns a panic in a later handler into a logged 500 with a JSON error body
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				panicRecoveries.Inc()
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					"error", fmt.Sprint(err),
					"request_id", RequestIDFrom(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}

// NoRoute renders unknown paths with the same error body as the API
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found"})
}

// NoMethod renders unsupported methods with the same error body as the API
func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
}
