package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FailureResponse is the registration route's rejection body.
type FailureResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// ErrorHandler is a middleware that catches panics and returns a generic 500.
// Stack traces are logged, never returned.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// JSONFailure sends a {status: failure, error} response.
func JSONFailure(c *gin.Context, status int, message string) {
	c.JSON(status, FailureResponse{Status: "failure", Error: message})
}
