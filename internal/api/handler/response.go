package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal Server Error"

// respond writes a success envelope; body keys are merged in next to "success"
func respond(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// respondError maps err to a status code and writes a failure envelope
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status, message := classify(err)

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func classify(err error) (int, string) {
	message, hasMessage := domain.Message(err)

	var status int
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrDuplicate):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	default:
		return http.StatusInternalServerError, internalOrMessage(err, message, hasMessage)
	}

	if !hasMessage {
		message = http.StatusText(status)
	}
	return status, message
}

// upstream failures may carry a safe message; anything else stays generic
func internalOrMessage(err error, message string, hasMessage bool) string {
	if hasMessage && errors.Is(err, domain.ErrUpstream) {
		return message
	}
	return internalErrorMessage
}

// AbortWithMessage stops the chain with a failure envelope; used by middleware
func AbortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
