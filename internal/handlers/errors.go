package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
)

// respondError maps an error kind to its status code. Only classified
// errors carry details; anything else is logged and reported generically.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrValidation):
		status, message = http.StatusBadRequest, "invalid request"
	case errors.Is(err, apperr.ErrConflict):
		status, message = http.StatusConflict, "session was modified concurrently, retry"
	case errors.Is(err, apperr.ErrExhausted):
		status, message = http.StatusNotFound, "failed to build test"
	case errors.Is(err, apperr.ErrUpstream):
		status, message = http.StatusBadGateway, "upstream service failed"
	default:
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
