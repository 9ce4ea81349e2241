package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellyonfilm/internal/services"
)

// respondError translates a domain error into an HTTP response. The
// "kind" field lets the UI distinguish bad input from bad timing.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "kind": "not_found"})

	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "kind": "authorization"})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "kind": "authorization"})

	case errors.Is(err, services.ErrInvalidFile),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidMonthKey),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrFlagReasonRequired),
		errors.Is(err, services.ErrTooManyTags),
		errors.Is(err, services.ErrCommentTooLong),
		errors.Is(err, services.ErrEmptyComment),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})

	case errors.Is(err, services.ErrQuotaExceeded),
		errors.Is(err, services.ErrSubmissionsClosed),
		errors.Is(err, services.ErrJudgingClosed),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrMonthAlreadyOpen),
		errors.Is(err, services.ErrMonthExists),
		errors.Is(err, services.ErrJudgePanelFull),
		errors.Is(err, services.ErrDuplicateJudge),
		errors.Is(err, services.ErrNotJudge),
		errors.Is(err, services.ErrAlreadyDrawn),
		errors.Is(err, services.ErrNoParticipants):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "state"})

	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": "internal"})
	}
}
