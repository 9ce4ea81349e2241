package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wellyonfilm/internal/auth"
	"wellyonfilm/internal/models"
	"wellyonfilm/internal/services"
)

type JudgingHandler struct {
	judgingService *services.JudgingService
}

func NewJudgingHandler(judgingService *services.JudgingService) *JudgingHandler {
	return &JudgingHandler{judgingService: judgingService}
}

// GetPanel returns a month's judge assignments
func (h *JudgingHandler) GetPanel(c *gin.Context) {
	assignments, err := h.judgingService.GetPanel(c.Param("monthYear"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    assignments,
		"count":   len(assignments),
	})
}

// RecordAction upserts the caller's verdict on a submission
func (h *JudgingHandler) RecordAction(c *gin.Context) {
	judgeID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	var req struct {
		Action     string  `json:"action" binding:"required"`
		FlagReason *string `json:"flag_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.judgingService.RecordAction(
		c.Request.Context(), judgeID, submissionID,
		models.JudgeActionType(req.Action), req.FlagReason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    action,
	})
}

// GetJudgingStatus returns the panel's tallies for a submission
func (h *JudgingHandler) GetJudgingStatus(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	status, err := h.judgingService.GetJudgingStatus(c.Request.Context(), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}
