package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wellyonfilm/internal/auth"
	"wellyonfilm/internal/services"
)

type AdminHandler struct {
	monthService      *services.MonthService
	judgingService    *services.JudgingService
	finalizeService   *services.FinalizeService
	raffleService     *services.RaffleService
	submissionService *services.SubmissionService
	userService       *services.UserService
}

func NewAdminHandler(
	monthService *services.MonthService,
	judgingService *services.JudgingService,
	finalizeService *services.FinalizeService,
	raffleService *services.RaffleService,
	submissionService *services.SubmissionService,
	userService *services.UserService,
) *AdminHandler {
	return &AdminHandler{
		monthService:      monthService,
		judgingService:    judgingService,
		finalizeService:   finalizeService,
		raffleService:     raffleService,
		submissionService: submissionService,
		userService:       userService,
	}
}

// CreateMonth opens a new monthly cycle
func (h *AdminHandler) CreateMonth(c *gin.Context) {
	var input services.CreateMonthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	month, err := h.monthService.CreateMonth(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    month,
	})
}

// BeginJudging transitions a month from open to judging
func (h *AdminHandler) BeginJudging(c *gin.Context) {
	month, err := h.monthService.BeginJudging(c.Param("monthYear"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Month moved to judging",
		"data":    month,
	})
}

// AssignJudge places a user on a month's panel
func (h *AdminHandler) AssignJudge(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	assignment, err := h.judgingService.AssignJudge(userID, c.Param("monthYear"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    assignment,
	})
}

// GetModerationQueue lists a month's flagged-and-unresolved submissions
func (h *AdminHandler) GetModerationQueue(c *gin.Context) {
	queue, err := h.judgingService.ModerationQueue(c.Request.Context(), c.Param("monthYear"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    queue,
		"count":   len(queue),
	})
}

// ModerateSubmission approves or removes a flagged submission
func (h *AdminHandler) ModerateSubmission(c *gin.Context) {
	moderatorID, ok := auth.GetUserID(c)
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
		Action string `json:"action" binding:"required"` // "approve" or "remove"
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Action {
	case "approve":
		err = h.judgingService.ApproveFlagged(submissionID, moderatorID)
	case "remove":
		if req.Reason == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Removal requires a reason"})
			return
		}
		err = h.submissionService.RemoveSubmission(submissionID, moderatorID, req.Reason)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission " + req.Action + "d",
	})
}

// FinalizeMonth computes the featured set and closes the month
func (h *AdminHandler) FinalizeMonth(c *gin.Context) {
	var overrides services.FinalizeOverrides
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	featured, err := h.finalizeService.FinalizeMonth(c.Request.Context(), c.Param("monthYear"), overrides)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Month finalized",
		"data":    featured,
		"count":   len(featured),
	})
}

// RunRaffle draws the month's prize winner
func (h *AdminHandler) RunRaffle(c *gin.Context) {
	winner, err := h.raffleService.RunRaffle(c.Request.Context(), c.Param("monthYear"))
	if errors.Is(err, services.ErrAlreadyDrawn) {
		// The recorded winner stands; no redraw happened
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   err.Error(),
			"kind":    "state",
			"data":    winner,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    winner,
	})
}

// GetRaffleWinner returns the recorded winner for a month
func (h *AdminHandler) GetRaffleWinner(c *gin.Context) {
	winner, err := h.raffleService.GetWinner(c.Request.Context(), c.Param("monthYear"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    winner,
	})
}

// GetUsers lists non-deleted users with optional name search
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	search := c.Query("search")

	users, total, err := h.userService.ListUsers(limit, offset, search)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"total":   total,
	})
}
