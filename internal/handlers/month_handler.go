package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellyonfilm/internal/services"
)

type MonthHandler struct {
	monthService *services.MonthService
	statsService *services.StatsService
}

func NewMonthHandler(monthService *services.MonthService, statsService *services.StatsService) *MonthHandler {
	return &MonthHandler{monthService: monthService, statsService: statsService}
}

// GetCurrentMonth returns the open month
func (h *MonthHandler) GetCurrentMonth(c *gin.Context) {
	month, err := h.monthService.GetCurrentMonth()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    month,
	})
}

// GetMonth returns a month with its submission aggregates
func (h *MonthHandler) GetMonth(c *gin.Context) {
	monthYear := c.Param("monthYear")

	month, err := h.monthService.GetMonthWithStats(monthYear)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    month,
	})
}

// ListMonths returns all months, newest first
func (h *MonthHandler) ListMonths(c *gin.Context) {
	months, err := h.monthService.ListMonths()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    months,
		"count":   len(months),
	})
}

// GetArchive returns closed months as archive summaries
func (h *MonthHandler) GetArchive(c *gin.Context) {
	summaries, err := h.monthService.GetArchivedMonths()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
		"count":   len(summaries),
	})
}

// GetCommunityStats returns the home-page aggregates
func (h *MonthHandler) GetCommunityStats(c *gin.Context) {
	stats, err := h.statsService.GetCommunityStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
