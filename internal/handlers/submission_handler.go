package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wellyonfilm/internal/auth"
	"wellyonfilm/internal/models"
	"wellyonfilm/internal/services"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
	commentService    *services.CommentService
}

func NewSubmissionHandler(submissionService *services.SubmissionService, commentService *services.CommentService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		commentService:    commentService,
	}
}

// CreateSubmission accepts a multipart upload: the photo file plus
// category and metadata fields.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
		return
	}

	input := services.CreateSubmissionInput{
		UserID:       userID,
		MonthYear:    c.PostForm("month_year"),
		CategoryType: models.CategoryType(c.PostForm("category_type")),
		PhotoData:    data,
	}
	if category := c.PostForm("category"); category != "" {
		input.Category = &category
	}
	if metaJSON := c.PostForm("metadata"); metaJSON != "" {
		if err := json.Unmarshal([]byte(metaJSON), &input.Metadata); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata"})
			return
		}
	}

	submission, err := h.submissionService.CreateSubmission(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    submission,
	})
}

// GetSubmissionsByMonth lists a month's active submissions, optionally
// filtered by category type
func (h *SubmissionHandler) GetSubmissionsByMonth(c *gin.Context) {
	monthYear := c.Param("monthYear")

	var submissions []models.Submission
	var err error

	if categoryType := c.Query("category_type"); categoryType != "" {
		submissions, err = h.submissionService.GetSubmissionsByCategory(monthYear, models.CategoryType(categoryType))
	} else {
		submissions, err = h.submissionService.GetSubmissionsByMonth(monthYear)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submissions,
		"count":   len(submissions),
	})
}

// GetSubmissionCards returns the gallery-grid shapes for a month
func (h *SubmissionHandler) GetSubmissionCards(c *gin.Context) {
	cards, err := h.submissionService.GetSubmissionCards(c.Param("monthYear"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cards,
		"count":   len(cards),
	})
}

// GetFeatured returns a month's featured set
func (h *SubmissionHandler) GetFeatured(c *gin.Context) {
	submissions, err := h.submissionService.GetFeaturedSubmissions(c.Param("monthYear"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submissions,
		"count":   len(submissions),
	})
}

// GetSubmission returns the detail-page shape for one submission
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	// Anonymous viewers get the public 404 behavior for hidden rows
	viewerID, _ := auth.GetUserID(c)
	viewerRole, _ := auth.GetRole(c)

	detail, err := h.submissionService.GetSubmissionDetail(submissionID, viewerID, viewerRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
	})
}

// EditMetadata updates a submission's descriptive metadata (owner-only)
func (h *SubmissionHandler) EditMetadata(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	var patch models.SubmissionMetadata
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.submissionService.EditMetadata(submissionID, userID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submission,
	})
}

// DeleteSubmission soft-deletes a submission (owner-only)
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	if err := h.submissionService.DeleteSubmission(submissionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission deleted",
	})
}

// CreateComment posts a comment on a submission
func (h *SubmissionHandler) CreateComment(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
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
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.CreateComment(submissionID, userID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    comment,
	})
}

// ListComments returns a submission's visible comments
func (h *SubmissionHandler) ListComments(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	comments, err := h.commentService.ListComments(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comments,
		"count":   len(comments),
	})
}
