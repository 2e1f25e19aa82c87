// Package feedback provides HTTP handlers for student feedback about companies.
package feedback

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/utilities"
)

// FeedbackController handles feedback related endpoints
type FeedbackController struct {
	DB    *database.DBinstanceStruct
	Pages utilities.PageLimits
}

// ListResponse is a page of feedback
type ListResponse struct {
	Feedback []model.FeedbackResponse `json:"feedback"`
	model.Page
}

type feedbackInfo struct {
	CompanyName  string `json:"company_name"`
	FeedbackText string `json:"feedback_text"`
}

// NewFeedbackController creates a new instance of FeedbackController
func NewFeedbackController(db *database.DBinstanceStruct, pages utilities.PageLimits) *FeedbackController {
	return &FeedbackController{DB: db, Pages: pages}
}

// SubmitFeedback records feedback of the signed-in student
// @Summary Submit feedback about a company
// @Tags Feedback
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param feedback body feedbackInfo true "Feedback"
// @Success 201 {object} model.Feedback
// @Failure 400 {object} utilities.ErrorResponse "Company name and feedback text are required"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as student"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback [post]
func (fc *FeedbackController) SubmitFeedback(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if !placement.Can(actor, placement.ActionSubmitFeedback, placement.Resource{}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only students can submit feedback"})
		return
	}

	var info feedbackInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}
	info.CompanyName = strings.TrimSpace(info.CompanyName)
	info.FeedbackText = strings.TrimSpace(info.FeedbackText)
	if info.CompanyName == "" || info.FeedbackText == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Company name and feedback text are required"})
		return
	}

	feedback := model.Feedback{
		StudentID:    actor.ID,
		CompanyName:  info.CompanyName,
		FeedbackText: info.FeedbackText,
	}
	if err := fc.DB.WithContext(c.Request.Context()).Create(&feedback).Error; err != nil {
		utilities.WriteError(c, err, "Failed to submit feedback")
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

// MyFeedback lists feedback submitted by the signed-in student
// @Summary List my feedback
// @Tags Feedback
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Feedback
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as student"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback/my [get]
func (fc *FeedbackController) MyFeedback(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	feedback := []model.Feedback{}
	if err := fc.DB.WithContext(c.Request.Context()).
		Where("student_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&feedback).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve feedback")
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// AllFeedback lists every feedback for admins
// @Summary List all feedback
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback/all [get]
func (fc *FeedbackController) AllFeedback(c *gin.Context) {
	p := fc.Pages.Parse(c)
	query := fc.DB.WithContext(c.Request.Context()).Model(&model.Feedback{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utilities.WriteError(c, err, "Failed to count feedback")
		return
	}

	var feedback []model.Feedback
	if err := query.
		Preload("Student").
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(p)).
		Find(&feedback).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve feedback")
		return
	}

	out := make([]model.FeedbackResponse, 0, len(feedback))
	for i := range feedback {
		out = append(out, feedback[i].ToResponse())
	}
	c.JSON(http.StatusOK, ListResponse{Feedback: out, Page: model.NewPage(p.Page, p.Limit, total)})
}

// DeleteFeedback removes a feedback entry
// @Summary Delete feedback
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Feedback ID"
// @Success 200 {object} utilities.MessageResponse "Feedback removed"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 404 {object} utilities.ErrorResponse "Feedback not found"
// @Router /admin/feedback/{id} [delete]
func (fc *FeedbackController) DeleteFeedback(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id"})
		return
	}

	var feedback model.Feedback
	if err := fc.DB.WithContext(c.Request.Context()).First(&feedback, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Feedback not found"})
			return
		}
		utilities.WriteError(c, err, "Failed to retrieve feedback")
		return
	}
	if err := fc.DB.WithContext(c.Request.Context()).Delete(&feedback).Error; err != nil {
		utilities.WriteError(c, err, "Failed to delete feedback")
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Feedback removed"})
}
