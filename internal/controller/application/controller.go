// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/events"
	"placement-portal-backend/internal/metrics"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB        *database.DBinstanceStruct
	Lifecycle *placement.ApplicationLifecycle
	Jobs      placement.JobStore
	Events    *events.Emitter
	Metrics   *metrics.Manager
	Pages     utilities.PageLimits
}

// ListResponse is a page of applications
type ListResponse struct {
	Applications []model.ApplicationView `json:"applications"`
	model.Page
}

// JobApplicationsResponse holds every application of one job
type JobApplicationsResponse struct {
	Applications []model.ApplicationView `json:"applications"`
}

type statusInfo struct {
	Status string `json:"status" binding:"required"`
}

// NewApplicationController creates a new instance of ApplicationController
func NewApplicationController(
	db *database.DBinstanceStruct,
	emitter *events.Emitter,
	m *metrics.Manager,
	pages utilities.PageLimits,
) *ApplicationController {
	store := database.NewStore(db)
	return &ApplicationController{
		DB:        db,
		Lifecycle: placement.NewApplicationLifecycle(store, store),
		Jobs:      store,
		Events:    emitter,
		Metrics:   m,
		Pages:     pages,
	}
}

// CreateApplication files an application of the signed-in student to a job
// @Summary Apply for a job
// @Description Only students that meet the branch and CGPA criteria of the job can apply, once per job
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path int true "Job ID"
// @Success 201 {object} model.Application "Successfully applied"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not a student or criteria not met"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{jobId} [post]
func (ac *ApplicationController) CreateApplication(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, ok := uintParam(c, "jobId")
	if !ok {
		return
	}

	app, err := ac.Lifecycle.Create(c.Request.Context(), user, jobID)
	if err != nil {
		ac.Metrics.RecordApplicationRejected(rejectReason(err))
		utilities.WriteError(c, err, "Failed to create application")
		return
	}

	ac.Metrics.RecordApplicationCreated()
	ac.Events.Emit(c.Request.Context(), events.ApplicationCreatedEvent(app))
	c.JSON(http.StatusCreated, app)
}

// MyApplications lists the applications of the signed-in student
// @Summary List my applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as student"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/my [get]
func (ac *ApplicationController) MyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	p := ac.Pages.Parse(c)
	query := ac.DB.WithContext(c.Request.Context()).
		Model(&model.Application{}).
		Where("student_id = ?", user.ID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utilities.WriteError(c, err, "Failed to count applications")
		return
	}

	var apps []model.Application
	if err := query.
		Preload("Job.Company").
		Order("created_at DESC").
		Scopes(database.Paginate(p)).
		Find(&apps).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve applications")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Applications: views(apps), Page: model.NewPage(p.Page, p.Limit, total)})
}

// RecruiterApplications lists every application to jobs posted by the signed-in recruiter
// @Summary List applications to my jobs
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicationView
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/recruiter [get]
func (ac *ApplicationController) RecruiterApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	list, err := ac.Lifecycle.ListForRecruiter(c.Request.Context(), user.ID)
	if err != nil {
		utilities.WriteError(c, err, "Failed to retrieve applications")
		return
	}
	c.JSON(http.StatusOK, list)
}

// JobApplications lists the applications of one job
// @Summary List applications of a job
// @Description Only the recruiter that posted the job or an admin can access this endpoint
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path int true "Job ID"
// @Success 200 {object} JobApplicationsResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid job id"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/job/{jobId} [get]
func (ac *ApplicationController) JobApplications(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, ok := uintParam(c, "jobId")
	if !ok {
		return
	}

	job, err := ac.Jobs.FindJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, placement.ErrRecordNotFound) {
			err = placement.NotFound("job not found")
		}
		utilities.WriteError(c, err, "Failed to retrieve job")
		return
	}

	if !placement.Can(actor, placement.ActionViewJobApplications, placement.Resource{OwnerID: job.CompanyID}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Not authorized to view applications for this job",
		})
		return
	}

	var apps []model.Application
	if err := ac.DB.WithContext(c.Request.Context()).
		Preload("Student").
		Preload("Job.Company").
		Where("job_id = ?", job.ID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve applications")
		return
	}

	c.JSON(http.StatusOK, JobApplicationsResponse{Applications: views(apps)})
}

// UpdateStatus moves an application to a new status
// @Summary Update application status
// @Description Only the recruiter that posted the job or an admin can update. Status is one of Applied, Shortlisted, Ongoing, Placed, Rejected.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application ID"
// @Param status body statusInfo true "New status"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or unknown status"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Application or job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [put]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var info statusInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "status is required"})
		return
	}

	app, err := ac.Lifecycle.UpdateStatus(c.Request.Context(), id, info.Status, actor)
	if err != nil {
		utilities.WriteError(c, err, "Failed to update application status")
		return
	}

	ac.Metrics.RecordStatusChange(app.Status)
	ac.Events.Emit(c.Request.Context(), events.StatusChangedEvent(app, actor.ID))
	c.JSON(http.StatusOK, app)
}

// AllApplications lists every application for admins
// @Summary List all applications
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 400 {object} utilities.ErrorResponse "Unknown status"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/admin [get]
func (ac *ApplicationController) AllApplications(c *gin.Context) {
	p := ac.Pages.Parse(c)
	query := ac.DB.WithContext(c.Request.Context()).Model(&model.Application{})

	if raw := c.Query("status"); raw != "" {
		status, err := placement.ParseStatus(raw)
		if err != nil {
			utilities.WriteError(c, err, "Invalid status")
			return
		}
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utilities.WriteError(c, err, "Failed to count applications")
		return
	}

	var apps []model.Application
	if err := query.
		Preload("Student").
		Preload("Job.Company").
		Order("created_at DESC").
		Scopes(database.Paginate(p)).
		Find(&apps).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve applications")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Applications: views(apps), Page: model.NewPage(p.Page, p.Limit, total)})
}

func views(apps []model.Application) []model.ApplicationView {
	out := make([]model.ApplicationView, 0, len(apps))
	for i := range apps {
		out = append(out, apps[i].View())
	}
	return out
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func rejectReason(err error) string {
	var pErr *placement.Error
	if errors.As(err, &pErr) {
		return string(pErr.Kind)
	}
	return "error"
}
