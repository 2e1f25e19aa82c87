// Package job provides HTTP handlers for job posting operations.
package job

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/utilities"
)

// JobController handles job posting related endpoints
type JobController struct {
	DB    *database.DBinstanceStruct
	Pages utilities.PageLimits
}

// ListResponse is a page of jobs
type ListResponse struct {
	Jobs []model.JobResponse `json:"jobs"`
	model.Page
}

// jobInfo is the request body for creating and editing a job.
// CriteriaCGPA accepts a number or a numeric string.
type jobInfo struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	CriteriaBranch string      `json:"criteria_branch"`
	CriteriaCGPA   interface{} `json:"criteria_cgpa" swaggertype:"number"`
	Salary         string      `json:"salary"`
	Location       string      `json:"location"`
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct, pages utilities.PageLimits) *JobController {
	return &JobController{DB: db, Pages: pages}
}

// CreateJob publishes a job for the signed-in recruiter
// @Summary Create a job posting
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job body jobInfo true "Job to create"
// @Success 201 {object} model.JobResponse
// @Failure 400 {object} utilities.ErrorResponse "Title or description missing"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJob(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if !placement.Can(actor, placement.ActionCreateJob, placement.Resource{}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only recruiters can post jobs"})
		return
	}

	var info jobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}
	info.Title = strings.TrimSpace(info.Title)
	info.Description = strings.TrimSpace(info.Description)
	if info.Title == "" || info.Description == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Title and description are required"})
		return
	}

	job := model.Job{
		CompanyID: actor.ID,
		EditableJobInfo: model.EditableJobInfo{
			Title:          info.Title,
			Description:    info.Description,
			CriteriaBranch: strings.TrimSpace(info.CriteriaBranch),
			CriteriaCGPA:   placement.ParseCGPA(info.CriteriaCGPA),
			Salary:         info.Salary,
			Location:       info.Location,
		},
	}
	if err := jc.DB.WithContext(c.Request.Context()).Create(&job).Error; err != nil {
		utilities.WriteError(c, err, "Failed to create job")
		return
	}

	user, _ := utilities.ExtractUser(c)
	job.Company = &user
	c.JSON(http.StatusCreated, job.ToJobResponse())
}

// branchAdmits mirrors placement.AllowedBranches: an empty or Any criteria admits
// every branch, otherwise the criteria is a comma or pipe separated list.
const branchAdmits = `(COALESCE(criteria_branch, '') = '' OR criteria_branch = ? OR
	LOWER(?) IN (SELECT TRIM(b) FROM regexp_split_to_table(LOWER(criteria_branch), '[,|]') AS b))`

// ListJobs lists jobs with optional filters
// @Summary List jobs
// @Description branch and cgpa keep the jobs a student with that branch or CGPA is eligible for, keyword searches titles
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param branch query string false "Criteria branch"
// @Param cgpa query number false "Student CGPA"
// @Param keyword query string false "Title keyword"
// @Param desc query bool false "Newest first (default true)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 400 {object} utilities.ErrorResponse "Malformed cgpa"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) ListJobs(c *gin.Context) {
	p := jc.Pages.Parse(c)
	query := jc.DB.WithContext(c.Request.Context()).Model(&model.Job{})

	if branch := strings.TrimSpace(c.Query("branch")); branch != "" {
		query = query.Where(branchAdmits, placement.AnyBranch, branch)
	}
	if raw := strings.TrimSpace(c.Query("cgpa")); raw != "" {
		cgpa, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "cgpa must be a number"})
			return
		}
		query = query.Where("(criteria_cgpa IS NULL OR criteria_cgpa <= 0 OR criteria_cgpa <= ?)", cgpa)
	}
	if keyword := strings.TrimSpace(c.Query("keyword")); keyword != "" {
		query = query.Where("title ILIKE ?", "%"+keyword+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utilities.WriteError(c, err, "Failed to count jobs")
		return
	}

	desc := true
	if raw := c.Query("desc"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			desc = v
		}
	}

	var jobs []model.Job
	if err := query.
		Preload("Company").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Scopes(database.Paginate(p)).
		Find(&jobs).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve jobs")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Jobs: responses(jobs), Page: model.NewPage(p.Page, p.Limit, total)})
}

// MyJobs lists jobs posted by the signed-in recruiter
// @Summary List my job postings
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/myjobs [get]
func (jc *JobController) MyJobs(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	p := jc.Pages.Parse(c)
	query := jc.DB.WithContext(c.Request.Context()).
		Model(&model.Job{}).
		Where("company_id = ?", user.ID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utilities.WriteError(c, err, "Failed to count jobs")
		return
	}

	var jobs []model.Job
	if err := query.
		Preload("Company").
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(p)).
		Find(&jobs).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve jobs")
		return
	}
	c.JSON(http.StatusOK, ListResponse{Jobs: responses(jobs), Page: model.NewPage(p.Page, p.Limit, total)})
}

// GetJob returns one job
// @Summary Get a job by id
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} model.JobResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJob(c *gin.Context) {
	job, ok := jc.loadJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, job.ToJobResponse())
}

// UpdateJob edits a job. Fields left empty keep their current value.
// @Summary Edit a job posting
// @Description Only the recruiter that posted the job or an admin can edit it
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param job body jobInfo true "Fields to change"
// @Success 200 {object} model.JobResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or body"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateJob(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadJob(c)
	if !ok {
		return
	}
	if !placement.Can(actor, placement.ActionManageJob, placement.Resource{OwnerID: job.CompanyID}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Not authorized to update this job"})
		return
	}

	var info jobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}
	applyEdits(&job.EditableJobInfo, info)

	if err := jc.DB.WithContext(c.Request.Context()).
		Model(job).
		Select("title", "description", "criteria_branch", "criteria_cgpa", "salary", "location").
		Updates(job).Error; err != nil {
		utilities.WriteError(c, err, "Failed to update job")
		return
	}
	c.JSON(http.StatusOK, job.ToJobResponse())
}

// DeleteJob removes a job together with its applications
// @Summary Delete a job posting
// @Description Only the recruiter that posted the job or an admin can delete it
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} utilities.MessageResponse "Job removed"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadJob(c)
	if !ok {
		return
	}
	if !placement.Can(actor, placement.ActionManageJob, placement.Resource{OwnerID: job.CompanyID}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Not authorized to delete this job"})
		return
	}

	err = jc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&model.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(job).Error
	})
	if err != nil {
		utilities.WriteError(c, err, "Failed to delete job")
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job removed"})
}

func (jc *JobController) loadJob(c *gin.Context) (*model.Job, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id"})
		return nil, false
	}

	var job model.Job
	if err := jc.DB.WithContext(c.Request.Context()).Preload("Company").First(&job, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return nil, false
		}
		utilities.WriteError(c, err, "Failed to retrieve job")
		return nil, false
	}
	return &job, true
}

func applyEdits(dst *model.EditableJobInfo, info jobInfo) {
	if v := strings.TrimSpace(info.Title); v != "" {
		dst.Title = v
	}
	if v := strings.TrimSpace(info.Description); v != "" {
		dst.Description = v
	}
	if v := strings.TrimSpace(info.CriteriaBranch); v != "" {
		dst.CriteriaBranch = v
	}
	if cgpa := placement.ParseCGPA(info.CriteriaCGPA); cgpa != nil {
		dst.CriteriaCGPA = cgpa
	}
	if info.Salary != "" {
		dst.Salary = info.Salary
	}
	if info.Location != "" {
		dst.Location = info.Location
	}
}

func responses(jobs []model.Job) []model.JobResponse {
	out := make([]model.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, jobs[i].ToJobResponse())
	}
	return out
}
