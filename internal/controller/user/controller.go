// Package user provides HTTP handlers for user profile operations.
package user

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placement-portal-backend/internal/auth"
	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/events"
	"placement-portal-backend/internal/metrics"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/storage"
	"placement-portal-backend/internal/utilities"
)

const resumeObjectPrefix = "resumes"

var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// UserController handles profile related endpoints
type UserController struct {
	DB             *database.DBinstanceStruct
	Users          placement.ProfileStore
	Mutator        *placement.ProfileMutator
	Tokens         *auth.TokenManager
	Storage        storage.StorageClient
	Events         *events.Emitter
	Metrics        *metrics.Manager
	MaxResumeBytes int64
}

// profileEditDoc documents the profile edit body for swag only. Handlers bind
// the body into a map so that absent fields are left untouched.
type profileEditDoc struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Branch      string   `json:"branch"`
	CGPA        *float64 `json:"cgpa"`
	ResumeLink  string   `json:"resume_link"`
	CompanyName string   `json:"company_name"`
	Password    string   `json:"password"`
	Reason      string   `json:"reason"`
}

// UpdateResponse is an edited profile with the audit entry it produced, if any
type UpdateResponse struct {
	model.UserProfile
	Audit *model.AdminAudit `json:"audit,omitempty"`
}

// NewUserController creates a new instance of UserController. store may be nil
// when uploads are disabled.
func NewUserController(
	db *database.DBinstanceStruct,
	mutator *placement.ProfileMutator,
	tokens *auth.TokenManager,
	store storage.StorageClient,
	emitter *events.Emitter,
	m *metrics.Manager,
	maxResumeBytes int64,
) *UserController {
	return &UserController{
		DB:             db,
		Users:          database.NewStore(db),
		Mutator:        mutator,
		Tokens:         tokens,
		Storage:        store,
		Events:         emitter,
		Metrics:        m,
		MaxResumeBytes: maxResumeBytes,
	}
}

// GetMyProfile returns the profile of the signed-in user
// @Summary Get my profile
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.UserProfile
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /users/profile [get]
func (uc *UserController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}

// UpdateMyProfile edits the profile of the signed-in user and issues a fresh token
// @Summary Edit my profile
// @Description Editable fields are name, branch, cgpa, resume_link, company_name and password. Empty values keep the current value.
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body profileEditDoc true "Fields to change, role, email and reason are ignored"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid field value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/profile [put]
func (uc *UserController) UpdateMyProfile(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}

	profile, err := uc.Mutator.Update(c.Request.Context(), actor.ID, actor, fields, "")
	if err != nil {
		utilities.WriteError(c, err, "Failed to update profile")
		return
	}
	uc.Metrics.RecordProfileUpdate(false)
	uc.respondWithToken(c, profile)
}

// UploadResume stores a resume file and links it to the signed-in user's profile
// @Summary Upload my resume
// @Description Only .pdf, .doc and .docx files within the upload limit are accepted
// @Tags User
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "Resume file"
// @Success 200 {object} model.UserProfile
// @Failure 400 {object} utilities.ErrorResponse "No file"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 503 {object} utilities.ErrorResponse "Uploads disabled"
// @Failure 500 {object} utilities.ErrorResponse "Storage or database error"
// @Router /users/profile/resume [post]
func (uc *UserController) UploadResume(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if uc.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, utilities.ErrorResponse{Error: "File uploads are not configured"})
		return
	}

	rawFile, err := c.FormFile("resume")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{Error: "File is too large"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "resume file is required"})
		return
	}
	if uc.MaxResumeBytes > 0 && rawFile.Size > uc.MaxResumeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: fmt.Sprintf("File is larger than %d bytes", uc.MaxResumeBytes),
		})
		return
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	contentType, ok := resumeContentTypes[extension]
	if !ok {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close uploaded file", slog.Any("error", err))
		}
	}()

	objectName := fmt.Sprintf("%s/%s/%s%s", resumeObjectPrefix, actor.ID, uuid.NewString(), extension)
	link, err := uc.Storage.UploadFile(c.Request.Context(), objectName, contentType, f)
	if err != nil {
		utilities.WriteError(c, err, "Failed to store resume")
		return
	}

	profile, err := uc.Mutator.Update(c.Request.Context(), actor.ID, actor,
		map[string]interface{}{placement.FieldResumeLink: link}, "")
	if err != nil {
		utilities.WriteError(c, err, "Failed to update profile")
		return
	}
	uc.Metrics.RecordProfileUpdate(false)
	c.JSON(http.StatusOK, profile)
}

// GetUser returns the profile of a user
// @Summary Get a user profile
// @Description Users can read their own profile, admins can read any
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Success 200 {object} model.UserProfile
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 403 {object} utilities.ErrorResponse "Not authorized"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if !placement.Can(actor, placement.ActionViewProfile, placement.Resource{OwnerID: id}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Not authorized to view this profile"})
		return
	}

	target, ok := uc.findUser(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, target.Profile())
}

// UpdateUser edits another user's profile and records an audit entry
// @Summary Edit a user profile as admin
// @Description Admins can change any profile field including role and email. A reason is required when editing someone else.
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Param profile body profileEditDoc true "Fields to change and the reason"
// @Success 200 {object} UpdateResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid field value or missing reason"
// @Failure 403 {object} utilities.ErrorResponse "Not authorized"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 409 {object} utilities.ErrorResponse "Email already in use"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users/{id} [put]
func (uc *UserController) UpdateUser(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := userIDParam(c)
	if !ok {
		return
	}

	fields := map[string]interface{}{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid request body"})
		return
	}
	reason, _ := fields["reason"].(string)
	delete(fields, "reason")

	profile, audit, err := uc.Mutator.UpdateAudited(c.Request.Context(), id, actor, fields, reason)
	if err != nil {
		utilities.WriteError(c, err, "Failed to update profile")
		return
	}

	uc.Metrics.RecordProfileUpdate(audit != nil)
	if audit != nil {
		uc.Events.Emit(c.Request.Context(), events.ProfileAuditedEvent(audit))
	}
	c.JSON(http.StatusOK, UpdateResponse{UserProfile: *profile, Audit: audit})
}

// DownloadResume streams the resume of a user
// @Summary Download a user's resume
// @Description Owners, admins and recruiters can download. Links outside the upload bucket are redirected.
// @Tags User
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Success 200 {file} binary
// @Success 302 "Redirect to an external resume link"
// @Failure 403 {object} utilities.ErrorResponse "Not authorized"
// @Failure 404 {object} utilities.ErrorResponse "No resume"
// @Router /users/{id}/resume [get]
func (uc *UserController) DownloadResume(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if actor.Role != model.RoleRecruiter &&
		!placement.Can(actor, placement.ActionViewProfile, placement.Resource{OwnerID: id}) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Not authorized to view this resume"})
		return
	}

	target, ok := uc.findUser(c, id)
	if !ok {
		return
	}
	if target.ResumeLink == "" {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No resume uploaded"})
		return
	}

	objectName, inBucket := "", false
	if uc.Storage != nil {
		objectName, inBucket = uc.Storage.ObjectName(target.ResumeLink)
	}
	if !inBucket {
		c.Redirect(http.StatusFound, target.ResumeLink)
		return
	}

	reader, size, err := uc.Storage.DownloadFile(c.Request.Context(), objectName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No resume uploaded"})
			return
		}
		utilities.WriteError(c, err, "Failed to read resume")
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Warn("failed to close resume reader", slog.Any("error", err))
		}
	}()

	extension := strings.ToLower(filepath.Ext(objectName))
	contentType, ok := resumeContentTypes[extension]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, size, contentType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="resume%s"`, extension),
	})
}

func (uc *UserController) respondWithToken(c *gin.Context, profile *model.UserProfile) {
	user, ok := uc.findUser(c, profile.ID)
	if !ok {
		return
	}
	token, _, err := uc.Tokens.GenerateStandardToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, model.AuthResponse{UserProfile: user.Profile(), Token: token})
}

func (uc *UserController) findUser(c *gin.Context, id uuid.UUID) (*model.User, bool) {
	user, err := uc.Users.FindUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, placement.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return nil, false
		}
		utilities.WriteError(c, err, "Failed to retrieve user")
		return nil, false
	}
	return user, true
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
