// Package admin provides HTTP handlers for the admin back-office.
package admin

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/utilities"
)

// AdminController handles user management and audit endpoints
type AdminController struct {
	DB    *database.DBinstanceStruct
	Pages utilities.PageLimits
}

// UserListResponse is a page of users
type UserListResponse struct {
	Users []model.UserProfile `json:"users"`
	model.Page
}

// AuditListResponse is a page of audit entries
type AuditListResponse struct {
	Audits []model.AdminAudit `json:"audits"`
	model.Page
}

// NewAdminController creates a new instance of AdminController
func NewAdminController(db *database.DBinstanceStruct, pages utilities.PageLimits) *AdminController {
	return &AdminController{
		DB:    db,
		Pages: pages,
	}
}

// ListUsers lists users, optionally of one role
// @Summary List users
// @Description Only admin can access this endpoint
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param role query string false "student, recruiter or admin"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} UserListResponse
// @Failure 400 {object} utilities.ErrorResponse "Unknown role"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users [get]
func (ac *AdminController) ListUsers(c *gin.Context) {
	p := ac.Pages.Parse(c)
	query := ac.DB.WithContext(c.Request.Context()).Model(&model.User{})

	if role := strings.ToLower(strings.TrimSpace(c.Query("role"))); role != "" {
		if !slices.Contains(model.Roles, role) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Unknown role: " + role})
			return
		}
		query = query.Where("role = ?", role)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utilities.WriteError(c, err, "Failed to count users")
		return
	}

	var users []model.User
	if err := query.
		Order("created_at DESC, id").
		Scopes(database.Paginate(p)).
		Find(&users).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve users")
		return
	}

	profiles := make([]model.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	c.JSON(http.StatusOK, UserListResponse{Users: profiles, Page: model.NewPage(p.Page, p.Limit, total)})
}

// DeleteUser removes a user with everything they own
// @Summary Delete a user
// @Description Jobs, applications, posts, comments and feedback of the user are removed with it. Admins cannot delete themselves.
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID"
// @Success 200 {object} utilities.MessageResponse "User removed"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or own account"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users/{id} [delete]
func (ac *AdminController) DeleteUser(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id"})
		return
	}
	if id == admin.ID {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Cannot delete your own account"})
		return
	}

	var user model.User
	if err := ac.DB.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		utilities.WriteError(c, err, "Failed to retrieve user")
		return
	}

	if err := ac.DB.WithContext(c.Request.Context()).Delete(&user).Error; err != nil {
		utilities.WriteError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "User removed"})
}

// ListAudits lists profile edit audit entries, newest first
// @Summary List profile audits
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param target query string false "Target user ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} AuditListResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid target"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/audits [get]
func (ac *AdminController) ListAudits(c *gin.Context) {
	p := ac.Pages.Parse(c)
	query := ac.DB.WithContext(c.Request.Context()).Model(&model.AdminAudit{})

	if raw := c.Query("target"); raw != "" {
		target, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid target"})
			return
		}
		query = query.Where("target_user_id = ?", target)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utilities.WriteError(c, err, "Failed to count audits")
		return
	}

	audits := []model.AdminAudit{}
	if err := query.
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(p)).
		Find(&audits).Error; err != nil {
		utilities.WriteError(c, err, "Failed to retrieve audits")
		return
	}
	c.JSON(http.StatusOK, AuditListResponse{Audits: audits, Page: model.NewPage(p.Page, p.Limit, total)})
}
