package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/utilities"
)

const authTypeLocal = "Local"

// LocalAuthHandler holds the dependencies of the email/password auth handlers.
type LocalAuthHandler struct {
	DB             *database.DBinstanceStruct
	Tokens         *TokenManager
	AdminSecretKey string
	AuthLog        *AuthLogger
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler
func NewLocalAuthHandler(db *database.DBinstanceStruct, tokens *TokenManager, adminSecretKey string, authLog *AuthLogger) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:             db,
		Tokens:         tokens,
		AdminSecretKey: adminSecretKey,
		AuthLog:        authLog,
	}
}

type registerInfo struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required"`
	Role        string   `json:"role"`
	Branch      string   `json:"branch"`
	CGPA        *float64 `json:"cgpa" binding:"omitempty,gte=0,lte=10"`
	ResumeLink  string   `json:"resume_link"`
	CompanyName string   `json:"company_name"`
	AdminKey    string   `json:"admin_key"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler creates an account and returns it with an access token
// @Summary Register with email and password
// @Description Password must be at least 8 characters. Role defaults to student; admin requires admin_key.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "Account details"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid input, existing user or wrong admin key"
// @Failure 500 {object} utilities.ErrorResponse "Database, hashing or admin key configuration error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Name, a valid email and password must be provided",
		})
		return
	}
	email := database.NormalizeEmail(info.Email)

	if info.Role == "" {
		info.Role = model.RoleStudent
	}
	if !slices.Contains(model.Roles, info.Role) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Role '%s' not allowed", info.Role),
		})
		return
	}

	if info.Role == model.RoleAdmin {
		if lh.AdminSecretKey == "" {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Server misconfiguration: ADMIN_SECRET_KEY not set",
			})
			return
		}
		if info.AdminKey != lh.AdminSecretKey {
			lh.AuthLog.LogAuthAttempt("warning", authTypeLocal, "Fail", email, "invalid admin key")
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid admin key"})
			return
		}
	}

	if len(info.Password) < utilities.MinPasswordLength {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Password should be at least %d characters", utilities.MinPasswordLength),
		})
		return
	}

	var existing model.User
	err := lh.DB.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "User already exists"})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Name:        info.Name,
		Email:       email,
		Password:    hashedPassword,
		Role:        info.Role,
		Branch:      info.Branch,
		ResumeLink:  info.ResumeLink,
		CompanyName: info.CompanyName,
	}
	if info.CGPA != nil {
		user.CGPA = *info.CGPA
	}

	if err := lh.DB.Create(&user).Error; err != nil {
		if database.IsDuplicate(err) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	lh.respondWithToken(c, http.StatusCreated, user)
}

// LoginHandler exchanges email and password for an access token
// @Summary Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Email or password not provided"
// @Failure 401 {object} utilities.ErrorResponse "Invalid email or password"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}
	email := database.NormalizeEmail(info.Email)

	var user model.User
	err := lh.DB.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		lh.AuthLog.LogAuthAttempt("info", authTypeLocal, "Fail", email, "unknown email")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid email or password"})
		return
	case err == nil:
		// Do nothing
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		lh.AuthLog.LogAuthAttempt("info", authTypeLocal, "Fail", email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid email or password"})
		return
	}

	lh.respondWithToken(c, http.StatusOK, user)
}

func (lh *LocalAuthHandler) respondWithToken(c *gin.Context, status int, user model.User) {
	accessToken, _, err := lh.Tokens.GenerateStandardToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}
	lh.AuthLog.LogAuthAttempt("info", authTypeLocal, "Success", user.Email, "")

	c.JSON(status, model.AuthResponse{
		UserProfile: user.Profile(),
		Token:       accessToken,
	})
}
