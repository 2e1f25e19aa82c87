package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// Roles lists every role a user may hold
var Roles = []string{RoleStudent, RoleRecruiter, RoleAdmin}

// User is the single account table shared by students, recruiters and admins.
// Student-only fields (branch, cgpa, resume_link) and recruiter-only fields
// (company_name) are left empty for the other roles.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"type:text" json:"name"`
	Email       string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"type:text" json:"-"`
	Role        string    `gorm:"type:text;not null;index;check:chk_users_role,role IN ('student', 'recruiter', 'admin')" json:"role"`
	Branch      string    `gorm:"type:text" json:"branch"`
	CGPA        float64   `gorm:"type:numeric(4,2);default:0" json:"cgpa"`
	ResumeLink  string    `gorm:"type:text" json:"resume_link"`
	CompanyName string    `gorm:"type:text" json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserProfile is the public projection of User, it never carries credential material
type UserProfile struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Branch      string    `json:"branch"`
	CGPA        float64   `json:"cgpa"`
	ResumeLink  string    `json:"resume_link"`
	CompanyName string    `json:"company_name"`
}

// Profile returns the public projection of the user
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Branch:      u.Branch,
		CGPA:        u.CGPA,
		ResumeLink:  u.ResumeLink,
		CompanyName: u.CompanyName,
	}
}

// UserSummary is the subset of a user embedded in listings of other resources
type UserSummary struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Branch      string    `json:"branch,omitempty"`
	CGPA        float64   `json:"cgpa,omitempty"`
	ResumeLink  string    `json:"resume_link,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
}

// Summary returns the embedded listing view of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Branch:      u.Branch,
		CGPA:        u.CGPA,
		ResumeLink:  u.ResumeLink,
		CompanyName: u.CompanyName,
	}
}

// AuthResponse holds the response data for login or registration
type AuthResponse struct {
	UserProfile
	Token string `json:"token"`
}
