package model

import (
	"time"

	"github.com/google/uuid"
)

// EditableJobInfo is part of job that recruiter can edit
type EditableJobInfo struct {
	Title          string   `gorm:"type:text;not null" json:"title"`
	Description    string   `gorm:"type:text;not null" json:"description"`
	CriteriaBranch string   `gorm:"type:text" json:"criteria_branch"`
	CriteriaCGPA   *float64 `gorm:"type:numeric(4,2)" json:"criteria_cgpa"`
	Salary         string   `gorm:"type:text" json:"salary"`
	Location       string   `gorm:"type:text" json:"location"`
}

// Job is gorm model for store job posting data in DB
type Job struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"company"`
	Company   *User     `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	EditableJobInfo
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// JobSummary is the subset of a job embedded in application listings
type JobSummary struct {
	ID          uint   `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// Summary returns the embedded listing view of the job
func (j *Job) Summary() JobSummary {
	s := JobSummary{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
	}
	if j.Company != nil {
		s.CompanyName = j.Company.CompanyName
	}
	return s
}

// JobResponse is a job with the posting company name resolved
type JobResponse struct {
	ID          uint      `json:"_id"`
	CompanyID   uuid.UUID `json:"company"`
	CompanyName string    `json:"company_name"`
	EditableJobInfo
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToJobResponse converts Job to JobResponse
func (j *Job) ToJobResponse() JobResponse {
	resp := JobResponse{
		ID:              j.ID,
		CompanyID:       j.CompanyID,
		EditableJobInfo: j.EditableJobInfo,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
	if j.Company != nil {
		resp.CompanyName = j.Company.CompanyName
	}
	return resp
}
