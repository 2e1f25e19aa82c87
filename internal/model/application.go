package model

import (
	"time"

	"github.com/google/uuid"
)

// Application status values, in pipeline order
const (
	ApplicationStatusApplied     = "Applied"
	ApplicationStatusShortlisted = "Shortlisted"
	ApplicationStatusOngoing     = "Ongoing"
	ApplicationStatusPlaced      = "Placed"
	ApplicationStatusRejected    = "Rejected"
)

// ApplicationStatuses is the fixed ordered set of application statuses
var ApplicationStatuses = []string{
	ApplicationStatusApplied,
	ApplicationStatusShortlisted,
	ApplicationStatusOngoing,
	ApplicationStatusPlaced,
	ApplicationStatusRejected,
}

// Application represents a job application record.
// A student may hold at most one application per job, enforced by the
// composite unique index idx_applications_student_job.
type Application struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"_id"`
	Status string `gorm:"type:text;not null;default:'Applied';index;check:chk_applications_status,status IN ('Applied', 'Shortlisted', 'Ongoing', 'Placed', 'Rejected')" json:"status"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_student_job,priority:1;index" json:"student_id"`
	Student   *User     `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	JobID uint `gorm:"not null;uniqueIndex:idx_applications_student_job,priority:2;index" json:"job_id"`
	Job   *Job `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplicationView is an application with student and job identity attached for display
type ApplicationView struct {
	ID        uint         `json:"_id"`
	Status    string       `json:"status"`
	Student   *UserSummary `json:"student,omitempty"`
	Job       *JobSummary  `json:"job,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// View converts a loaded application into its display form.
// Student and Job are only attached when they were preloaded.
func (a *Application) View() ApplicationView {
	v := ApplicationView{
		ID:        a.ID,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Student != nil {
		s := a.Student.Summary()
		v.Student = &s
	}
	if a.Job != nil {
		j := a.Job.Summary()
		v.Job = &j
	}
	return v
}
