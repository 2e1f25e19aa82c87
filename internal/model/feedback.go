package model

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a student's note about a company they interacted with
type Feedback struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"_id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"student_id"`
	Student      *User     `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	CompanyName  string    `gorm:"type:text;not null" json:"company_name"`
	FeedbackText string    `gorm:"type:text;not null" json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeedbackResponse is feedback with the submitting student resolved
type FeedbackResponse struct {
	Feedback
	Student *UserSummary `json:"student,omitempty"`
}

// ToResponse resolves the submitting student when preloaded
func (f *Feedback) ToResponse() FeedbackResponse {
	resp := FeedbackResponse{Feedback: *f}
	if f.Student != nil {
		s := UserSummary{ID: f.Student.ID, Name: f.Student.Name, Email: f.Student.Email}
		resp.Student = &s
	}
	return resp
}
