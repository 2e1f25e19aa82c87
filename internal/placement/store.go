package placement

import (
	"context"

	"placement-portal-backend/internal/model"

	"github.com/google/uuid"
)

// JobStore reads job postings
type JobStore interface {
	FindJob(ctx context.Context, id uint) (*model.Job, error)
}

// ApplicationStore persists applications. CreateApplication must return
// ErrDuplicateRecord when the (student, job) uniqueness constraint rejects the insert.
type ApplicationStore interface {
	FindApplication(ctx context.Context, id uint) (*model.Application, error)
	FindApplicationByStudentAndJob(ctx context.Context, studentID uuid.UUID, jobID uint) (*model.Application, error)
	CreateApplication(ctx context.Context, app *model.Application) error
	UpdateApplicationStatus(ctx context.Context, app *model.Application) error
	// ListApplicationsForRecruiter returns applications to jobs owned by recruiterID
	// with Student and Job loaded.
	ListApplicationsForRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.Application, error)
}

// ProfileStore reads and writes user profiles. SaveProfile writes the user and,
// when audit is non-nil, appends the audit record after the user write.
type ProfileStore interface {
	FindUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	SaveProfile(ctx context.Context, user *model.User, audit *model.AdminAudit) error
}
