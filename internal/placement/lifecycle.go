package placement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"placement-portal-backend/internal/model"

	"github.com/google/uuid"
)

// ApplicationLifecycle enforces one application per student per job and the
// status updates reviewers may apply.
type ApplicationLifecycle struct {
	jobs JobStore
	apps ApplicationStore
}

// NewApplicationLifecycle creates an ApplicationLifecycle over the given stores
func NewApplicationLifecycle(jobs JobStore, apps ApplicationStore) *ApplicationLifecycle {
	return &ApplicationLifecycle{jobs: jobs, apps: apps}
}

// Create files an application from candidate to the job jobID.
// Checks run in order: job exists, caller is a student, eligibility, duplicate.
func (l *ApplicationLifecycle) Create(ctx context.Context, candidate model.User, jobID uint) (*model.Application, error) {
	job, err := l.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !Can(Actor{ID: candidate.ID, Role: candidate.Role}, ActionApplyJob, Resource{}) {
		return nil, Forbidden("only students can apply for jobs")
	}

	if d := Evaluate(job.CriteriaBranch, job.CriteriaCGPA, candidate.Branch, candidate.CGPA); !d.Admitted {
		return nil, Forbidden(d.Reason)
	}

	// Early exit only, the unique index decides when requests race.
	_, err = l.apps.FindApplicationByStudentAndJob(ctx, candidate.ID, job.ID)
	switch {
	case err == nil:
		return nil, Conflict("already applied")
	case errors.Is(err, ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("check existing application: %w", err)
	}

	app := &model.Application{
		StudentID: candidate.ID,
		JobID:     job.ID,
		Status:    model.ApplicationStatusApplied,
	}
	if err := l.apps.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return nil, Conflict("already applied")
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// UpdateStatus sets the status of an application. Only an admin or the
// recruiter owning the job may do so. Any of the five statuses is accepted
// regardless of the current one.
func (l *ApplicationLifecycle) UpdateStatus(ctx context.Context, applicationID uint, newStatus string, actor Actor) (*model.Application, error) {
	app, err := l.apps.FindApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, NotFound("application not found")
		}
		return nil, fmt.Errorf("load application: %w", err)
	}

	job, err := l.findJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	if !Can(actor, ActionUpdateApplicationStatus, Resource{OwnerID: job.CompanyID}) {
		return nil, Forbidden("not authorized to update this application")
	}

	status, err := ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	app.Status = status
	if err := l.apps.UpdateApplicationStatus(ctx, app); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, NotFound("application not found")
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return app, nil
}

// ListForRecruiter returns every application to a job owned by recruiterID
func (l *ApplicationLifecycle) ListForRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.ApplicationView, error) {
	apps, err := l.apps.ListApplicationsForRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("list recruiter applications: %w", err)
	}
	views := make([]model.ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, apps[i].View())
	}
	return views, nil
}

func (l *ApplicationLifecycle) findJob(ctx context.Context, id uint) (*model.Job, error) {
	job, err := l.jobs.FindJob(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, NotFound("job not found")
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	return job, nil
}

// ParseStatus converts raw input to one of the five application statuses.
// Matching ignores case and surrounding whitespace.
func ParseStatus(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", Validation("status is required")
	}
	for _, status := range model.ApplicationStatuses {
		if strings.EqualFold(s, status) {
			return status, nil
		}
	}
	return "", Validation(fmt.Sprintf("unknown application status %q", raw))
}
