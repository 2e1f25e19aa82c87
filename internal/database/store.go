package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
)

// Store is the gorm backed JobStore, ApplicationStore and ProfileStore
type Store struct {
	DB *DBinstanceStruct
}

var (
	_ placement.JobStore         = (*Store)(nil)
	_ placement.ApplicationStore = (*Store)(nil)
	_ placement.ProfileStore     = (*Store)(nil)
)

// NewStore creates a Store over db
func NewStore(db *DBinstanceStruct) *Store {
	return &Store{DB: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// FindJob loads a job with its recruiter
func (s *Store) FindJob(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := s.conn(ctx).Preload("Company").First(&job, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &job, nil
}

// FindApplication loads an application by id
func (s *Store) FindApplication(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := s.conn(ctx).First(&app, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &app, nil
}

// FindApplicationByStudentAndJob loads the application of studentID to jobID
func (s *Store) FindApplicationByStudentAndJob(ctx context.Context, studentID uuid.UUID, jobID uint) (*model.Application, error) {
	var app model.Application
	err := s.conn(ctx).
		Where("student_id = ? AND job_id = ?", studentID, jobID).
		First(&app).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &app, nil
}

// CreateApplication inserts app. The idx_applications_student_job unique index
// turns a concurrent duplicate into placement.ErrDuplicateRecord.
func (s *Store) CreateApplication(ctx context.Context, app *model.Application) error {
	return translateError(s.conn(ctx).Create(app).Error)
}

// UpdateApplicationStatus writes only the status column of app
func (s *Store) UpdateApplicationStatus(ctx context.Context, app *model.Application) error {
	res := s.conn(ctx).Model(app).Update("status", app.Status)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return placement.ErrRecordNotFound
	}
	return nil
}

// ListApplicationsForRecruiter returns applications to jobs owned by recruiterID, newest first
func (s *Store) ListApplicationsForRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.Application, error) {
	db := s.conn(ctx)
	ownedJobs := db.Model(&model.Job{}).Select("id").Where("company_id = ?", recruiterID)

	var apps []model.Application
	err := db.
		Preload("Student").
		Preload("Job").
		Preload("Job.Company").
		Where("job_id IN (?)", ownedJobs).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, translateError(err)
	}
	return apps, nil
}

// FindUser loads a user by id
func (s *Store) FindUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// SaveProfile writes user and appends audit in one transaction
func (s *Store) SaveProfile(ctx context.Context, user *model.User, audit *model.AdminAudit) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(user).Select(
			"Name", "Email", "Password", "Role", "Branch", "CGPA", "ResumeLink", "CompanyName",
		).Updates(user)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}
