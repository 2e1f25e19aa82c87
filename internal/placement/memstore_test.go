package placement

import (
	"context"
	"sync"

	"placement-portal-backend/internal/model"

	"github.com/google/uuid"
)

type studentJob struct {
	student uuid.UUID
	job     uint
}

// memStore is an in-memory JobStore, ApplicationStore and ProfileStore.
// The byPair map plays the part of the unique (student, job) index.
type memStore struct {
	mu      sync.Mutex
	jobs    map[uint]*model.Job
	apps    map[uint]*model.Application
	byPair  map[studentJob]uint
	users   map[uuid.UUID]*model.User
	audits  []model.AdminAudit
	nextApp uint

	profileWrites int
	statusWrites  int
	// skipPairLookup hides existing applications from the pre-check so the
	// unique index is the only thing rejecting a duplicate.
	skipPairLookup bool
	saveErr        error
}

func newMemStore() *memStore {
	return &memStore{
		jobs:   map[uint]*model.Job{},
		apps:   map[uint]*model.Application{},
		byPair: map[studentJob]uint{},
		users:  map[uuid.UUID]*model.User{},
	}
}

func (s *memStore) addUser(u model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = &u
	return &u
}

func (s *memStore) addJob(j model.Job) *model.Job {
	if j.ID == 0 {
		j.ID = uint(len(s.jobs) + 1)
	}
	s.jobs[j.ID] = &j
	return &j
}

func (s *memStore) FindJob(_ context.Context, id uint) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *memStore) FindApplication(_ context.Context, id uint) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) FindApplicationByStudentAndJob(_ context.Context, studentID uuid.UUID, jobID uint) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPair[studentJob{studentID, jobID}]
	if !ok || s.skipPairLookup {
		return nil, ErrRecordNotFound
	}
	cp := *s.apps[id]
	return &cp, nil
}

func (s *memStore) CreateApplication(_ context.Context, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := studentJob{app.StudentID, app.JobID}
	if _, ok := s.byPair[key]; ok {
		return ErrDuplicateRecord
	}
	s.nextApp++
	app.ID = s.nextApp
	cp := *app
	s.apps[app.ID] = &cp
	s.byPair[key] = app.ID
	return nil
}

func (s *memStore) UpdateApplicationStatus(_ context.Context, app *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.apps[app.ID]
	if !ok {
		return ErrRecordNotFound
	}
	stored.Status = app.Status
	s.statusWrites++
	return nil
}

func (s *memStore) ListApplicationsForRecruiter(_ context.Context, recruiterID uuid.UUID) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Application
	for id := uint(1); id <= s.nextApp; id++ {
		a, ok := s.apps[id]
		if !ok {
			continue
		}
		job := s.jobs[a.JobID]
		if job == nil || job.CompanyID != recruiterID {
			continue
		}
		cp := *a
		cp.Job = job
		cp.Student = s.users[a.StudentID]
		out = append(out, cp)
	}
	return out, nil
}

func (s *memStore) FindUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) SaveProfile(_ context.Context, user *model.User, audit *model.AdminAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *user
	s.users[user.ID] = &cp
	s.profileWrites++
	if audit != nil {
		s.audits = append(s.audits, *audit)
	}
	return nil
}
