package placement

import (
	"context"
	"sync"
	"testing"

	"placement-portal-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleFixture struct {
	store     *memStore
	lc        *ApplicationLifecycle
	student   *model.User
	recruiter *model.User
	job       *model.Job
}

func newLifecycleFixture() *lifecycleFixture {
	s := newMemStore()
	f := &lifecycleFixture{store: s, lc: NewApplicationLifecycle(s, s)}
	f.student = s.addUser(model.User{Name: "Asha", Role: model.RoleStudent, Branch: "IT", CGPA: 8.2})
	f.recruiter = s.addUser(model.User{Name: "Ravi", Role: model.RoleRecruiter, CompanyName: "Acme"})
	f.job = s.addJob(model.Job{
		CompanyID: f.recruiter.ID,
		EditableJobInfo: model.EditableJobInfo{
			Title:          "Backend Intern",
			CriteriaBranch: "CSE,IT",
			CriteriaCGPA:   cgpa(7.5),
		},
	})
	return f
}

func TestCreate_Success(t *testing.T) {
	f := newLifecycleFixture()

	app, err := f.lc.Create(context.Background(), *f.student, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApplied, app.Status)
	assert.Equal(t, f.student.ID, app.StudentID)
	assert.Equal(t, f.job.ID, app.JobID)
	assert.NotZero(t, app.ID)
}

func TestCreate_JobNotFound(t *testing.T) {
	f := newLifecycleFixture()

	// a recruiter applying to a missing job still gets NotFound first
	_, err := f.lc.Create(context.Background(), *f.recruiter, 999)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCreate_NonStudentForbidden(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.lc.Create(context.Background(), *f.recruiter, f.job.ID)
	assert.True(t, IsKind(err, KindForbidden))
	assert.Contains(t, err.Error(), "only students")
	assert.Empty(t, f.store.apps)
}

func TestCreate_Ineligible(t *testing.T) {
	f := newLifecycleFixture()
	ece := f.store.addUser(model.User{Role: model.RoleStudent, Branch: "ece", CGPA: 9})
	low := f.store.addUser(model.User{Role: model.RoleStudent, Branch: "cse", CGPA: 7})

	_, err := f.lc.Create(context.Background(), *ece, f.job.ID)
	var pErr *Error
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, KindForbidden, pErr.Kind)
	assert.Equal(t, ReasonBranchNotMet, pErr.Reason)

	_, err = f.lc.Create(context.Background(), *low, f.job.ID)
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, ReasonCGPANotMet, pErr.Reason)
	assert.Empty(t, f.store.apps)
}

func TestCreate_Duplicate(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.lc.Create(context.Background(), *f.student, f.job.ID)
	require.NoError(t, err)

	_, err = f.lc.Create(context.Background(), *f.student, f.job.ID)
	assert.True(t, IsKind(err, KindConflict))
	assert.Contains(t, err.Error(), "already applied")
}

func TestCreate_DuplicateCaughtByUniqueIndex(t *testing.T) {
	f := newLifecycleFixture()
	f.store.skipPairLookup = true

	_, err := f.lc.Create(context.Background(), *f.student, f.job.ID)
	require.NoError(t, err)

	_, err = f.lc.Create(context.Background(), *f.student, f.job.ID)
	assert.True(t, IsKind(err, KindConflict))
	assert.Len(t, f.store.apps, 1)
}

func TestCreate_ConcurrentDuplicates(t *testing.T) {
	f := newLifecycleFixture()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.lc.Create(context.Background(), *f.student, f.job.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if IsKind(err, KindConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestUpdateStatus(t *testing.T) {
	f := newLifecycleFixture()
	app, err := f.lc.Create(context.Background(), *f.student, f.job.ID)
	require.NoError(t, err)

	admin := Actor{ID: uuid.New(), Role: model.RoleAdmin}
	owner := ActorFromUser(*f.recruiter, "")
	stranger := Actor{ID: uuid.New(), Role: model.RoleRecruiter}

	t.Run("owning recruiter", func(t *testing.T) {
		updated, err := f.lc.UpdateStatus(context.Background(), app.ID, "shortlisted", owner)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusShortlisted, updated.Status)
	})

	t.Run("backward transition allowed", func(t *testing.T) {
		updated, err := f.lc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusApplied, admin)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusApplied, updated.Status)
	})

	t.Run("stranger forbidden without mutation", func(t *testing.T) {
		writes := f.store.statusWrites
		_, err := f.lc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusPlaced, stranger)
		assert.True(t, IsKind(err, KindForbidden))
		assert.Equal(t, writes, f.store.statusWrites)
		stored, _ := f.store.FindApplication(context.Background(), app.ID)
		assert.Equal(t, model.ApplicationStatusApplied, stored.Status)
	})

	t.Run("student forbidden", func(t *testing.T) {
		_, err := f.lc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusPlaced, ActorFromUser(*f.student, ""))
		assert.True(t, IsKind(err, KindForbidden))
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.lc.UpdateStatus(context.Background(), app.ID, "Hired", admin)
		assert.True(t, IsKind(err, KindValidation))
	})

	t.Run("missing application", func(t *testing.T) {
		_, err := f.lc.UpdateStatus(context.Background(), 4242, model.ApplicationStatusPlaced, admin)
		assert.True(t, IsKind(err, KindNotFound))
	})
}

func TestListForRecruiter(t *testing.T) {
	f := newLifecycleFixture()
	other := f.store.addUser(model.User{Role: model.RoleRecruiter, CompanyName: "Globex"})
	otherJob := f.store.addJob(model.Job{CompanyID: other.ID, EditableJobInfo: model.EditableJobInfo{Title: "SRE"}})

	_, err := f.lc.Create(context.Background(), *f.student, f.job.ID)
	require.NoError(t, err)
	_, err = f.lc.Create(context.Background(), *f.student, otherJob.ID)
	require.NoError(t, err)

	views, err := f.lc.ListForRecruiter(context.Background(), f.recruiter.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Backend Intern", views[0].Job.Title)
	assert.Equal(t, "Asha", views[0].Student.Name)

	views, err = f.lc.ListForRecruiter(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Placed", "placed", " PLACED "} {
		s, err := ParseStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusPlaced, s)
	}
	_, err := ParseStatus("  ")
	assert.True(t, IsKind(err, KindValidation))
}
