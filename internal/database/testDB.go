package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	m "placement-portal-backend/internal/model"
	"placement-portal-backend/internal/utilities"
)

var (
	testDBInstance *DBinstanceStruct
	teardown       func(context.Context, ...testcontainers.TerminateOption) error
	testDBErr      error
	testDBOnce     sync.Once
)

// Exported seeded users and jobs
var (
	TestAdminUser  m.User
	TestStudent1   m.User
	TestStudent2   m.User
	TestRecruiter1 m.User
	TestRecruiter2 m.User

	// Plain password shared by every seeded user
	TestSeedPassword = "SeedPass123!"

	// TestJob1 is open to CSE and IT with a 7.5 minimum, posted by TestRecruiter1
	TestJob1 m.Job
	// TestJob2 is open to any branch with no minimum, posted by TestRecruiter1
	TestJob2 m.Job
	// TestJob3 is open to ECE only, posted by TestRecruiter2
	TestJob3 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
// The container is started once per test binary.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {
	testDBOnce.Do(func() {
		teardown, testDBInstance, testDBErr = guardStart(startTestDB)
	})
	return teardown, testDBInstance, testDBErr
}

// SkipWithoutDB skips t when no test database could be started
func SkipWithoutDB(t *testing.T, db *DBinstanceStruct) {
	t.Helper()
	if db == nil {
		t.Skip("postgres test container unavailable")
	}
}

type startFunc func() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error)

// guardStart turns a panic raised while locating a container runtime into an
// error so that callers can skip instead of aborting the test binary.
func guardStart(start startFunc) (term func(context.Context, ...testcontainers.TerminateOption) error, db *DBinstanceStruct, err error) {
	defer func() {
		if r := recover(); r != nil {
			term, db, err = nil, nil, fmt.Errorf("start postgres container: %v", r)
		}
	}()
	return start()
}

func startTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {
	var (
		dbName = "placement"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts two students, two recruiters, an admin and three jobs.
func seedTestData(db *DBinstanceStruct) error {
	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	users := []m.User{
		{ID: uuid.New(), Name: "Asha Rao", Email: "student1@example.com", Role: m.RoleStudent, Branch: "CSE", CGPA: 8.5},
		{ID: uuid.New(), Name: "Bilal Khan", Email: "student2@example.com", Role: m.RoleStudent, Branch: "ECE", CGPA: 6.9},
		{ID: uuid.New(), Name: "Chitra Iyer", Email: "recruiter1@example.com", Role: m.RoleRecruiter, CompanyName: "TechNova"},
		{ID: uuid.New(), Name: "Dev Malhotra", Email: "recruiter2@example.com", Role: m.RoleRecruiter, CompanyName: "DataForge"},
		{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: m.RoleAdmin},
	}
	for i := range users {
		users[i].Password = hashedPwd
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	TestStudent1, TestStudent2 = users[0], users[1]
	TestRecruiter1, TestRecruiter2 = users[2], users[3]
	TestAdminUser = users[4]

	minCGPA := 7.5
	jobs := []m.Job{
		{
			CompanyID: TestRecruiter1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Backend Engineer Intern",
				Description:    "Work on Go services and database layers.",
				CriteriaBranch: "CSE, IT",
				CriteriaCGPA:   &minCGPA,
				Salary:         "15000",
				Location:       "Bengaluru (Hybrid)",
			},
		},
		{
			CompanyID: TestRecruiter1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Frontend Developer Intern",
				Description:    "Build the component library in React.",
				CriteriaBranch: "Any",
				Salary:         "12000",
				Location:       "Remote",
			},
		},
		{
			CompanyID: TestRecruiter2.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Embedded Systems Trainee",
				Description:    "Firmware for sensor boards.",
				CriteriaBranch: "ECE",
				Location:       "Pune (On-site)",
			},
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1, TestJob2, TestJob3 = jobs[0], jobs[1], jobs[2]

	return nil
}
