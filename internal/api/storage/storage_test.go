package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStorage(sqlx.NewDb(db, "postgres")), mock
}

var jobWithCompanyColumns = []string{
	"id", "title", "description", "requirements", "salary", "location",
	"job_type", "experience_level", "position", "company_id", "created_by", "created_at",
	"company.id", "company.name", "company.description", "company.website", "company.location",
	"company.logo_url", "company.owner_id", "company.created_at", "company.updated_at",
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"acme":      "%acme%",
		"50%":       `%50\%%`,
		"snake_job": `%snake\_job%`,
		`back\end`:  `%back\\end%`,
		"C++ (dev)": "%C++ (dev)%",
	}

	for in, want := range tests {
		assert.Equal(t, want, containsPattern(in), "input %q", in)
	}
}

func TestSearchJobs_BlankQuerySkipsDatabase(t *testing.T) {
	s, mock := newMockStorage(t)

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := s.SearchJobs(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchJobs(t *testing.T) {
	s, mock := newMockStorage(t)
	newer := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "location", "job_type", "position",
		"experience_level", "salary", "created_at",
		"company_name", "company_logo", "company_location",
	}).
		AddRow("j-2", "Backend Engineer", "Go services", "Remote", "Full-time", 2, 3, "1500.00", newer, "Acme", "https://cdn.test/acme.png", "Hanoi").
		AddRow("j-1", "Data Engineer", "Pipelines", "Hanoi", "Part-time", 1, 1, 900.5, older, "Acme", "", "Hanoi")

	mock.ExpectQuery(regexp.QuoteMeta("JOIN companies c ON c.id = j.company_id")).
		WithArgs("%acme%", SearchResultLimit).
		WillReturnRows(rows)

	results, err := s.SearchJobs(context.Background(), "  acme ")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "j-2", results[0].ID)
	assert.Equal(t, 1500.0, results[0].Salary)
	assert.Equal(t, "Acme", results[0].CompanyName)
	assert.Equal(t, 900.5, results[1].Salary)
	assert.False(t, results[0].CreatedAt.Before(results[1].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchJobs_EscapesWildcards(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY j.created_at DESC, j.id DESC")).
		WithArgs(`%100\%\_remote%`, SearchResultLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	results, err := s.SearchJobs(context.Background(), "100%_remote")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchJobs_DatabaseError(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs j")).
		WillReturnError(errors.New("connection reset"))

	_, err := s.SearchJobs(context.Background(), "go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search jobs")
}

func TestListJobs(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(jobWithCompanyColumns).AddRow(
			"j-1", "Backend Engineer", "Go", "{Go,SQL}", "1200.00", "Remote",
			"Full-time", 2, 1, "c-1", "u-1", created,
			"c-1", "Acme", "", "", "Hanoi", "", "u-1", created, created,
		)
	}

	t.Run("keyword filters title and description", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE (j.title ILIKE $1 OR j.description ILIKE $1)")).
			WithArgs("%backend%").
			WillReturnRows(row())

		jobs, err := s.ListJobs(context.Background(), "backend")
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, pq.StringArray{"Go", "SQL"}, jobs[0].Requirements)
		assert.Equal(t, "Acme", jobs[0].Company.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty keyword matches everything", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM jobs j\s+JOIN companies c ON c\.id = j\.company_id\s+ORDER BY`).
			WithArgs().
			WillReturnRows(row())

		jobs, err := s.ListJobs(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListJobsByCreator(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE j.created_by = $1")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(jobWithCompanyColumns))

	jobs, err := s.ListJobsByCreator(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobByID(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("with applications", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE j.id = $1")).
			WithArgs("j-1").
			WillReturnRows(sqlmock.NewRows(jobWithCompanyColumns).AddRow(
				"j-1", "Backend Engineer", "Go", "{Go}", 1200, "Remote",
				"Full-time", 2, 1, "c-1", "u-1", created,
				"c-1", "Acme", "", "", "Hanoi", "", "u-1", created, created,
			))
		mock.ExpectQuery(regexp.QuoteMeta("FROM applications")).
			WithArgs("j-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "applicant_id", "status", "created_at"}).
				AddRow("a-1", "j-1", "u-2", "pending", created))

		job, err := s.GetJobByID(context.Background(), "j-1")
		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, "Acme", job.Company.Name)
		require.Len(t, job.Applications, 1)
		assert.Equal(t, "u-2", job.Applications[0].ApplicantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE j.id = $1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(jobWithCompanyColumns))

		_, err := s.GetJobByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateJob(t *testing.T) {
	s, mock := newMockStorage(t)
	job := &model.Job{
		ID:              "j-1",
		Title:           "Backend Engineer",
		Description:     "Go",
		Requirements:    pq.StringArray{"Go", "SQL"},
		Salary:          1200,
		Location:        "Remote",
		JobType:         "Full-time",
		ExperienceLevel: 2,
		Position:        1,
		CompanyID:       "c-1",
		CreatedBy:       "u-1",
		CreatedAt:       time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO jobs")).
		WithArgs("j-1", "Backend Engineer", "Go", sqlmock.AnyArg(), 1200.0, "Remote",
			"Full-time", 2, 1, "c-1", "u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.CreateJob(context.Background(), job))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCompany_Duplicate(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO companies")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := s.CreateCompany(context.Background(), &model.Company{ID: "c-1", Name: "Acme", OwnerID: "u-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyNameExists(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM companies WHERE name = $1)")).
		WithArgs("Acme").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := s.CompanyNameExists(context.Background(), "Acme")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompany_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE companies SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateCompany(context.Background(), &model.Company{ID: "c-1", Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID(t *testing.T) {
	s, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "fullname", "email", "phone_number", "password_hash", "role",
			"bio", "skills", "photo_url", "resume_url", "resume_name", "created_at", "updated_at",
		}).AddRow("u-1", "Jane", "jane@example.com", "0123", "hash", "student",
			"", "{Go,Rust,SQL}", "", "", "", now, now))

	user, err := s.GetUserByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"Go", "Rust", "SQL"}, user.Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplication_Duplicate(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WithArgs("a-1", "j-1", "u-1", "pending", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.CreateApplication(context.Background(), &model.Application{
		ID: "a-1", JobID: "j-1", ApplicantID: "u-1", Status: "pending", CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestListActivity(t *testing.T) {
	cursorTime := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "event_id", "event_type", "actor_id", "entity_id", "summary", "created_at"}

	t.Run("first page", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE actor_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2")).
			WithArgs("u-1", 21).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("e-1", "ev-1", "job.posted", "u-1", "j-1", "Backend Engineer", cursorTime))

		events, err := s.ListActivity(context.Background(), ActivityFilter{ActorID: "u-1", PageSize: 20})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "job.posted", events[0].EventType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with cursor", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("AND (created_at, id) < ($2, $3) ORDER BY created_at DESC, id DESC LIMIT $4")).
			WithArgs("u-1", cursorTime, "e-9", 6).
			WillReturnRows(sqlmock.NewRows(columns))

		events, err := s.ListActivity(context.Background(), ActivityFilter{
			ActorID:  "u-1",
			PageSize: 5,
			Cursor:   &ActivityCursor{CreatedAt: cursorTime, ID: "e-9"},
		})
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
