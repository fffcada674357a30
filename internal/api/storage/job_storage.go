package storage

import (
	"context"
	"strings"

	"github.com/cuongbtq/skillbridge/internal/api/model"
)

// SearchResultLimit caps the number of rows the search endpoint returns
const SearchResultLimit = 10

const jobWithCompanySelect = `
	SELECT
		j.id, j.title, j.description, j.requirements, j.salary, j.location,
		j.job_type, j.experience_level, j.position, j.company_id, j.created_by, j.created_at,
		c.id AS "company.id", c.name AS "company.name", c.description AS "company.description",
		c.website AS "company.website", c.location AS "company.location",
		c.logo_url AS "company.logo_url", c.owner_id AS "company.owner_id",
		c.created_at AS "company.created_at", c.updated_at AS "company.updated_at"
	FROM jobs j
	JOIN companies c ON c.id = j.company_id
`

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			id, title, description, requirements, salary, location,
			job_type, experience_level, position, company_id, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Title,
		job.Description,
		job.Requirements,
		job.Salary,
		job.Location,
		job.JobType,
		job.ExperienceLevel,
		job.Position,
		job.CompanyID,
		job.CreatedBy,
		job.CreatedAt,
	)
	if err != nil {
		return mapError("create job", err)
	}

	return nil
}

// GetJobByID returns the job with its company and applications
func (s *Storage) GetJobByID(ctx context.Context, id string) (*model.JobDetail, error) {
	var detail model.JobDetail
	if err := s.db.GetContext(ctx, &detail.JobWithCompany, jobWithCompanySelect+` WHERE j.id = $1`, id); err != nil {
		return nil, mapError("get job", err)
	}

	applications, err := s.listApplicationsByJob(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Applications = applications

	return &detail, nil
}

// ListJobs matches keyword against title or description, newest first. An empty
// keyword matches every job.
func (s *Storage) ListJobs(ctx context.Context, keyword string) ([]model.JobWithCompany, error) {
	query := jobWithCompanySelect
	args := []interface{}{}

	if keyword != "" {
		query += ` WHERE (j.title ILIKE $1 OR j.description ILIKE $1)`
		args = append(args, containsPattern(keyword))
	}

	query += ` ORDER BY j.created_at DESC, j.id DESC`

	jobs := []model.JobWithCompany{}
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, mapError("list jobs", err)
	}

	return jobs, nil
}

func (s *Storage) ListJobsByCreator(ctx context.Context, userID string) ([]model.JobWithCompany, error) {
	query := jobWithCompanySelect + `
		WHERE j.created_by = $1
		ORDER BY j.created_at DESC, j.id DESC
	`

	jobs := []model.JobWithCompany{}
	if err := s.db.SelectContext(ctx, &jobs, query, userID); err != nil {
		return nil, mapError("list admin jobs", err)
	}

	return jobs, nil
}

// SearchJobs returns at most SearchResultLimit jobs whose title, description,
// location or company name contains q, case-insensitively. A blank q yields an
// empty result without touching the database.
func (s *Storage) SearchJobs(ctx context.Context, q string) ([]model.JobSearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.JobSearchResult{}, nil
	}

	query := `
		SELECT
			j.id, j.title, j.description, j.location, j.job_type, j.position,
			j.experience_level, j.salary, j.created_at,
			c.name AS company_name, c.logo_url AS company_logo, c.location AS company_location
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		WHERE j.title ILIKE $1
			OR j.description ILIKE $1
			OR j.location ILIKE $1
			OR c.name ILIKE $1
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT $2
	`

	results := []model.JobSearchResult{}
	if err := s.db.SelectContext(ctx, &results, query, containsPattern(q), SearchResultLimit); err != nil {
		return nil, mapError("search jobs", err)
	}

	return results, nil
}
