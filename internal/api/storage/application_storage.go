package storage

import (
	"context"

	"github.com/cuongbtq/skillbridge/internal/api/model"
)

func (s *Storage) CreateApplication(ctx context.Context, app *model.Application) error {
	query := `
		INSERT INTO applications (id, job_id, applicant_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query, app.ID, app.JobID, app.ApplicantID, app.Status, app.CreatedAt)
	if err != nil {
		return mapError("create application", err)
	}

	return nil
}

func (s *Storage) ApplicationExists(ctx context.Context, jobID, applicantID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`
	if err := s.db.GetContext(ctx, &exists, query, jobID, applicantID); err != nil {
		return false, mapError("check application", err)
	}
	return exists, nil
}

// ListApplicationsByApplicant returns the caller's applications with job and company, newest first
func (s *Storage) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error) {
	query := `
		SELECT
			a.id, a.job_id, a.applicant_id, a.status, a.created_at,
			j.id AS "job.id", j.title AS "job.title", j.description AS "job.description",
			j.requirements AS "job.requirements", j.salary AS "job.salary",
			j.location AS "job.location", j.job_type AS "job.job_type",
			j.experience_level AS "job.experience_level", j.position AS "job.position",
			j.company_id AS "job.company_id", j.created_by AS "job.created_by",
			j.created_at AS "job.created_at",
			c.id AS "company.id", c.name AS "company.name", c.description AS "company.description",
			c.website AS "company.website", c.location AS "company.location",
			c.logo_url AS "company.logo_url", c.owner_id AS "company.owner_id",
			c.created_at AS "company.created_at", c.updated_at AS "company.updated_at"
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN companies c ON c.id = j.company_id
		WHERE a.applicant_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`

	apps := []model.ApplicationWithJob{}
	if err := s.db.SelectContext(ctx, &apps, query, applicantID); err != nil {
		return nil, mapError("list applications", err)
	}

	return apps, nil
}

func (s *Storage) listApplicationsByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	query := `
		SELECT id, job_id, applicant_id, status, created_at
		FROM applications
		WHERE job_id = $1
		ORDER BY created_at DESC, id DESC
	`

	apps := []model.Application{}
	if err := s.db.SelectContext(ctx, &apps, query, jobID); err != nil {
		return nil, mapError("list job applications", err)
	}

	return apps, nil
}
