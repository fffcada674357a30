package model

import "time"

type Application struct {
	ID          string    `db:"id"`
	JobID       string    `db:"job_id"`
	ApplicantID string    `db:"applicant_id"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

// ApplicationWithJob is an application joined with its job and the job's company
type ApplicationWithJob struct {
	Application
	Job     Job     `db:"job"`
	Company Company `db:"company"`
}
