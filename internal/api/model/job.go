package model

import (
	"time"

	"github.com/lib/pq"
)

type Job struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	Requirements    pq.StringArray `db:"requirements"`
	Salary          float64        `db:"salary"`
	Location        string         `db:"location"`
	JobType         string         `db:"job_type"`
	ExperienceLevel int            `db:"experience_level"`
	Position        int            `db:"position"`
	CompanyID       string         `db:"company_id"`
	CreatedBy       string         `db:"created_by"`
	CreatedAt       time.Time      `db:"created_at"`
}

// JobWithCompany is a job joined with its company; company columns are
// selected as "company.<column>"
type JobWithCompany struct {
	Job
	Company Company `db:"company"`
}

// JobDetail is a job with its company and the applications submitted to it
type JobDetail struct {
	JobWithCompany
	Applications []Application
}

// JobSearchResult is the projection returned by the search endpoint
type JobSearchResult struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Location        string    `db:"location"`
	JobType         string    `db:"job_type"`
	Position        int       `db:"position"`
	ExperienceLevel int       `db:"experience_level"`
	Salary          float64   `db:"salary"`
	CreatedAt       time.Time `db:"created_at"`
	CompanyName     string    `db:"company_name"`
	CompanyLogo     string    `db:"company_logo"`
	CompanyLocation string    `db:"company_location"`
}
