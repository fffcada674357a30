package dto

import (
	"math"
	"strings"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
)

// Column bounds: salary is NUMERIC(14, 2), experience and position are INTEGER
const (
	MaxSalary    = 999_999_999_999.99
	MaxJobNumber = math.MaxInt32
)

type PostJobRequest struct {
	Title        string  `json:"title" form:"title"`
	Description  string  `json:"description" form:"description"`
	Requirements string  `json:"requirements" form:"requirements"`
	Salary       float64 `json:"salary" form:"salary"`
	Location     string  `json:"location" form:"location"`
	JobType      string  `json:"jobType" form:"jobType"`
	Experience   int     `json:"experience" form:"experience"`
	Position     int     `json:"position" form:"position"`
	CompanyID    string  `json:"companyId" form:"companyId"`
}

// Validate requires every field to be present: strings non-blank, numbers non-zero
func (r *PostJobRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.JobType = strings.TrimSpace(r.JobType)
	r.CompanyID = strings.TrimSpace(r.CompanyID)

	if r.Title == "" || r.Description == "" || len(SplitList(r.Requirements)) == 0 ||
		r.Salary == 0 || r.Location == "" || r.JobType == "" ||
		r.Experience == 0 || r.Position == 0 || r.CompanyID == "" {
		return domain.NewError(domain.ErrValidation, "Something is missing.")
	}
	if r.Salary < 0 || r.Experience < 0 || r.Position < 0 {
		return domain.NewError(domain.ErrValidation, "Salary, experience and position must be positive.")
	}
	if r.Salary > MaxSalary || r.Experience > MaxJobNumber || r.Position > MaxJobNumber {
		return domain.NewError(domain.ErrValidation, "Salary, experience or position is too large.")
	}
	return nil
}

type ListJobsRequest struct {
	Keyword string `form:"keyword"`
}

type SearchJobsRequest struct {
	Q string `form:"q"`
}

type JobDTO struct {
	ID              string           `json:"_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Requirements    []string         `json:"requirements"`
	Salary          float64          `json:"salary"`
	Location        string           `json:"location"`
	JobType         string           `json:"jobType"`
	ExperienceLevel int              `json:"experienceLevel"`
	Position        int              `json:"position"`
	CompanyID       string           `json:"companyId"`
	Company         *CompanyDTO      `json:"company,omitempty"`
	CreatedBy       string           `json:"created_by"`
	Applications    []ApplicationDTO `json:"applications"`
	CreatedAt       string           `json:"createdAt"`
}

func NewJobDTO(j *model.Job) JobDTO {
	requirements := []string(j.Requirements)
	if requirements == nil {
		requirements = []string{}
	}
	return JobDTO{
		ID:              j.ID,
		Title:           j.Title,
		Description:     j.Description,
		Requirements:    requirements,
		Salary:          j.Salary,
		Location:        j.Location,
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		Position:        j.Position,
		CompanyID:       j.CompanyID,
		CreatedBy:       j.CreatedBy,
		Applications:    []ApplicationDTO{},
		CreatedAt:       formatTime(j.CreatedAt),
	}
}

func NewJobWithCompanyDTO(j *model.JobWithCompany) JobDTO {
	out := NewJobDTO(&j.Job)
	company := NewCompanyDTO(&j.Company)
	out.Company = &company
	return out
}

func NewJobWithCompanyDTOs(jobs []model.JobWithCompany) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i := range jobs {
		out[i] = NewJobWithCompanyDTO(&jobs[i])
	}
	return out
}

func NewJobDetailDTO(j *model.JobDetail) JobDTO {
	out := NewJobWithCompanyDTO(&j.JobWithCompany)
	out.Applications = make([]ApplicationDTO, len(j.Applications))
	for i := range j.Applications {
		out.Applications[i] = NewApplicationDTO(&j.Applications[i])
	}
	return out
}

type SearchCompanyDTO struct {
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Location string `json:"location"`
}

// SearchResultDTO is the search projection: no requirements, a trimmed-down company
type SearchResultDTO struct {
	ID              string           `json:"_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Location        string           `json:"location"`
	JobType         string           `json:"jobType"`
	Position        int              `json:"position"`
	ExperienceLevel int              `json:"experienceLevel"`
	Salary          float64          `json:"salary"`
	CreatedAt       string           `json:"createdAt"`
	Company         SearchCompanyDTO `json:"company"`
}

func NewSearchResultDTOs(results []model.JobSearchResult) []SearchResultDTO {
	out := make([]SearchResultDTO, len(results))
	for i, r := range results {
		out[i] = SearchResultDTO{
			ID:              r.ID,
			Title:           r.Title,
			Description:     r.Description,
			Location:        r.Location,
			JobType:         r.JobType,
			Position:        r.Position,
			ExperienceLevel: r.ExperienceLevel,
			Salary:          r.Salary,
			CreatedAt:       formatTime(r.CreatedAt),
			Company: SearchCompanyDTO{
				Name:     r.CompanyName,
				Logo:     r.CompanyLogo,
				Location: r.CompanyLocation,
			},
		}
	}
	return out
}
