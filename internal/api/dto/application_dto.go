package dto

import "github.com/cuongbtq/skillbridge/internal/api/model"

type ApplicationDTO struct {
	ID        string  `json:"_id"`
	JobID     string  `json:"jobId"`
	Job       *JobDTO `json:"job,omitempty"`
	Applicant string  `json:"applicant"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

func NewApplicationDTO(a *model.Application) ApplicationDTO {
	return ApplicationDTO{
		ID:        a.ID,
		JobID:     a.JobID,
		Applicant: a.ApplicantID,
		Status:    a.Status,
		CreatedAt: formatTime(a.CreatedAt),
	}
}

func NewApplicationWithJobDTOs(apps []model.ApplicationWithJob) []ApplicationDTO {
	out := make([]ApplicationDTO, len(apps))
	for i := range apps {
		a := NewApplicationDTO(&apps[i].Application)
		job := NewJobWithCompanyDTO(&model.JobWithCompany{Job: apps[i].Job, Company: apps[i].Company})
		a.Job = &job
		out[i] = a
	}
	return out
}
