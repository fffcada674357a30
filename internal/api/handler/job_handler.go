package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/dto"
	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errJobNotFound = domain.NewError(domain.ErrNotFound, "Job not found.")

// JobHandler handles job postings, listing and search
type JobHandler struct {
	base
}

func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{base: newBase(deps)}
}

// Post handles POST /job/post
func (h *JobHandler) Post(c *gin.Context) {
	ctx := c.Request.Context()
	caller := CurrentUser(c)

	var req dto.PostJobRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !validID(req.CompanyID) {
		respondError(c, h.logger, errCompanyNotFound)
		return
	}
	company, err := h.store.GetCompanyByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = errCompanyNotFound
		}
		respondError(c, h.logger, err)
		return
	}
	if company.OwnerID != caller.ID {
		respondError(c, h.logger, domain.NewError(domain.ErrForbidden, "You can only post jobs for your own company."))
		return
	}

	job := model.Job{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    dto.SplitList(req.Requirements),
		Salary:          req.Salary,
		Location:        req.Location,
		JobType:         req.JobType,
		ExperienceLevel: req.Experience,
		Position:        req.Position,
		CompanyID:       company.ID,
		CreatedBy:       caller.ID,
		CreatedAt:       h.now(),
	}

	if err := h.store.CreateJob(ctx, &job); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Job posted",
		slog.String("job_id", job.ID),
		slog.String("company_id", company.ID),
	)
	h.publish(ctx, activity.TypeJobPosted, caller.ID, job.ID, job.Title)

	out := dto.NewJobWithCompanyDTO(&model.JobWithCompany{Job: job, Company: *company})
	respond(c, http.StatusCreated, gin.H{
		"message": "New job created successfully.",
		"job":     out,
	})
}

// List handles GET /job/get?keyword=
func (h *JobHandler) List(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.logger, domain.NewError(domain.ErrValidation, "Invalid query parameters"))
		return
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), req.Keyword)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"jobs": dto.NewJobWithCompanyDTOs(jobs),
	})
}

// ListMine handles GET /job/getadminjobs: jobs the caller posted
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.store.ListJobsByCreator(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"jobs": dto.NewJobWithCompanyDTOs(jobs),
	})
}

// Get handles GET /job/get/:id
func (h *JobHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		respondError(c, h.logger, errJobNotFound)
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = errJobNotFound
		}
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"job": dto.NewJobDetailDTO(job),
	})
}

// Search handles GET /job/search?q=
func (h *JobHandler) Search(c *gin.Context) {
	var req dto.SearchJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.logger, domain.NewError(domain.ErrValidation, "Invalid query parameters"))
		return
	}

	results, err := h.store.SearchJobs(c.Request.Context(), req.Q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"jobs": dto.NewSearchResultDTOs(results),
	})
}
