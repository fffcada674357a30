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

const duplicateApplicationMessage = "You have already applied for this job."

// ApplicationHandler handles students applying to jobs
type ApplicationHandler struct {
	base
}

func NewApplicationHandler(deps *Dependencies) *ApplicationHandler {
	return &ApplicationHandler{base: newBase(deps)}
}

// Apply handles GET /application/apply/:id
func (h *ApplicationHandler) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	applicant := CurrentUser(c)

	jobID := c.Param("id")
	if !validID(jobID) {
		respondError(c, h.logger, errJobNotFound)
		return
	}

	job, err := h.store.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = errJobNotFound
		}
		respondError(c, h.logger, err)
		return
	}

	exists, err := h.store.ApplicationExists(ctx, job.ID, applicant.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if exists {
		respondError(c, h.logger, domain.NewError(domain.ErrDuplicate, duplicateApplicationMessage))
		return
	}

	app := model.Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		ApplicantID: applicant.ID,
		Status:      domain.ApplicationPending,
		CreatedAt:   h.now(),
	}
	if err := h.store.CreateApplication(ctx, &app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			err = domain.WithMessage(err, duplicateApplicationMessage)
		}
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Application submitted",
		slog.String("application_id", app.ID),
		slog.String("job_id", job.ID),
	)
	h.publish(ctx, activity.TypeApplicationSubmitted, applicant.ID, app.ID, job.Title)

	respond(c, http.StatusCreated, gin.H{
		"message":     "Job applied successfully.",
		"application": dto.NewApplicationDTO(&app),
	})
}

// List handles GET /application/get: the caller's applications with job and company
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.store.ListApplicationsByApplicant(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"applications": dto.NewApplicationWithJobDTOs(apps),
	})
}
