package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/dto"
	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/cuongbtq/skillbridge/internal/api/upload"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const duplicateCompanyMessage = "You can't register the same company twice."

var errCompanyNotFound = domain.NewError(domain.ErrNotFound, "Company not found.")

// CompanyHandler handles company registration and maintenance
type CompanyHandler struct {
	base
}

func NewCompanyHandler(deps *Dependencies) *CompanyHandler {
	return &CompanyHandler{base: newBase(deps)}
}

// Register handles POST /company/register
func (h *CompanyHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	owner := CurrentUser(c)

	var req dto.RegisterCompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	exists, err := h.store.CompanyNameExists(ctx, req.CompanyName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if exists {
		respondError(c, h.logger, domain.NewError(domain.ErrDuplicate, duplicateCompanyMessage))
		return
	}

	now := h.now()
	company := model.Company{
		ID:        uuid.NewString(),
		Name:      req.CompanyName,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateCompany(ctx, &company); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			err = domain.WithMessage(err, duplicateCompanyMessage)
		}
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Company registered",
		slog.String("company_id", company.ID),
		slog.String("owner_id", owner.ID),
	)
	h.publish(ctx, activity.TypeCompanyRegistered, owner.ID, company.ID, company.Name)

	respond(c, http.StatusCreated, gin.H{
		"message": "Company registered successfully.",
		"company": dto.NewCompanyDTO(&company),
	})
}

// List handles GET /company/get: the caller's companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.store.ListCompaniesByOwner(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if len(companies) == 0 {
		respondError(c, h.logger, domain.NewError(domain.ErrNotFound, "No companies found for this user."))
		return
	}

	respond(c, http.StatusOK, gin.H{
		"companies": dto.NewCompanyDTOs(companies),
	})
}

// Get handles GET /company/get/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.findCompany(c, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"company": dto.NewCompanyDTO(company),
	})
}

// Update handles PUT /company/update/:id; only the owner may update
func (h *CompanyHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	caller := CurrentUser(c)

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}

	company, err := h.findCompany(c, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if company.OwnerID != caller.ID {
		respondError(c, h.logger, domain.NewError(domain.ErrForbidden, "You can only update your own company."))
		return
	}

	previousName := company.Name
	req.Apply(company)

	if company.Name != previousName {
		exists, err := h.store.CompanyNameExists(ctx, company.Name)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		if exists {
			respondError(c, h.logger, domain.NewError(domain.ErrDuplicate, duplicateCompanyMessage))
			return
		}
	}

	fh := optionalFile(c, "logo")
	if fh == nil {
		fh = optionalFile(c, "file")
	}
	if fh != nil {
		file, err := h.saveFile(ctx, fh, company.ID, upload.PurposeLogo)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		company.LogoURL = file.URL
	}

	company.UpdatedAt = h.now()
	if err := h.store.UpdateCompany(ctx, company); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			err = domain.WithMessage(err, duplicateCompanyMessage)
		case errors.Is(err, domain.ErrNotFound):
			err = errCompanyNotFound
		}
		respondError(c, h.logger, err)
		return
	}

	h.publish(ctx, activity.TypeCompanyUpdated, caller.ID, company.ID, company.Name)

	respond(c, http.StatusOK, gin.H{
		"message": "Company information updated successfully.",
		"company": dto.NewCompanyDTO(company),
	})
}

// findCompany treats a malformed id like a missing company
func (h *CompanyHandler) findCompany(c *gin.Context, id string) (*model.Company, error) {
	if !validID(id) {
		return nil, errCompanyNotFound
	}

	company, err := h.store.GetCompanyByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errCompanyNotFound
		}
		return nil, err
	}
	return company, nil
}
