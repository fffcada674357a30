package dto

import (
	"strings"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
)

type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName" form:"companyName"`
}

func (r *RegisterCompanyRequest) Validate() error {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	if r.CompanyName == "" {
		return domain.NewError(domain.ErrValidation, "Company name is required.")
	}
	return nil
}

// UpdateCompanyRequest fields are optional; blank means unchanged
type UpdateCompanyRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Website     string `form:"website" json:"website"`
	Location    string `form:"location" json:"location"`
}

// Apply copies the provided fields onto c
func (r *UpdateCompanyRequest) Apply(c *model.Company) {
	if v := strings.TrimSpace(r.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(r.Description); v != "" {
		c.Description = v
	}
	if v := strings.TrimSpace(r.Website); v != "" {
		c.Website = v
	}
	if v := strings.TrimSpace(r.Location); v != "" {
		c.Location = v
	}
}

type CompanyDTO struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Logo        string `json:"logo"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func NewCompanyDTO(c *model.Company) CompanyDTO {
	return CompanyDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Location:    c.Location,
		Logo:        c.LogoURL,
		UserID:      c.OwnerID,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func NewCompanyDTOs(companies []model.Company) []CompanyDTO {
	out := make([]CompanyDTO, len(companies))
	for i := range companies {
		out[i] = NewCompanyDTO(&companies[i])
	}
	return out
}
