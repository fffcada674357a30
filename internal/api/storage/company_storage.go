package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
)

const companyColumns = `
	id, name, description, website, location, logo_url, owner_id, created_at, updated_at`

func (s *Storage) CreateCompany(ctx context.Context, company *model.Company) error {
	query := `
		INSERT INTO companies (
			id, name, description, website, location, logo_url, owner_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		company.ID,
		company.Name,
		company.Description,
		company.Website,
		company.Location,
		company.LogoURL,
		company.OwnerID,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		return mapError("create company", err)
	}

	return nil
}

func (s *Storage) CompanyNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM companies WHERE name = $1)`, name); err != nil {
		return false, mapError("check company name", err)
	}
	return exists, nil
}

func (s *Storage) GetCompanyByID(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	query := `SELECT` + companyColumns + ` FROM companies WHERE id = $1`

	if err := s.db.GetContext(ctx, &company, query, id); err != nil {
		return nil, mapError("get company", err)
	}

	return &company, nil
}

func (s *Storage) ListCompaniesByOwner(ctx context.Context, ownerID string) ([]model.Company, error) {
	query := `SELECT` + companyColumns + `
		FROM companies
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	companies := []model.Company{}
	if err := s.db.SelectContext(ctx, &companies, query, ownerID); err != nil {
		return nil, mapError("list companies", err)
	}

	return companies, nil
}

func (s *Storage) UpdateCompany(ctx context.Context, company *model.Company) error {
	query := `
		UPDATE companies SET
			name = $2, description = $3, website = $4, location = $5,
			logo_url = $6, updated_at = $7
		WHERE id = $1
	`

	res, err := s.db.ExecContext(
		ctx,
		query,
		company.ID,
		company.Name,
		company.Description,
		company.Website,
		company.Location,
		company.LogoURL,
		company.UpdatedAt,
	)
	if err != nil {
		return mapError("update company", err)
	}

	return requireAffected(res, "update company")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to %s: %w", op, domain.ErrNotFound)
	}
	return nil
}
