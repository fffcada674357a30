package storage

import (
	"context"

	"github.com/cuongbtq/skillbridge/internal/api/model"
)

const userColumns = `
	id, fullname, email, phone_number, password_hash, role,
	bio, skills, photo_url, resume_url, resume_name, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, fullname, email, phone_number, password_hash, role,
			bio, skills, photo_url, resume_url, resume_name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Fullname,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.Role,
		user.Bio,
		user.Skills,
		user.PhotoURL,
		user.ResumeURL,
		user.ResumeName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapError("create user", err)
	}

	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError("get user", err)
	}

	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, mapError("get user by email", err)
	}

	return &user, nil
}

func (s *Storage) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email); err != nil {
		return false, mapError("check email", err)
	}
	return exists, nil
}

// UpdateUserProfile writes the mutable profile columns
func (s *Storage) UpdateUserProfile(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			fullname = $2, phone_number = $3, bio = $4, skills = $5,
			photo_url = $6, resume_url = $7, resume_name = $8, updated_at = $9
		WHERE id = $1
	`

	res, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Fullname,
		user.PhoneNumber,
		user.Bio,
		user.Skills,
		user.PhotoURL,
		user.ResumeURL,
		user.ResumeName,
		user.UpdatedAt,
	)
	if err != nil {
		return mapError("update user", err)
	}

	return requireAffected(res, "update user")
}
