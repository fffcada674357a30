package dto

import (
	"strings"
	"time"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
)

type RegisterRequest struct {
	Fullname    string `json:"fullname" form:"fullname"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Password    string `json:"password" form:"password"`
	Role        string `json:"role" form:"role"`
}

// Normalize trims the text fields and lower-cases the email
func (r *RegisterRequest) Normalize() {
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Email = NormalizeEmail(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Role = strings.TrimSpace(r.Role)
}

func (r *RegisterRequest) Validate() error {
	if r.Fullname == "" || r.Email == "" || r.PhoneNumber == "" || r.Password == "" || r.Role == "" {
		return domain.NewError(domain.ErrValidation, "All fields are required")
	}
	if !domain.ValidRole(r.Role) {
		return domain.NewError(domain.ErrValidation, "Invalid role")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Role = strings.TrimSpace(r.Role)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" || r.Role == "" {
		return domain.NewError(domain.ErrValidation, "All fields are required")
	}
	return nil
}

// UpdateProfileRequest carries the optional profile fields; blank means unchanged
type UpdateProfileRequest struct {
	Fullname    string `form:"fullname" json:"fullname"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
	Bio         string `form:"bio" json:"bio"`
	Skills      string `form:"skills" json:"skills"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitList splits a comma-separated value, trimming entries and dropping blanks
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ProfileDTO struct {
	Bio                string   `json:"bio"`
	Skills             []string `json:"skills"`
	Resume             string   `json:"resume"`
	ResumeOriginalName string   `json:"resumeOriginalName"`
	ProfilePhoto       string   `json:"profilePhoto"`
}

// UserDTO never carries the password hash
type UserDTO struct {
	ID          string     `json:"_id"`
	Fullname    string     `json:"fullname"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	Role        string     `json:"role"`
	Profile     ProfileDTO `json:"profile"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

func NewUserDTO(u *model.User) UserDTO {
	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}
	return UserDTO{
		ID:          u.ID,
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Profile: ProfileDTO{
			Bio:                u.Bio,
			Skills:             skills,
			Resume:             u.ResumeURL,
			ResumeOriginalName: u.ResumeName,
			ProfilePhoto:       u.PhotoURL,
		},
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

type ActivityDTO struct {
	ID        string `json:"_id"`
	EventID   string `json:"eventId"`
	Type      string `json:"type"`
	EntityID  string `json:"entityId"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"createdAt"`
}

func NewActivityDTO(e *model.ActivityEvent) ActivityDTO {
	return ActivityDTO{
		ID:        e.ID,
		EventID:   e.EventID,
		Type:      e.EventType,
		EntityID:  e.EntityID,
		Summary:   e.Summary,
		CreatedAt: formatTime(e.CreatedAt),
	}
}

type ListActivityRequest struct {
	Limit  int    `form:"limit"`
	Cursor string `form:"cursor"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
