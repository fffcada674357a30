package dto

import (
	"math"
	"testing"
	"time"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "Go, Rust , SQL", want: []string{"Go", "Rust", "SQL"}},
		{in: "Go,,  ,SQL,", want: []string{"Go", "SQL"}},
		{in: "single", want: []string{"single"}},
		{in: "   ", want: []string{}},
		{in: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.in))
		})
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			Fullname:    " Jane Doe ",
			Email:       " Jane@Example.COM ",
			PhoneNumber: "0123",
			Password:    "pw",
			Role:        "student",
		}
	}

	r := valid()
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, "jane@example.com", r.Email)
	assert.Equal(t, "Jane Doe", r.Fullname)

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantMsg string
	}{
		{name: "missing fullname", mutate: func(r *RegisterRequest) { r.Fullname = "  " }, wantMsg: "All fields are required"},
		{name: "missing password", mutate: func(r *RegisterRequest) { r.Password = "" }, wantMsg: "All fields are required"},
		{name: "missing role", mutate: func(r *RegisterRequest) { r.Role = "" }, wantMsg: "All fields are required"},
		{name: "unknown role", mutate: func(r *RegisterRequest) { r.Role = "admin" }, wantMsg: "Invalid role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			r.Normalize()
			err := r.Validate()
			require.ErrorIs(t, err, domain.ErrValidation)
			msg, _ := domain.Message(err)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestPostJobRequest_Validate(t *testing.T) {
	valid := func() PostJobRequest {
		return PostJobRequest{
			Title:        "Backend Engineer",
			Description:  "Build APIs",
			Requirements: "Go, SQL",
			Salary:       12,
			Location:     "Remote",
			JobType:      "Full-time",
			Experience:   2,
			Position:     1,
			CompanyID:    "c-1",
		}
	}

	r := valid()
	require.NoError(t, r.Validate())

	r = valid()
	r.Salary, r.Experience, r.Position = MaxSalary, MaxJobNumber, MaxJobNumber
	require.NoError(t, r.Validate(), "column maximums are accepted")

	tests := []struct {
		name    string
		mutate  func(*PostJobRequest)
		wantMsg string
	}{
		{name: "blank title", mutate: func(r *PostJobRequest) { r.Title = " " }, wantMsg: "Something is missing."},
		{name: "blank description", mutate: func(r *PostJobRequest) { r.Description = "" }, wantMsg: "Something is missing."},
		{name: "only commas in requirements", mutate: func(r *PostJobRequest) { r.Requirements = " , ," }, wantMsg: "Something is missing."},
		{name: "zero salary", mutate: func(r *PostJobRequest) { r.Salary = 0 }, wantMsg: "Something is missing."},
		{name: "blank location", mutate: func(r *PostJobRequest) { r.Location = "" }, wantMsg: "Something is missing."},
		{name: "blank job type", mutate: func(r *PostJobRequest) { r.JobType = "" }, wantMsg: "Something is missing."},
		{name: "zero experience", mutate: func(r *PostJobRequest) { r.Experience = 0 }, wantMsg: "Something is missing."},
		{name: "zero position", mutate: func(r *PostJobRequest) { r.Position = 0 }, wantMsg: "Something is missing."},
		{name: "blank company", mutate: func(r *PostJobRequest) { r.CompanyID = "" }, wantMsg: "Something is missing."},
		{name: "negative salary", mutate: func(r *PostJobRequest) { r.Salary = -5 }, wantMsg: "Salary, experience and position must be positive."},
		{name: "salary above column precision", mutate: func(r *PostJobRequest) { r.Salary = 1e13 }, wantMsg: "Salary, experience or position is too large."},
		{name: "salary just past the bound", mutate: func(r *PostJobRequest) { r.Salary = 1e12 }, wantMsg: "Salary, experience or position is too large."},
		{name: "experience above int4", mutate: func(r *PostJobRequest) { r.Experience = math.MaxInt32 + 1 }, wantMsg: "Salary, experience or position is too large."},
		{name: "position above int4", mutate: func(r *PostJobRequest) { r.Position = math.MaxInt32 + 1 }, wantMsg: "Salary, experience or position is too large."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			require.ErrorIs(t, err, domain.ErrValidation)
			msg, _ := domain.Message(err)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestRegisterCompanyRequest_Validate(t *testing.T) {
	r := RegisterCompanyRequest{CompanyName: "  Acme "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "Acme", r.CompanyName)

	r = RegisterCompanyRequest{CompanyName: "   "}
	err := r.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)
	msg, _ := domain.Message(err)
	assert.Equal(t, "Company name is required.", msg)
}

func TestUpdateCompanyRequest_Apply(t *testing.T) {
	c := model.Company{Name: "Acme", Description: "old", Website: "https://acme.test", Location: "Hanoi"}

	req := UpdateCompanyRequest{Description: " new ", Location: "  "}
	req.Apply(&c)

	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "new", c.Description)
	assert.Equal(t, "https://acme.test", c.Website)
	assert.Equal(t, "Hanoi", c.Location)
}

func TestNewUserDTO(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &model.User{
		ID:           "u-1",
		Fullname:     "Jane",
		Email:        "jane@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleStudent,
		Skills:       pq.StringArray{"Go"},
		ResumeURL:    "https://cdn.test/cv.pdf",
		ResumeName:   "cv.pdf",
		CreatedAt:    created,
	}

	out := NewUserDTO(u)
	assert.Equal(t, "u-1", out.ID)
	assert.Equal(t, []string{"Go"}, out.Profile.Skills)
	assert.Equal(t, "cv.pdf", out.Profile.ResumeOriginalName)
	assert.Equal(t, "2025-01-02T03:04:05Z", out.CreatedAt)
	assert.Empty(t, out.UpdatedAt)

	empty := NewUserDTO(&model.User{})
	assert.NotNil(t, empty.Profile.Skills)
}

func TestNewJobDetailDTO(t *testing.T) {
	detail := &model.JobDetail{
		JobWithCompany: model.JobWithCompany{
			Job:     model.Job{ID: "j-1", Title: "Backend Engineer", CompanyID: "c-1"},
			Company: model.Company{ID: "c-1", Name: "Acme"},
		},
		Applications: []model.Application{{ID: "a-1", JobID: "j-1", ApplicantID: "u-1", Status: domain.ApplicationPending}},
	}

	out := NewJobDetailDTO(detail)
	require.NotNil(t, out.Company)
	assert.Equal(t, "Acme", out.Company.Name)
	assert.Equal(t, []string{}, out.Requirements)
	require.Len(t, out.Applications, 1)
	assert.Equal(t, "u-1", out.Applications[0].Applicant)
}
