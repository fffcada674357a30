// Package storagetest provides an in-memory store with the same semantics as the
// Postgres storage, for handler and router tests.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/cuongbtq/skillbridge/internal/api/storage"
	"github.com/lib/pq"
)

type Memory struct {
	mu           sync.RWMutex
	users        map[string]model.User
	companies    map[string]model.Company
	jobs         map[string]model.Job
	applications map[string]model.Application
	activity     []model.ActivityEvent

	// Err, when set, is returned by every call
	Err error
}

func NewMemory() *Memory {
	return &Memory{
		users:        map[string]model.User{},
		companies:    map[string]model.Company{},
		jobs:         map[string]model.Job{},
		applications: map[string]model.Application{},
	}
}

func (m *Memory) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w", domain.ErrDuplicate)
		}
	}
	m.users[user.ID] = cloneUser(*user)
	return nil
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to get user: %w", domain.ErrNotFound)
	}
	u = cloneUser(u)
	return &u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, u := range m.users {
		if u.Email == email {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("failed to get user by email: %w", domain.ErrNotFound)
}

func (m *Memory) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if m.Err == nil {
		return false, nil
	}
	return false, err
}

func (m *Memory) UpdateUserProfile(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("failed to update user: %w", domain.ErrNotFound)
	}
	m.users[user.ID] = cloneUser(*user)
	return nil
}

func (m *Memory) CreateCompany(_ context.Context, company *model.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for _, c := range m.companies {
		if c.Name == company.Name {
			return fmt.Errorf("failed to create company: %w", domain.ErrDuplicate)
		}
	}
	m.companies[company.ID] = *company
	return nil
}

func (m *Memory) CompanyNameExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return false, m.Err
	}

	for _, c := range m.companies {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) GetCompanyByID(_ context.Context, id string) (*model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	c, ok := m.companies[id]
	if !ok {
		return nil, fmt.Errorf("failed to get company: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (m *Memory) ListCompaniesByOwner(_ context.Context, ownerID string) ([]model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []model.Company{}
	for _, c := range m.companies {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateCompany(_ context.Context, company *model.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.companies[company.ID]; !ok {
		return fmt.Errorf("failed to update company: %w", domain.ErrNotFound)
	}
	for id, c := range m.companies {
		if id != company.ID && c.Name == company.Name {
			return fmt.Errorf("failed to update company: %w", domain.ErrDuplicate)
		}
	}
	m.companies[company.ID] = *company
	return nil
}

func (m *Memory) CreateJob(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.companies[job.CompanyID]; !ok {
		return fmt.Errorf("failed to create job: company %s missing", job.CompanyID)
	}
	j := *job
	j.Requirements = append(pq.StringArray{}, job.Requirements...)
	m.jobs[job.ID] = j
	return nil
}

func (m *Memory) GetJobByID(_ context.Context, id string) (*model.JobDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("failed to get job: %w", domain.ErrNotFound)
	}

	detail := &model.JobDetail{
		JobWithCompany: model.JobWithCompany{Job: j, Company: m.companies[j.CompanyID]},
		Applications:   []model.Application{},
	}
	for _, a := range m.applications {
		if a.JobID == id {
			detail.Applications = append(detail.Applications, a)
		}
	}
	sort.Slice(detail.Applications, func(a, b int) bool {
		x, y := detail.Applications[a], detail.Applications[b]
		return newerFirst(x.CreatedAt, x.ID, y.CreatedAt, y.ID)
	})
	return detail, nil
}

func (m *Memory) ListJobs(_ context.Context, keyword string) ([]model.JobWithCompany, error) {
	kw := strings.ToLower(keyword)
	return m.selectJobs(func(j model.Job, _ model.Company) bool {
		return contains(j.Title, kw) || contains(j.Description, kw)
	})
}

func (m *Memory) ListJobsByCreator(_ context.Context, userID string) ([]model.JobWithCompany, error) {
	return m.selectJobs(func(j model.Job, _ model.Company) bool {
		return j.CreatedBy == userID
	})
}

func (m *Memory) SearchJobs(_ context.Context, q string) ([]model.JobSearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.JobSearchResult{}, nil
	}

	q = strings.ToLower(q)
	jobs, err := m.selectJobs(func(j model.Job, c model.Company) bool {
		return contains(j.Title, q) || contains(j.Description, q) || contains(j.Location, q) || contains(c.Name, q)
	})
	if err != nil {
		return nil, err
	}
	if len(jobs) > storage.SearchResultLimit {
		jobs = jobs[:storage.SearchResultLimit]
	}

	out := make([]model.JobSearchResult, len(jobs))
	for i, j := range jobs {
		out[i] = model.JobSearchResult{
			ID:              j.ID,
			Title:           j.Title,
			Description:     j.Description,
			Location:        j.Location,
			JobType:         j.JobType,
			Position:        j.Position,
			ExperienceLevel: j.ExperienceLevel,
			Salary:          j.Salary,
			CreatedAt:       j.CreatedAt,
			CompanyName:     j.Company.Name,
			CompanyLogo:     j.Company.LogoURL,
			CompanyLocation: j.Company.Location,
		}
	}
	return out, nil
}

func (m *Memory) selectJobs(match func(model.Job, model.Company) bool) ([]model.JobWithCompany, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []model.JobWithCompany{}
	for _, j := range m.jobs {
		c, ok := m.companies[j.CompanyID]
		if !ok {
			continue
		}
		if match(j, c) {
			out = append(out, model.JobWithCompany{Job: j, Company: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (m *Memory) CreateApplication(_ context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for _, a := range m.applications {
		if a.JobID == app.JobID && a.ApplicantID == app.ApplicantID {
			return fmt.Errorf("failed to create application: %w", domain.ErrDuplicate)
		}
	}
	m.applications[app.ID] = *app
	return nil
}

func (m *Memory) ApplicationExists(_ context.Context, jobID, applicantID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return false, m.Err
	}

	for _, a := range m.applications {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ListApplicationsByApplicant(_ context.Context, applicantID string) ([]model.ApplicationWithJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []model.ApplicationWithJob{}
	for _, a := range m.applications {
		if a.ApplicantID != applicantID {
			continue
		}
		j := m.jobs[a.JobID]
		out = append(out, model.ApplicationWithJob{Application: a, Job: j, Company: m.companies[j.CompanyID]})
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

// AddActivity records an activity event the way the worker would
func (m *Memory) AddActivity(events ...model.ActivityEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = append(m.activity, events...)
}

func (m *Memory) ListActivity(_ context.Context, filter storage.ActivityFilter) ([]model.ActivityEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []model.ActivityEvent{}
	for _, e := range m.activity {
		if e.ActorID != filter.ActorID {
			continue
		}
		if c := filter.Cursor; c != nil && !newerFirst(c.CreatedAt, c.ID, e.CreatedAt, e.ID) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	if len(out) > filter.PageSize+1 {
		out = out[:filter.PageSize+1]
	}
	return out, nil
}

// newerFirst orders by (createdAt, id) descending
func newerFirst(at1 time.Time, id1 string, at2 time.Time, id2 string) bool {
	if !at1.Equal(at2) {
		return at1.After(at2)
	}
	return id1 > id2
}

func contains(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}

func cloneUser(u model.User) model.User {
	u.Skills = append(pq.StringArray{}, u.Skills...)
	return u
}
