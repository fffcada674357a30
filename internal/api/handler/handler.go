package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/api/auth"
	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/cuongbtq/skillbridge/internal/api/storage"
	"github.com/cuongbtq/skillbridge/internal/api/upload"
)

// Store is the persistence the handlers need; *storage.Storage implements it
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserProfile(ctx context.Context, user *model.User) error
	ListActivity(ctx context.Context, filter storage.ActivityFilter) ([]model.ActivityEvent, error)

	CreateCompany(ctx context.Context, company *model.Company) error
	CompanyNameExists(ctx context.Context, name string) (bool, error)
	GetCompanyByID(ctx context.Context, id string) (*model.Company, error)
	ListCompaniesByOwner(ctx context.Context, ownerID string) ([]model.Company, error)
	UpdateCompany(ctx context.Context, company *model.Company) error

	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, id string) (*model.JobDetail, error)
	ListJobs(ctx context.Context, keyword string) ([]model.JobWithCompany, error)
	ListJobsByCreator(ctx context.Context, userID string) ([]model.JobWithCompany, error)
	SearchJobs(ctx context.Context, q string) ([]model.JobSearchResult, error)

	CreateApplication(ctx context.Context, app *model.Application) error
	ApplicationExists(ctx context.Context, jobID, applicantID string) (bool, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error)
}

// FileSaver stores an uploaded file; *upload.Uploader implements it
type FileSaver interface {
	Save(ctx context.Context, fh *multipart.FileHeader, ownerID string, purpose upload.Purpose) (*upload.File, error)
}

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Store     Store
	Tokens    *auth.TokenService
	Passwords *auth.PasswordHasher
	Revoker   auth.Revoker
	// Uploader may be nil, in which case requests carrying files fail
	Uploader  FileSaver
	Publisher activity.Publisher
	Cookie    CookieConfig
	// HealthCheck reports whether the database is reachable
	HealthCheck func(ctx context.Context) error
	Now         func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// base carries what every handler shares
type base struct {
	logger    *slog.Logger
	store     Store
	uploader  FileSaver
	publisher activity.Publisher
	now       func() time.Time
}

func newBase(deps *Dependencies) base {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	return base{
		logger:    deps.Logger,
		store:     deps.Store,
		uploader:  deps.Uploader,
		publisher: publisher,
		now:       deps.now,
	}
}

// publish is best-effort: the write already succeeded, so failures are only logged
func (b *base) publish(ctx context.Context, eventType, actorID, entityID, summary string) {
	event := activity.NewEvent(eventType, actorID, entityID, summary)
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.logger.Warn("Failed to publish activity event",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID),
			slog.Any("error", err),
		)
	}
}

// saveFile uploads fh, turning store failures into a client-safe message
func (b *base) saveFile(ctx context.Context, fh *multipart.FileHeader, ownerID string, purpose upload.Purpose) (*upload.File, error) {
	if b.uploader == nil {
		return nil, domain.NewError(domain.ErrUpstream, "File uploads are not configured")
	}

	file, err := b.uploader.Save(ctx, fh, ownerID, purpose)
	if err != nil {
		if _, ok := domain.Message(err); !ok && errors.Is(err, domain.ErrUpstream) {
			return nil, domain.WithMessage(err, "File upload failed")
		}
		return nil, err
	}

	b.logger.Info("File uploaded",
		slog.String("owner_id", ownerID),
		slog.String("purpose", string(purpose)),
		slog.String("mime", file.MIME),
	)
	return file, nil
}
