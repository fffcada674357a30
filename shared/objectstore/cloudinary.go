package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Resource types understood by Cloudinary
const (
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

// ErrNotConfigured is returned by Put on a store without credentials
var ErrNotConfigured = errors.New("object storage is not configured")

// Config holds Cloudinary credentials
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Object describes where an upload should land
type Object struct {
	Folder       string
	PublicID     string
	ResourceType string
}

// Cloudinary uploads files and returns their public HTTPS URL
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	logger *slog.Logger
}

// NewCloudinary builds a client; an empty cloud name yields a store whose Put fails
// with ErrNotConfigured
func NewCloudinary(config *Config, logger *slog.Logger) (*Cloudinary, error) {
	if config.CloudName == "" {
		logger.Warn("Cloudinary is not configured, file uploads will be rejected")
		return &Cloudinary{logger: logger}, nil
	}

	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloudinary client: %w", err)
	}

	logger.Info("Cloudinary client initialized",
		slog.String("cloud_name", config.CloudName),
	)

	return &Cloudinary{cld: cld, logger: logger}, nil
}

// Put uploads r and returns the secure URL of the stored object
func (c *Cloudinary) Put(ctx context.Context, r io.Reader, obj Object) (string, error) {
	if c.cld == nil {
		return "", ErrNotConfigured
	}

	resourceType := obj.ResourceType
	if resourceType == "" {
		resourceType = ResourceImage
	}

	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       obj.Folder,
		PublicID:     obj.PublicID,
		ResourceType: resourceType,
		Overwrite:    api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("failed to upload to Cloudinary: %s", resp.Error.Message)
	}

	c.logger.Debug("Uploaded object",
		slog.String("public_id", resp.PublicID),
		slog.String("resource_type", resourceType),
		slog.Int("bytes", resp.Bytes),
	)

	return resp.SecureURL, nil
}
