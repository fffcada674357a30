// Package upload validates multipart files and hands them to object storage.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/shared/objectstore"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize caps a single uploaded file
const DefaultMaxSize int64 = 5 << 20

// sniffLen is how much of the file mimetype needs to identify it
const sniffLen = 3072

// ErrUnsupportedType is returned for anything that is not an image or a PDF
var ErrUnsupportedType = domain.NewError(domain.ErrValidation, "Only image and PDF files are allowed")

// Store persists a file and returns its public URL
type Store interface {
	Put(ctx context.Context, r io.Reader, obj objectstore.Object) (string, error)
}

// Purpose names what the file is for; it becomes part of the object's public id
type Purpose string

const (
	PurposeProfilePhoto Purpose = "profile"
	PurposeResume       Purpose = "resume"
	PurposeLogo         Purpose = "logo"
)

// Folders maps each purpose to a storage folder
type Folders struct {
	Profiles string
	Resumes  string
	Logos    string
}

// accepts reports whether a file of the given MIME type may be used for p
func (p Purpose) accepts(mime string) bool {
	if p == PurposeResume {
		return mime == "application/pdf"
	}
	return strings.HasPrefix(mime, "image/")
}

func (p Purpose) rejection() error {
	switch p {
	case PurposeResume:
		return domain.NewError(domain.ErrValidation, "Resume must be a PDF file")
	case PurposeLogo:
		return domain.NewError(domain.ErrValidation, "Logo must be an image")
	default:
		return domain.NewError(domain.ErrValidation, "Profile photo must be an image")
	}
}

func (f Folders) forPurpose(p Purpose) string {
	switch p {
	case PurposeResume:
		return f.Resumes
	case PurposeLogo:
		return f.Logos
	default:
		return f.Profiles
	}
}

// File is a stored upload
type File struct {
	URL          string
	OriginalName string
	MIME         string
}

// Uploader checks type and size before delegating to a Store
type Uploader struct {
	store   Store
	folders Folders
	maxSize int64
	now     func() time.Time
}

// NewUploader creates an Uploader; maxSize <= 0 means DefaultMaxSize
func NewUploader(store Store, folders Folders, maxSize int64) *Uploader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Uploader{
		store:   store,
		folders: folders,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Save validates fh and uploads it under ownerID
func (u *Uploader) Save(ctx context.Context, fh *multipart.FileHeader, ownerID string, purpose Purpose) (*File, error) {
	if fh.Size > u.maxSize {
		return nil, domain.NewError(domain.ErrValidation, fmt.Sprintf("File %q exceeds the %d byte limit", fh.Filename, u.maxSize))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	body, mime, err := Sniff(f)
	if err != nil {
		return nil, err
	}
	if !purpose.accepts(mime) {
		return nil, purpose.rejection()
	}

	resourceType := objectstore.ResourceImage
	if mime == "application/pdf" {
		resourceType = objectstore.ResourceRaw
	}

	url, err := u.store.Put(ctx, body, objectstore.Object{
		Folder:       u.folders.forPurpose(purpose),
		PublicID:     fmt.Sprintf("%s_%s_%d", ownerID, purpose, u.now().UnixMilli()),
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	return &File{URL: url, OriginalName: fh.Filename, MIME: mime}, nil
}

// Sniff detects r's content type from its leading bytes and returns a reader that
// still yields the whole content. Only image/* and application/pdf pass.
func Sniff(r io.Reader) (io.Reader, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !Allowed(detected) {
		return nil, detected.String(), ErrUnsupportedType
	}

	mime := detected.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}

	return io.MultiReader(bytes.NewReader(head), r), mime, nil
}

// Allowed reports whether the detected type may be uploaded
func Allowed(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("application/pdf") || strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
