package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/vendorshub/backend/internal/api/middleware"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

// DefaultMaxUploadBytes caps a multipart request body
const DefaultMaxUploadBytes = 16 << 20

const imageField = "image"

var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

var errUploadTooLarge = errors.New("upload too large")

// Uploads parses multipart bodies and stores their image part
type Uploads struct {
	store    providers.ImageStore
	maxBytes int64
}

// NewUploads creates a new upload helper. A non-positive maxBytes uses DefaultMaxUploadBytes.
func NewUploads(store providers.ImageStore, maxBytes int64) *Uploads {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Uploads{store: store, maxBytes: maxBytes}
}

// parseMultipart reports whether r carries a multipart form and parses it under the size limit
func (u *Uploads) parseMultipart(w http.ResponseWriter, r *http.Request) (bool, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return false, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes)
	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return true, errUploadTooLarge
		}
		return true, apperrors.NewValidationError("invalid multipart form")
	}
	return true, nil
}

// imageUpload is a validated image part that has not been stored yet
type imageUpload struct {
	store       providers.ImageStore
	header      *multipart.FileHeader
	key         string
	contentType string
}

// pendingImage validates the image part of a parsed form under the key
// prefix_<filename>. It returns nil when no file was sent.
func (u *Uploads) pendingImage(r *http.Request, prefix string) (*imageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[imageField]
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]

	name := secureFilename(header.Filename)
	if name == "" {
		return nil, nil
	}

	contentType, ok := allowedImageTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, apperrors.NewValidationError("Invalid file type. Allowed types: png, jpg, jpeg, gif")
	}

	if u.store == nil {
		return nil, apperrors.NewInternalError("image storage is not configured", nil)
	}

	return &imageUpload{
		store:       u.store,
		header:      header,
		key:         fmt.Sprintf("%s_%s", prefix, name),
		contentType: contentType,
	}, nil
}

// save writes the image to the store and returns its reference
func (img *imageUpload) save(ctx context.Context) (*string, error) {
	file, err := img.header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid image upload")
	}
	defer file.Close()

	ref, err := img.store.Save(ctx, img.key, img.contentType, file)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to store image", err)
	}
	return &ref, nil
}

// secureFilename keeps the base name and replaces anything outside [A-Za-z0-9._-]
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
	name = strings.Trim(name, "._")
	return name
}

func (u *Uploads) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errUploadTooLarge) {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size is %dMB", u.maxBytes>>20))
		return
	}
	respondWithAppError(w, r, err)
}

// identityOrReject writes 401 when the auth middleware attached no identity
func identityOrReject(w http.ResponseWriter, r *http.Request) (entities.Identity, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
	}
	return identity, ok
}
