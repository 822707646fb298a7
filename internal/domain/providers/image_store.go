package providers

import (
	"context"
	"io"
)

// ImageStore persists uploaded images and hands back an opaque reference
type ImageStore interface {
	// Save stores the content under key and returns the reference to persist
	Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}
