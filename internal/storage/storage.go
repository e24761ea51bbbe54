// Package storage hosts product images. The dashboard uploads to
// Cloudinary in production and to a local directory in development.
package storage

import (
	"context"
	"io"
)

// ImageStore uploads a product image and returns its publicly
// reachable URL.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}
