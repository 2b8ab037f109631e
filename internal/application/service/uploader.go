package service

import (
	"context"
	"io"
)

// Uploader is the media-store port. Upload returns the stable URL of
// the stored asset; Delete removes an asset by its public ID.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
