package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string // публичный URL объекта
	ETag     string
}

// FileUploader stores tournament images.
//
// Upload takes an io.ReadSeeker so the object length is known up front:
// S3-compatible PutObject rejects chunked bodies without Content-Length.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.ReadSeeker) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}
