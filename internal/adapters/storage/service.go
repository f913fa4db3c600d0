// Package storage provides an S3-compatible object store for files shared
// with leads, such as template attachments.
package storage

import (
	"context"
	"io"

	"lead_outreach_backend/platform/config"
)

// StorageService defines the object storage operations used by the app.
type StorageService interface {
	// UploadFile stores reader under folder with a unique suffix on fileName and
	// returns the object key.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, bucket, fileKey string) error

	// PublicURL returns the link under which a stored object is reachable by recipients.
	PublicURL(bucket, fileKey string) string

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// ValidateContentType checks if the content type is allowed.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error

	// GetMaxFileSize returns the configured maximum file size in bytes.
	GetMaxFileSize() int64
}

// Config defines the configuration needed by the MinIO implementation.
type Config = config.MinIOConfig
