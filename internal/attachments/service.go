// Package attachments uploads files an operator shares with a lead through a
// template message.
package attachments

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"lead_outreach_backend/internal/adapters/storage"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how much of the file is read to detect its type.
const sniffLen = 3072

// Store is the subset of the object store used for attachments.
type Store interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	PublicURL(bucket, fileKey string) string
	ValidateContentType(contentType string) error
	ValidateFileSize(sizeBytes int64) error
}

// Service validates and stores attachments.
type Service struct {
	store  Store
	bucket string
	log    *logger.Logger
}

// New creates an attachments service writing to bucket.
func New(store Store, bucket string, log *logger.Logger) *Service {
	return &Service{store: store, bucket: bucket, log: log}
}

// Uploaded describes a stored attachment.
type Uploaded struct {
	URL         string
	Key         string
	ContentType string
	Size        int64
}

// Upload checks size, sniffed type and extension before anything is sent to
// storage, then stores the file under the lead's folder and returns its public URL.
func (s *Service) Upload(ctx context.Context, leadID uuid.UUID, fileName string, r io.Reader, size int64) (Uploaded, error) {
	if s.store == nil {
		return Uploaded{}, apperr.BadRequest("attachment storage is not configured")
	}
	if err := s.store.ValidateFileSize(size); err != nil {
		return Uploaded{}, apperr.Validation(err.Error())
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Uploaded{}, apperr.BadRequest("could not read uploaded file")
	}
	head = head[:n]

	contentType := mimetype.Detect(head).String()
	if err := s.store.ValidateContentType(contentType); err != nil {
		return Uploaded{}, apperr.Validation("only PDF, JPEG and PNG files are accepted")
	}
	if err := storage.ValidateExtension(contentType, path.Ext(fileName)); err != nil {
		return Uploaded{}, apperr.Validation("file extension does not match its content")
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	key, err := s.store.UploadFile(ctx, s.bucket, leadID.String(), fileName, contentType, body, size)
	if err != nil {
		s.log.Error("attachment upload failed", "leadId", leadID, "error", err)
		return Uploaded{}, apperr.Upstream("storage.upload", err)
	}

	s.log.Info("attachment uploaded", "leadId", leadID, "key", key, "size", size)
	return Uploaded{
		URL:         s.store.PublicURL(s.bucket, key),
		Key:         key,
		ContentType: contentType,
		Size:        size,
	}, nil
}
