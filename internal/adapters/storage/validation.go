package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrFileTooLarge          = errors.New("file too large")
	ErrEmptyFile             = errors.New("file is empty")
)

// AllowedContentTypes maps each accepted MIME type to the extensions it may carry.
var AllowedContentTypes = map[string][]string{
	"application/pdf": {".pdf"},
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
}

// ValidateContentType checks if the content type is allowed.
func (s *MinIOService) ValidateContentType(contentType string) error {
	return ValidateContentType(contentType)
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	return ValidateFileSize(sizeBytes, s.maxFileSize)
}

// ValidateContentType checks a MIME type against AllowedContentTypes,
// ignoring parameters such as charset.
func ValidateContentType(contentType string) error {
	if _, ok := AllowedContentTypes[normalizeContentType(contentType)]; !ok {
		return fmt.Errorf("%w: %q", ErrContentTypeNotAllowed, contentType)
	}
	return nil
}

// ValidateExtension checks that ext is one the content type may carry.
func ValidateExtension(contentType, ext string) error {
	ext = strings.ToLower(ext)
	for _, allowed := range AllowedContentTypes[normalizeContentType(contentType)] {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: extension %q does not match %s", ErrContentTypeNotAllowed, ext, contentType)
}

// ValidateFileSize checks 0 < sizeBytes <= maxBytes.
func ValidateFileSize(sizeBytes, maxBytes int64) error {
	if sizeBytes <= 0 {
		return ErrEmptyFile
	}
	if sizeBytes > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds maximum allowed size of %d bytes", ErrFileTooLarge, sizeBytes, maxBytes)
	}
	return nil
}

func normalizeContentType(contentType string) string {
	return strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
}
