package storage

import (
	"errors"
	"testing"
)

func TestValidateContentType(t *testing.T) {
	for _, ct := range []string{"application/pdf", "image/jpeg", "IMAGE/PNG; charset=binary"} {
		if err := ValidateContentType(ct); err != nil {
			t.Fatalf("expected %q to be allowed, got %v", ct, err)
		}
	}
	if err := ValidateContentType("image/gif"); !errors.Is(err, ErrContentTypeNotAllowed) {
		t.Fatalf("expected gif to be rejected, got %v", err)
	}
}

func TestValidateExtension(t *testing.T) {
	if err := ValidateExtension("image/jpeg", ".JPG"); err != nil {
		t.Fatalf("expected .JPG to match jpeg, got %v", err)
	}
	if err := ValidateExtension("application/pdf", ".png"); err == nil {
		t.Fatal("expected mismatched extension to be rejected")
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := ValidateFileSize(0, 10); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected empty file error, got %v", err)
	}
	if err := ValidateFileSize(11, 10); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected too large error, got %v", err)
	}
	if err := ValidateFileSize(10, 10); err != nil {
		t.Fatalf("expected size at the limit to pass, got %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	got := objectKey("lead-1", `C:\tmp\Preventivo finale.PDF`, "abcd1234")
	want := "lead-1/Preventivo_finale_abcd1234.pdf"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
