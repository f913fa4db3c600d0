package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusPerKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("lead not found"), http.StatusNotFound},
		{Validation("name is required"), http.StatusBadRequest},
		{Parse("bad payload", errors.New("eof")), http.StatusUnprocessableEntity},
		{Upstream("leads.update", errors.New("conn reset")), http.StatusBadGateway},
		{Conflict("duplicate"), http.StatusConflict},
		{Unauthorized("missing token"), http.StatusUnauthorized},
		{Internal("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%q: HTTPStatus() = %d, want %d", tc.err.Message, got, tc.want)
		}
	}
}

func TestGetKindFollowsWrapping(t *testing.T) {
	base := NotFound("lead not found")
	wrapped := fmt.Errorf("approve: %w", base)

	if !Is(wrapped, KindNotFound) {
		t.Fatalf("expected wrapped error to carry KindNotFound, got %v", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain error to have KindUnknown")
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("proposals.latest", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected upstream error to unwrap to its cause")
	}
	if got := err.Error(); got != "proposals.latest: upstream call failed: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
}
