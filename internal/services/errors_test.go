package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"lyricsmith/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrUnavailable, "llm", "chat completion", "request failed", base)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"llm", "chat completion", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassifyMarkers(t *testing.T) {
	cases := []struct {
		err  error
		want services.Kind
	}{
		{services.Wrap(services.ErrConfiguration, "llm", "complete", "missing key", nil), services.KindUpstreamMisconfig},
		{services.Wrap(services.ErrRateLimited, "llm", "complete", "429", nil), services.KindUpstreamRateLimited},
		{services.Wrap(services.ErrUnavailable, "llm", "complete", "503", nil), services.KindUpstreamUnavailable},
		{fmt.Errorf("outer: %w", services.Wrap(services.ErrTimeout, "tts", "speech", "deadline", context.DeadlineExceeded)), services.KindUpstreamUnavailable},
		{errors.New("API key missing"), services.KindInternal},
	}
	for _, tc := range cases {
		if got := services.Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestErrorCarriesStatusAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := services.NewError(services.KindNotFound, "SONG_NOT_FOUND", "Song not found").
		WithDetails(map[string]string{"songId": "abc"}).
		WithCause(cause)

	if err.Status != http.StatusNotFound {
		t.Fatalf("unexpected status %d", err.Status)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	wrapped := fmt.Errorf("handler: %w", err)
	got, ok := services.AsError(wrapped)
	if !ok || got.Code != "SONG_NOT_FOUND" {
		t.Fatalf("AsError = %v, %v", got, ok)
	}
	if policy := services.NewError(services.KindPolicy, "CORS_POLICY_VIOLATION", "CORS policy violation").WithStatus(http.StatusForbidden); policy.Status != http.StatusForbidden {
		t.Fatalf("expected status override, got %d", policy.Status)
	}
}
