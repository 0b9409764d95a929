package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lyricsmith/internal/services"
)

func TestSynthesizeSendsSpeechRequest(t *testing.T) {
	var received speechRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-audio"))
	}))
	defer server.Close()

	client := NewClient(Config{Enabled: true, APIKey: "sk-test", BaseURL: server.URL})
	audio, err := client.Synthesize(context.Background(), Speech{Text: "hello", Voice: "nova", Speed: 1.25, Instructions: "bright"})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if string(audio.Data) != "ID3-audio" || audio.ContentType != "audio/mpeg" {
		t.Fatalf("unexpected audio %+v", audio)
	}
	if received.Model != "gpt-4o-mini-tts" || received.Voice != "nova" || received.Speed != 1.25 || received.ResponseFormat != "mp3" {
		t.Fatalf("unexpected request %+v", received)
	}
}

func TestSynthesizeNotConfigured(t *testing.T) {
	for _, cfg := range []Config{{Enabled: false, APIKey: "sk"}, {Enabled: true}} {
		client := NewClient(cfg)
		if client.Configured() {
			t.Fatalf("expected %+v to be unconfigured", cfg)
		}
		_, err := client.Synthesize(context.Background(), Speech{Text: "hi", Voice: "nova"})
		if !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("expected configuration marker, got %v", err)
		}
	}
}

func TestSynthesizeRetriesLinearly(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(Config{Enabled: true, APIKey: "sk", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }))
	if _, err := client.Synthesize(context.Background(), Speech{Text: "hi", Voice: "nova"}); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(slept) != 2 || slept[0] != 400*time.Millisecond || slept[1] != 800*time.Millisecond {
		t.Fatalf("expected linear backoff, got %v", slept)
	}
}

func TestSynthesizeRejectedKeyIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{Enabled: true, APIKey: "sk", BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
	_, err := client.Synthesize(context.Background(), Speech{Text: "hi", Voice: "nova"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}
