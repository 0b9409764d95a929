package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricsmith/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckLLM_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), config.LLM{Provider: config.ProviderOpenAI, APIKey: "good-key", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckLLM_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), config.LLM{Provider: config.ProviderOpenAI, APIKey: "bad-key", BaseURL: srv.URL})
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
}

func TestCheckLLM_MissingKeyAndMock(t *testing.T) {
	result := CheckLLM(context.Background(), config.LLM{Provider: config.ProviderAnthropic})
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
	if !strings.Contains(result.Detail, "mock writer") {
		t.Fatalf("expected fallback hint, got %q", result.Detail)
	}

	result = CheckLLM(context.Background(), config.LLM{Provider: config.ProviderMock})
	if !result.Passed {
		t.Fatalf("mock provider should pass, got %q", result.Detail)
	}
}

func TestCheckVoice(t *testing.T) {
	cfg := config.Default()
	cfg.Voice.Enabled = false
	if r := CheckVoice(&cfg); !r.Passed || r.Detail != "Disabled" {
		t.Fatalf("unexpected disabled result: %+v", r)
	}
	cfg.Voice.Enabled = true
	cfg.Voice.APIKey = ""
	if r := CheckVoice(&cfg); r.Passed {
		t.Fatal("expected failure without key")
	}
	cfg.Voice.APIKey = "k"
	if r := CheckVoice(&cfg); !r.Passed {
		t.Fatalf("expected pass, got %q", r.Detail)
	}
}

func TestCheckRedis_BadURL(t *testing.T) {
	if r := CheckRedis(context.Background(), ""); r.Passed {
		t.Fatal("expected failure for empty url")
	}
	if r := CheckRedis(context.Background(), "not-a-url"); r.Passed {
		t.Fatal("expected failure for malformed url")
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCheckStore(t *testing.T) {
	if r := CheckStore(context.Background(), "db", pinger{}); !r.Passed {
		t.Fatalf("expected pass, got %q", r.Detail)
	}
	if r := CheckStore(context.Background(), "db", pinger{err: errors.New("closed")}); r.Passed {
		t.Fatal("expected failure")
	}
	if r := CheckStore(context.Background(), "db", nil); r.Passed {
		t.Fatal("expected failure for nil store")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.LLM.Provider = config.ProviderMock
	cfg.Voice.Enabled = false
	cfg.RateLimit.Backend = config.BackendSQLite

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_IncludesRedisForRedisBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.LLM.Provider = config.ProviderMock
	cfg.RateLimit.Backend = config.BackendRedis
	cfg.RateLimit.RedisURL = ""

	results := RunAll(context.Background(), &cfg)
	found := false
	for _, r := range results {
		if r.Name == "Redis" {
			found = true
			if r.Passed {
				t.Fatal("expected redis check to fail without url")
			}
		}
	}
	if !found {
		t.Fatal("expected Redis check in results")
	}
}
