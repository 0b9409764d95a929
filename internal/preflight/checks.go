package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"lyricsmith/internal/config"
	"lyricsmith/internal/ratelimit"
	"lyricsmith/internal/services/llm"
)

// Pinger is satisfied by the song store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, cfg config.LLM) Result {
	const name = "LLM provider"

	if cfg.Provider == config.ProviderMock {
		return Result{Name: name, Passed: true, Detail: "mock writer (no provider calls)"}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s API key missing; mock writer will be used", cfg.Provider)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Referer:  cfg.Referer,
		Title:    cfg.Title,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (%s)", cfg.Provider, cfg.Model)}
}

// CheckVoice reports whether speech synthesis is usable. It does not call the
// provider because every call is billed.
func CheckVoice(cfg *config.Config) Result {
	const name = "Voice synthesis"

	if !cfg.Voice.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if strings.TrimSpace(cfg.Voice.APIKey) == "" {
		return Result{Name: name, Detail: "enabled but API key missing"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Configured (%s)", cfg.Voice.Model)}
}

// CheckRedis verifies the rate limit redis is reachable.
func CheckRedis(ctx context.Context, url string) Result {
	const name = "Redis"

	if strings.TrimSpace(url) == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	client, err := ratelimit.DialRedis(ctx, url)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	_ = client.Close()
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckStore pings an open store.
func CheckStore(ctx context.Context, path string, st Pinger) Result {
	const name = "Database"

	if st == nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not open)", path)}
	}
	if err := st.Ping(ctx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
