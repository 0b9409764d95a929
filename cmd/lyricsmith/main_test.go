package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricsmith/internal/config"
	"lyricsmith/internal/store"
	"lyricsmith/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("OPENAI_TTS_ENABLED", "false")
	t.Setenv("DATABASE_URL", "")

	cfg := testsupport.NewConfig(t, testsupport.WithBackend(config.BackendSQLite))
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	return &cliTestEnv{
		cfg:        cfg,
		store:      testsupport.MustOpenStore(t, cfg),
		configPath: configPath,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
database_path = %q

[rate_limit]
backend = "sqlite"

[llm]
provider = "mock"

[voice]
enabled = false

[logging]
format = "json"
`, cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.DatabasePath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestSongsListShowDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	song := testsupport.NewSong(t, env.store, map[string]string{
		"verse1": "Walking down the avenue",
		"chorus": "Love is all we need",
	})

	out, _, err := runCLI(t, []string{"songs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("songs list: %v", err)
	}
	requireContains(t, out, song.ID)
	requireContains(t, out, "romantic")

	out, _, err = runCLI(t, []string{"songs", "show", song.ID}, env.configPath)
	if err != nil {
		t.Fatalf("songs show: %v", err)
	}
	requireContains(t, out, "[Verse1]")
	requireContains(t, out, "Love is all we need")

	if _, err := env.store.RecordVoiceGeneration(context.Background(), store.NewVoiceGeneration{
		SongID:      song.ID,
		VoiceStyle:  "taylor-swift",
		VoicePreset: "nova",
	}); err != nil {
		t.Fatalf("RecordVoiceGeneration: %v", err)
	}

	out, _, err = runCLI(t, []string{"songs", "show", song.ID, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("songs show --json: %v", err)
	}
	requireContains(t, out, `"verse1": "Walking down the avenue"`)
	requireContains(t, out, `"voicePreset": "nova"`)

	out, _, err = runCLI(t, []string{"songs", "delete", song.ID}, env.configPath)
	if err != nil {
		t.Fatalf("songs delete: %v", err)
	}
	requireContains(t, out, "Deleted song")

	if _, _, err := runCLI(t, []string{"songs", "delete", song.ID}, env.configPath); err == nil {
		t.Fatal("expected error deleting a missing song")
	}

	out, _, err = runCLI(t, []string{"songs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("songs list: %v", err)
	}
	requireContains(t, out, "No songs stored")
}

func TestRevisionsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	song := testsupport.NewSong(t, env.store, map[string]string{"chorus": "old"})

	out, _, err := runCLI(t, []string{"revisions", song.ID}, env.configPath)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	requireContains(t, out, "No revisions")

	if _, err := env.store.CreateRevision(context.Background(), store.NewRevision{
		SongID:       song.ID,
		RevisionType: "chorus",
		Instruction:  "make it brighter",
		OldLyrics:    `{"chorus":"old"}`,
		NewLyrics:    `{"chorus":"new"}`,
	}); err != nil {
		t.Fatalf("CreateRevision: %v", err)
	}

	out, _, err = runCLI(t, []string{"revisions", song.ID}, env.configPath)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	requireContains(t, out, "make it brighter")
}

func TestUsageAndCleanup(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.NewSong(t, env.store, map[string]string{"chorus": "la la"})

	out, _, err := runCLI(t, []string{"usage"}, env.configPath)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	requireContains(t, out, "Songs: 1")
	requireContains(t, out, "No API usage")

	out, _, err = runCLI(t, []string{"cleanup", "--older-than", "1m"}, env.configPath)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	requireContains(t, out, "Removed 0 usage records")
}

func TestDoctorPassesWithMockProvider(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Database:")
	requireContains(t, out, "[OK]")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "LLM provider: mock")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
}
