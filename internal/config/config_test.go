package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Workflow.WorkerCount != 2 {
		t.Fatalf("default worker count = %d, want 2", cfg.Workflow.WorkerCount)
	}
	if cfg.Transcription.Backend != "whisper-cli" {
		t.Fatalf("default backend = %q, want whisper-cli", cfg.Transcription.Backend)
	}
	if got := cfg.PlanLimitMinutes("free"); got != 30 {
		t.Fatalf("free plan limit = %d, want 30", got)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
staging_dir = "`+filepath.Join(base, "stage")+`"
output_dir = "`+filepath.Join(base, "out")+`"
log_dir = "`+filepath.Join(base, "logs")+`"
api_bind = "127.0.0.1:0"

[plans]
default_plan = "FREE"

[plans.max_duration_minutes]
free = 15
pro = 240

[transcription]
backend = "OpenAI"
api_key = "sk-test"

[workflow]
worker_count = 4

[logging]
format = "JSON"
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Plans.DefaultPlan != "free" {
		t.Fatalf("default plan = %q, want lowercased free", cfg.Plans.DefaultPlan)
	}
	if got := cfg.PlanLimitMinutes("pro"); got != 240 {
		t.Fatalf("pro plan limit = %d, want 240", got)
	}
	if got := cfg.PlanLimitMinutes("unknown"); got != 15 {
		t.Fatalf("unknown plan should fall back to default, got %d", got)
	}
	if cfg.Transcription.Backend != "openai" {
		t.Fatalf("backend = %q, want normalized openai", cfg.Transcription.Backend)
	}
	if cfg.Workflow.WorkerCount != 4 {
		t.Fatalf("worker count = %d, want 4", cfg.Workflow.WorkerCount)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
[transcription]
backend = "parakeet"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "transcription.backend") {
		t.Fatalf("expected backend validation error, got %v", err)
	}
}

func TestLoadRejectsOpenAIWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
[transcription]
backend = "openai"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "transcription.api_key") {
		t.Fatalf("expected api key validation error, got %v", err)
	}
}

func TestLoadRejectsDefaultPlanWithoutEntry(t *testing.T) {
	path := writeConfig(t, `
[plans]
default_plan = "gold"

[plans.max_duration_minutes]
free = 30
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "plans.default_plan") {
		t.Fatalf("expected default plan validation error, got %v", err)
	}
}

func TestLoadRejectsCreditsWithoutKey(t *testing.T) {
	t.Setenv("LECTERN_CREDITS_API_KEY", "")
	path := writeConfig(t, `
[credits]
base_url = "https://ledger.example.com"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "credits.api_key") {
		t.Fatalf("expected credits validation error, got %v", err)
	}
}

func TestNotesKeyEnvFallback(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-test-key")
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.NotesEnabled() {
		t.Fatal("expected notes enabled via OPENROUTER_API_KEY")
	}
	if cfg.Notes.APIKey != "or-test-key" {
		t.Fatalf("notes api key = %q, want env value", cfg.Notes.APIKey)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = "/var/lib/lectern/logs"
	if got := cfg.DatabasePath(); got != "/var/lib/lectern/logs/registry.db" {
		t.Fatalf("DatabasePath = %q", got)
	}
	if got := cfg.SocketPath(); got != "/var/lib/lectern/logs/lecternd.sock" {
		t.Fatalf("SocketPath = %q", got)
	}
	if got := cfg.LockPath(); got != "/var/lib/lectern/logs/lecternd.lock" {
		t.Fatalf("LockPath = %q", got)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Events.Topic != "lectern.jobs" {
		t.Fatalf("sample topic = %q, want lectern.jobs", cfg.Events.Topic)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "stage")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing after EnsureDirectories: %v", dir, err)
		}
	}
}
