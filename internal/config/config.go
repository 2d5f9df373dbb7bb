package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	APIBind    string `toml:"api_bind"`
}

// Plans maps subscription plan names to their entitlement limits.
type Plans struct {
	DefaultPlan        string         `toml:"default_plan"`
	MaxDurationMinutes map[string]int `toml:"max_duration_minutes"`
}

// Transcription selects and configures the speech-to-text backend.
type Transcription struct {
	Backend        string `toml:"backend"`
	WhisperBinary  string `toml:"whisper_binary"`
	WhisperModel   string `toml:"whisper_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notes configures the LLM used to turn transcripts into structured notes.
type Notes struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MinIntervalMS  int    `toml:"min_interval_ms"`
	CacheSize      int    `toml:"cache_size"`
	MaxInputChars  int    `toml:"max_input_chars"`
}

// Credits configures the external credit ledger service. Billing is skipped
// entirely when base_url is empty.
type Credits struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CostPerJob     int    `toml:"cost_per_job"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	FFmpegBinary     string `toml:"ffmpeg_binary"`
	FFprobeBinary    string `toml:"ffprobe_binary"`
	DownloaderBinary string `toml:"downloader_binary"`
	PDFTextBinary    string `toml:"pdftotext_binary"`
	DownloadTimeout  int    `toml:"download_timeout"`
}

// Workflow contains orchestrator timing and pool sizing.
type Workflow struct {
	WorkerCount     int  `toml:"worker_count"`
	JobPollInterval int  `toml:"job_poll_interval"`
	QueueCapacity   int  `toml:"queue_capacity"`
	CleanupTemp     bool `toml:"cleanup_temp"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Completed      bool   `toml:"completed"`
	Errors         bool   `toml:"errors"`
}

// Events configures the Kafka lifecycle event publisher. Publishing is
// log-only when no brokers are configured.
type Events struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lectern.
//
// Configuration sections by subsystem:
//   - Paths: staging/output/log directories and the API bind address
//   - Plans: per-plan input duration entitlements
//   - Transcription: whisper-cli or OpenAI-compatible backend settings
//   - Notes: LLM connection, rate limit, and cache settings
//   - Credits: external credit ledger client
//   - Tools: external binary names and download timeout
//   - Workflow: worker pool sizing and poll cadence
//   - Notifications: ntfy push notification settings
//   - Events: Kafka lifecycle event publishing
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Plans         Plans         `toml:"plans"`
	Transcription Transcription `toml:"transcription"`
	Notes         Notes         `toml:"notes"`
	Credits       Credits       `toml:"credits"`
	Tools         Tools         `toml:"tools"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Events        Events        `toml:"events"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lectern/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lectern.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories daemon operation requires.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the registry database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.LogDir, "registry.db")
}

// SocketPath returns the daemon IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.LogDir, "lecternd.sock")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "lecternd.lock")
}

// LogFilePath returns the daemon log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "lectern.log")
}

// BillingEnabled reports whether a credit ledger endpoint is configured.
func (c *Config) BillingEnabled() bool {
	return strings.TrimSpace(c.Credits.BaseURL) != ""
}

// NotesEnabled reports whether the notes LLM is configured.
func (c *Config) NotesEnabled() bool {
	return strings.TrimSpace(c.Notes.APIKey) != ""
}

// EventsEnabled reports whether Kafka brokers are configured.
func (c *Config) EventsEnabled() bool {
	return len(c.Events.Brokers) > 0
}

// PlanLimitMinutes returns the configured duration entitlement for a plan.
// Unknown or empty plans fall back to the default plan's limit.
func (c *Config) PlanLimitMinutes(plan string) int {
	name := strings.ToLower(strings.TrimSpace(plan))
	if name == "" {
		name = c.Plans.DefaultPlan
	}
	if minutes, ok := c.Plans.MaxDurationMinutes[name]; ok {
		return minutes
	}
	if minutes, ok := c.Plans.MaxDurationMinutes[c.Plans.DefaultPlan]; ok {
		return minutes
	}
	return 0
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a commented sample configuration file to the specified
// location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
