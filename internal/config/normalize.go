package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlans()
	c.normalizeTranscription()
	c.normalizeNotes()
	c.normalizeCredits()
	c.normalizeTools()
	c.normalizeWorkflow()
	c.normalizeEvents()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizePlans() {
	c.Plans.DefaultPlan = strings.ToLower(strings.TrimSpace(c.Plans.DefaultPlan))
	if c.Plans.DefaultPlan == "" {
		c.Plans.DefaultPlan = defaultPlan
	}
	if len(c.Plans.MaxDurationMinutes) == 0 {
		c.Plans.MaxDurationMinutes = Default().Plans.MaxDurationMinutes
		return
	}
	normalized := make(map[string]int, len(c.Plans.MaxDurationMinutes))
	for plan, minutes := range c.Plans.MaxDurationMinutes {
		name := strings.ToLower(strings.TrimSpace(plan))
		if name == "" {
			continue
		}
		normalized[name] = minutes
	}
	c.Plans.MaxDurationMinutes = normalized
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Backend = strings.ToLower(strings.TrimSpace(c.Transcription.Backend))
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = defaultTranscriptionBackend
	}
	c.Transcription.WhisperBinary = strings.TrimSpace(c.Transcription.WhisperBinary)
	if c.Transcription.WhisperBinary == "" {
		c.Transcription.WhisperBinary = defaultWhisperBinary
	}
	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	if c.Transcription.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Transcription.APIKey = strings.TrimSpace(value)
		}
	}
	c.Transcription.BaseURL = strings.TrimSpace(c.Transcription.BaseURL)
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = defaultTranscriptionBaseURL
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscriptionTimeout
	}
}

func (c *Config) normalizeNotes() {
	c.Notes.APIKey = strings.TrimSpace(c.Notes.APIKey)
	if c.Notes.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Notes.APIKey = strings.TrimSpace(value)
		}
	}
	c.Notes.BaseURL = strings.TrimSpace(c.Notes.BaseURL)
	if c.Notes.BaseURL == "" {
		c.Notes.BaseURL = defaultNotesBaseURL
	}
	c.Notes.Model = strings.TrimSpace(c.Notes.Model)
	if c.Notes.Model == "" {
		c.Notes.Model = defaultNotesModel
	}
	c.Notes.Referer = strings.TrimSpace(c.Notes.Referer)
	if c.Notes.Referer == "" {
		c.Notes.Referer = defaultNotesReferer
	}
	c.Notes.Title = strings.TrimSpace(c.Notes.Title)
	if c.Notes.Title == "" {
		c.Notes.Title = defaultNotesTitle
	}
	if c.Notes.TimeoutSeconds <= 0 {
		c.Notes.TimeoutSeconds = defaultNotesTimeoutSeconds
	}
	if c.Notes.MinIntervalMS < 0 {
		c.Notes.MinIntervalMS = defaultNotesMinIntervalMS
	}
	if c.Notes.CacheSize <= 0 {
		c.Notes.CacheSize = defaultNotesCacheSize
	}
	if c.Notes.MaxInputChars <= 0 {
		c.Notes.MaxInputChars = defaultNotesMaxInputChars
	}
}

func (c *Config) normalizeCredits() {
	c.Credits.BaseURL = strings.TrimSpace(c.Credits.BaseURL)
	c.Credits.APIKey = strings.TrimSpace(c.Credits.APIKey)
	if c.Credits.APIKey == "" {
		if value, ok := os.LookupEnv("LECTERN_CREDITS_API_KEY"); ok {
			c.Credits.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Credits.TimeoutSeconds <= 0 {
		c.Credits.TimeoutSeconds = defaultCreditsTimeoutSeconds
	}
	if c.Credits.CostPerJob <= 0 {
		c.Credits.CostPerJob = defaultCreditsCostPerJob
	}
}

func (c *Config) normalizeTools() {
	if c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary); c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary); c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Tools.DownloaderBinary = strings.TrimSpace(c.Tools.DownloaderBinary); c.Tools.DownloaderBinary == "" {
		c.Tools.DownloaderBinary = defaultDownloaderBinary
	}
	if c.Tools.PDFTextBinary = strings.TrimSpace(c.Tools.PDFTextBinary); c.Tools.PDFTextBinary == "" {
		c.Tools.PDFTextBinary = defaultPDFTextBinary
	}
	if c.Tools.DownloadTimeout <= 0 {
		c.Tools.DownloadTimeout = defaultDownloadTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.WorkerCount <= 0 {
		c.Workflow.WorkerCount = defaultWorkerCount
	}
	if c.Workflow.JobPollInterval <= 0 {
		c.Workflow.JobPollInterval = defaultJobPollInterval
	}
	if c.Workflow.QueueCapacity <= 0 {
		c.Workflow.QueueCapacity = defaultQueueCapacity
	}
}

func (c *Config) normalizeEvents() {
	brokers := make([]string, 0, len(c.Events.Brokers))
	for _, broker := range c.Events.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	c.Events.Brokers = brokers
	c.Events.Topic = strings.TrimSpace(c.Events.Topic)
	if c.Events.Topic == "" {
		c.Events.Topic = defaultEventsTopic
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
