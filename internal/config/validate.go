package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlans(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateCredits(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlans() error {
	if _, ok := c.Plans.MaxDurationMinutes[c.Plans.DefaultPlan]; !ok {
		return fmt.Errorf("plans.default_plan %q must have an entry in plans.max_duration_minutes", c.Plans.DefaultPlan)
	}
	for plan, minutes := range c.Plans.MaxDurationMinutes {
		if minutes <= 0 {
			return fmt.Errorf("plans.max_duration_minutes.%s must be positive", plan)
		}
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Backend {
	case "whisper-cli":
		if c.Transcription.WhisperBinary == "" {
			return errors.New("transcription.whisper_binary must be set when transcription.backend is \"whisper-cli\"")
		}
	case "openai":
		if c.Transcription.APIKey == "" {
			return errors.New("transcription.api_key must be set when transcription.backend is \"openai\" (or set OPENAI_API_KEY)")
		}
		if c.Transcription.BaseURL == "" {
			return errors.New("transcription.base_url must be set when transcription.backend is \"openai\"")
		}
	default:
		return fmt.Errorf("transcription.backend must be \"whisper-cli\" or \"openai\", got %q", c.Transcription.Backend)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.worker_count":         c.Workflow.WorkerCount,
		"workflow.job_poll_interval":    c.Workflow.JobPollInterval,
		"workflow.queue_capacity":       c.Workflow.QueueCapacity,
		"tools.download_timeout":        c.Tools.DownloadTimeout,
		"transcription.timeout_seconds": c.Transcription.TimeoutSeconds,
		"notes.timeout_seconds":         c.Notes.TimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCredits() error {
	if !c.BillingEnabled() {
		return nil
	}
	if c.Credits.APIKey == "" {
		return errors.New("credits.api_key must be set when credits.base_url is configured (or set LECTERN_CREDITS_API_KEY)")
	}
	if c.Credits.CostPerJob <= 0 {
		return errors.New("credits.cost_per_job must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"auto\", \"console\", or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
