package config

const (
	defaultStagingDir            = "~/.local/share/lectern/staging"
	defaultOutputDir             = "~/.local/share/lectern/output"
	defaultLogDir                = "~/.local/share/lectern/logs"
	defaultAPIBind               = "127.0.0.1:7519"
	defaultPlan                  = "free"
	defaultTranscriptionBackend  = "whisper-cli"
	defaultWhisperBinary         = "whisper-cli"
	defaultTranscriptionBaseURL  = "https://api.openai.com/v1"
	defaultTranscriptionModel    = "whisper-1"
	defaultTranscriptionTimeout  = 900
	defaultNotesBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultNotesModel            = "google/gemini-3-flash-preview"
	defaultNotesReferer          = "https://github.com/lectern-audio/lectern"
	defaultNotesTitle            = "Lectern Notes Generator"
	defaultNotesTimeoutSeconds   = 120
	defaultNotesMinIntervalMS    = 500
	defaultNotesCacheSize        = 64
	defaultNotesMaxInputChars    = 48000
	defaultCreditsTimeoutSeconds = 10
	defaultCreditsCostPerJob     = 1
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultDownloaderBinary      = "yt-dlp"
	defaultPDFTextBinary         = "pdftotext"
	defaultDownloadTimeout       = 900
	defaultWorkerCount           = 2
	defaultJobPollInterval       = 2
	defaultQueueCapacity         = 32
	defaultNotifyRequestTimeout  = 10
	defaultEventsTopic           = "lectern.jobs"
	defaultLogFormat             = "auto"
	defaultLogLevel              = "info"
	defaultFreeMinutes           = 30
	defaultStudentMinutes        = 60
	defaultResearcherMinutes     = 120
	defaultExpertMinutes         = 300
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Plans: Plans{
			DefaultPlan: defaultPlan,
			MaxDurationMinutes: map[string]int{
				"free":       defaultFreeMinutes,
				"student":    defaultStudentMinutes,
				"researcher": defaultResearcherMinutes,
				"expert":     defaultExpertMinutes,
			},
		},
		Transcription: Transcription{
			Backend:        defaultTranscriptionBackend,
			WhisperBinary:  defaultWhisperBinary,
			BaseURL:        defaultTranscriptionBaseURL,
			Model:          defaultTranscriptionModel,
			TimeoutSeconds: defaultTranscriptionTimeout,
		},
		Notes: Notes{
			BaseURL:        defaultNotesBaseURL,
			Model:          defaultNotesModel,
			Referer:        defaultNotesReferer,
			Title:          defaultNotesTitle,
			TimeoutSeconds: defaultNotesTimeoutSeconds,
			MinIntervalMS:  defaultNotesMinIntervalMS,
			CacheSize:      defaultNotesCacheSize,
			MaxInputChars:  defaultNotesMaxInputChars,
		},
		Credits: Credits{
			TimeoutSeconds: defaultCreditsTimeoutSeconds,
			CostPerJob:     defaultCreditsCostPerJob,
		},
		Tools: Tools{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			DownloaderBinary: defaultDownloaderBinary,
			PDFTextBinary:    defaultPDFTextBinary,
			DownloadTimeout:  defaultDownloadTimeout,
		},
		Workflow: Workflow{
			WorkerCount:     defaultWorkerCount,
			JobPollInterval: defaultJobPollInterval,
			QueueCapacity:   defaultQueueCapacity,
			CleanupTemp:     true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Completed:      true,
			Errors:         true,
		},
		Events: Events{
			Topic: defaultEventsTopic,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
