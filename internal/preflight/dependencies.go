package preflight

import (
	"fmt"
	"os/exec"
	"strings"

	"lectern/internal/config"
)

// Requirement defines an external binary lectern relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckSystemDeps evaluates all system-level binary dependencies for the
// given config. Both the daemon and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []Status {
	if cfg == nil {
		return nil
	}
	requirements := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpegBinary,
			Description: "Required for audio extraction",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobeBinary,
			Description: "Required for media inspection",
		},
	}
	if cfg.Transcription.Backend == "whisper-cli" {
		requirements = append(requirements, Requirement{
			Name:        "Whisper",
			Command:     cfg.Transcription.WhisperBinary,
			Description: "Required for local transcription",
		})
	}
	requirements = append(requirements,
		Requirement{
			Name:        "Downloader",
			Command:     cfg.Tools.DownloaderBinary,
			Description: "Required for URL submissions",
			Optional:    true,
		},
		Requirement{
			Name:        "pdftotext",
			Command:     cfg.Tools.PDFTextBinary,
			Description: "Required for document text extraction",
			Optional:    true,
		},
	)
	return CheckBinaries(requirements)
}
