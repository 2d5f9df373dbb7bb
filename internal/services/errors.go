package services

import (
	"errors"
	"fmt"
	"strings"
)

// Stage failure markers. Orchestration code matches on these with errors.Is to
// decide whether a job fails outright or degrades to a partial result.
var (
	ErrValidation            = errors.New("validation error")
	ErrAcquisition           = errors.New("audio acquisition error")
	ErrTranscription         = errors.New("transcription error")
	ErrGenerationUnavailable = errors.New("notes generation unavailable")
	ErrAlignment             = errors.New("alignment error")
	ErrLedger                = errors.New("credit ledger error")
)

// Infrastructure markers shared by config loading, external tools, and
// transport clients.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether a stage error should fail the whole job. Notes
// generation, alignment, and ledger failures degrade the result instead of
// discarding the transcript that already exists. Unclassified errors stay
// fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrGenerationUnavailable) || errors.Is(err, ErrAlignment) || errors.Is(err, ErrLedger) {
		return false
	}
	return true
}

// Details strips the leading sentinel text from a wrapped error so the
// remainder can be persisted as a user-facing failure message.
func Details(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	markers := []error{
		ErrValidation,
		ErrAcquisition,
		ErrTranscription,
		ErrGenerationUnavailable,
		ErrAlignment,
		ErrLedger,
		ErrExternalTool,
		ErrConfiguration,
		ErrNotFound,
		ErrTimeout,
		ErrTransient,
	}
	for changed := true; changed; {
		changed = false
		for _, marker := range markers {
			prefix := marker.Error() + ": "
			if strings.HasPrefix(msg, prefix) {
				msg = strings.TrimPrefix(msg, prefix)
				changed = true
			}
		}
	}
	return msg
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
