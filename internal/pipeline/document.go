package pipeline

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"lectern/internal/logging"
	"lectern/internal/notes"
	"lectern/internal/registry"
	"lectern/internal/services"
)

// processDocument runs the document stages: validate, extract text, notes,
// billing. Document jobs never produce timestamped artifacts.
func (o *Orchestrator) processDocument(ctx context.Context, logger *slog.Logger, job *registry.Job) (map[string]any, error) {
	start := time.Now()

	input := strings.TrimSpace(job.Input)
	if input == "" {
		return nil, services.Wrap(services.ErrValidation, "acquire", "", "job has no input source", nil)
	}
	if err := o.acquirer.ValidateLocal(input, true); err != nil {
		return nil, services.Wrap(services.ErrValidation, "acquire", "", "", err)
	}

	o.progress(ctx, job, "Extracting text from PDF...")
	stageStart := time.Now()
	text, err := o.documents.ExtractText(ctx, input)
	if err != nil {
		o.metrics.RecordStageError("extract_text", "fatal")
		return nil, services.Wrap(services.ErrValidation, "extract-text", "", "", err)
	}
	o.metrics.RecordStage("extract_text", time.Since(stageStart).Seconds())
	logger.Info("document text extracted",
		logging.Int("chars", utf8.RuneCountInString(text)))

	if _, err := o.artifacts.SaveExtractedText(job.ID, text); err != nil {
		return nil, services.Wrap(services.ErrValidation, "save-extracted-text", "", "", err)
	}

	notesText := o.generateNotes(ctx, logger, job, text, notes.KindDocument)
	if notesText != "" {
		if _, _, err := o.artifacts.SaveNotes(job.ID, notesText); err != nil {
			logger.Warn("saving notes failed; completing without notes",
				logging.Error(err),
				logging.String(logging.FieldEventType, "notes_save_failed"))
			notesText = ""
		}
	}

	deducted := o.chargeOwner(ctx, logger, job, notesText != "")

	return map[string]any{
		"extracted_text":   excerpt(text, transcriptExcerptChars),
		"text_length":      utf8.RuneCountInString(text),
		"has_notes":        notesText != "",
		"notes_preview":    preview(notesText),
		"processing_time":  math.Round(time.Since(start).Seconds()*100) / 100,
		"credits_deducted": deducted,
	}, nil
}
