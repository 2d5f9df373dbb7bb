package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lectern/internal/align"
	"lectern/internal/entitlements"
	"lectern/internal/language"
	"lectern/internal/logging"
	"lectern/internal/notes"
	"lectern/internal/registry"
	"lectern/internal/services"
)

// processMedia runs the media stages in order: acquire, entitlement check,
// audio extraction, transcription, notes, alignment, billing. The transcript
// artifact is written even when notes fail; billing runs only once non-empty
// notes exist.
func (o *Orchestrator) processMedia(ctx context.Context, logger *slog.Logger, job *registry.Job) (map[string]any, error) {
	source, err := o.acquireMedia(ctx, job)
	if err != nil {
		return nil, err
	}

	if err := o.checkEntitlement(ctx, logger, job, source); err != nil {
		return nil, err
	}

	o.progress(ctx, job, "Extracting audio...")
	audioPath := o.audioPath(job.ID)
	stageStart := time.Now()
	if err := o.extractor.ExtractAudio(ctx, source, audioPath); err != nil {
		o.metrics.RecordStageError("extract_audio", "fatal")
		return nil, services.Wrap(services.ErrAcquisition, "extract-audio", "", "", err)
	}
	o.metrics.RecordStage("extract_audio", time.Since(stageStart).Seconds())

	o.progress(ctx, job, "Transcribing audio...")
	stageStart = time.Now()
	transcript, err := o.backend.Transcribe(ctx, audioPath)
	if err != nil {
		o.metrics.RecordStageError("transcribe", "fatal")
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "", "", err)
	}
	o.metrics.RecordStage("transcribe", time.Since(stageStart).Seconds())
	logger.Info("transcription finished",
		logging.Int("segments", len(transcript.Segments)),
		logging.String("language", transcript.Language))

	notesText := o.generateNotes(ctx, logger, job, transcript.Text, notes.KindMedia)

	if _, err := o.artifacts.SaveTranscript(job.ID, transcript.Language, transcript.Text, transcript.Segments); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "save-transcript", "", "", err)
	}

	var (
		aligned    align.Result
		hasAligned bool
	)
	if notesText != "" {
		if _, _, err := o.artifacts.SaveNotes(job.ID, notesText); err != nil {
			logger.Warn("saving notes failed; completing without notes",
				logging.Error(err),
				logging.String(logging.FieldEventType, "notes_save_failed"))
			notesText = ""
		}
	}
	if notesText != "" && len(transcript.Segments) > 0 {
		aligned, hasAligned = o.alignNotes(ctx, logger, job, notesText, transcript.Segments)
	}

	deducted := o.chargeOwner(ctx, logger, job, notesText != "")

	result := map[string]any{
		"transcription":         excerpt(transcript.Text, transcriptExcerptChars),
		"language":              language.DisplayName(transcript.Language),
		"segments_count":        len(transcript.Segments),
		"has_notes":             notesText != "",
		"has_timestamped_notes": hasAligned,
		"notes_preview":         preview(notesText),
		"timestamp_coverage":    0.0,
		"mapped_sections":       0,
		"credits_deducted":      deducted,
	}
	if hasAligned {
		result["timestamp_coverage"] = aligned.CoveragePercent
		result["mapped_sections"] = aligned.MappedSections
	}
	return result, nil
}

// acquireMedia resolves the job input to a local media file: URL jobs are
// downloaded into a per-job staging directory, upload jobs are validated in
// place.
func (o *Orchestrator) acquireMedia(ctx context.Context, job *registry.Job) (string, error) {
	input := strings.TrimSpace(job.Input)
	if input == "" {
		return "", services.Wrap(services.ErrValidation, "acquire", "", "job has no input source", nil)
	}

	if job.ActionType == registry.ActionMediaURL {
		o.progress(ctx, job, "Downloading media...")
		stageStart := time.Now()
		downloaded, err := o.acquirer.Download(ctx, input, o.downloadDir(job.ID))
		if err != nil {
			o.metrics.RecordStageError("download", "fatal")
			return "", services.Wrap(services.ErrAcquisition, "download", "", "", err)
		}
		o.metrics.RecordStage("download", time.Since(stageStart).Seconds())
		return downloaded, nil
	}

	if err := o.acquirer.ValidateLocal(input, false); err != nil {
		return "", services.Wrap(services.ErrValidation, "acquire", "", "", err)
	}
	return input, nil
}

// checkEntitlement enforces the owner's plan duration limit before any
// expensive stage runs. Anonymous jobs skip the check.
func (o *Orchestrator) checkEntitlement(ctx context.Context, logger *slog.Logger, job *registry.Job, source string) error {
	if strings.TrimSpace(job.Owner) == "" {
		return nil
	}

	o.progress(ctx, job, "Validating media duration...")
	duration, err := o.prober.Duration(ctx, source)
	if err != nil {
		o.metrics.RecordStageError("validate", "fatal")
		return services.Wrap(services.ErrValidation, "validate", "probe duration", "", err)
	}
	check := entitlements.CheckDuration(o.cfg, job.Plan, duration)
	if !check.Allowed {
		o.metrics.RecordStageError("validate", "fatal")
		return services.Wrap(services.ErrValidation, "validate", "", check.Message, nil)
	}
	logger.Info("duration within plan limit",
		logging.String("plan", check.Plan),
		logging.Float64("duration_minutes", check.DurationMinutes),
		logging.Int("allowed_minutes", check.AllowedMinutes))
	return nil
}

// generateNotes asks the generator for structured notes. Any failure is
// soft: the job continues with an empty notes document.
func (o *Orchestrator) generateNotes(ctx context.Context, logger *slog.Logger, job *registry.Job, content string, kind notes.Kind) string {
	if !o.generator.Available() {
		logger.Debug("notes generation not configured; skipping")
		return ""
	}

	o.progress(ctx, job, "Generating structured learning notes...")
	stageStart := time.Now()
	generated, err := o.generator.Generate(ctx, content, kind)
	o.metrics.RecordStage("generate_notes", time.Since(stageStart).Seconds())
	if err != nil {
		o.metrics.RecordStageError("generate_notes", "soft")
		logger.Warn("notes generation failed; completing without notes",
			logging.Error(services.Wrap(services.ErrGenerationUnavailable, "notes", "generate", "", err)),
			logging.String(logging.FieldEventType, "notes_generation_failed"))
		return ""
	}
	return generated
}

// alignNotes maps note sections onto transcript time ranges and writes the
// four aligned artifacts. Failures are soft.
func (o *Orchestrator) alignNotes(ctx context.Context, logger *slog.Logger, job *registry.Job, notesText string, segments []align.Segment) (align.Result, bool) {
	o.progress(ctx, job, "Mapping notes to audio timestamps...")
	stageStart := time.Now()
	result := align.MapNotes(notesText, segments)
	o.metrics.RecordStage("align", time.Since(stageStart).Seconds())

	if err := o.artifacts.SaveAligned(job.ID, result); err != nil {
		o.metrics.RecordStageError("align", "soft")
		logger.Warn("saving aligned notes failed; completing without timestamps",
			logging.Error(services.Wrap(services.ErrAlignment, "align", "save", "", err)),
			logging.String(logging.FieldEventType, "alignment_save_failed"))
		return align.Result{}, false
	}
	logger.Info("notes aligned to transcript",
		logging.Int("mapped_sections", result.MappedSections),
		logging.Float64("coverage_percent", result.CoveragePercent))
	return result, true
}

// chargeOwner deducts one job's cost after notes exist. Declines and ledger
// failures leave the job unbilled; the job still completes.
func (o *Orchestrator) chargeOwner(ctx context.Context, logger *slog.Logger, job *registry.Job, hasNotes bool) bool {
	if !hasNotes || strings.TrimSpace(job.Owner) == "" || !o.ledger.Enabled() {
		return false
	}

	o.progress(ctx, job, "Processing payment...")
	result, err := o.ledger.Deduct(ctx, job.Owner, string(job.ActionType))
	if err != nil {
		o.metrics.RecordStageError("billing", "soft")
		logger.Warn("credit deduction failed; completing without charge",
			logging.Error(services.Wrap(services.ErrLedger, "billing", "deduct", "", err)),
			logging.String(logging.FieldEventType, "credit_deduct_failed"))
		return false
	}
	if !result.HasCredits {
		logger.Warn("credit deduction declined",
			logging.String("message", result.Message),
			logging.String(logging.FieldEventType, "credit_deduct_declined"))
		return false
	}

	if err := o.store.UpdateStatus(ctx, job.ID, registry.StatusProcessing, "", registry.WithCreditsDeducted(true)); err != nil {
		logger.Error("persist credit deduction", logging.Error(err))
	}
	job.CreditsDeducted = true
	o.metrics.RecordCreditsDeducted()
	logger.Info("credits deducted", logging.Int("remaining", result.CurrentCredits))
	return true
}
