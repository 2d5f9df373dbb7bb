package main

import (
	"fmt"
	"strings"

	"lectern/internal/config"
	"lectern/internal/ipc"
	"lectern/internal/preflight"
)

func systemStatusLines(cfg *config.Config, status *ipc.StatusResponse, colorize bool) []string {
	lines := make([]string, 0, 8)
	if status.Running {
		lines = append(lines, renderStatusLine("Lectern", statusOK, "Running", colorize))
		workerDetail := fmt.Sprintf("%d active (queue depth %d)", status.Workers, status.QueueDepth)
		lines = append(lines, renderStatusLine("Workers", statusOK, workerDetail, colorize))
	} else {
		lines = append(lines, renderStatusLine("Lectern", statusWarn, "Not running (run `lectern start`)", colorize))
	}
	if strings.TrimSpace(status.LastError) != "" {
		lines = append(lines, renderStatusLine("Last Error", statusWarn, status.LastError, colorize))
	}
	if status.LastJob != nil {
		detail := fmt.Sprintf("%s (%s)", shortJobID(status.LastJob.ID), formatStatusLabel(status.LastJob.Status))
		lines = append(lines, renderStatusLine("Last Job", statusInfo, detail, colorize))
	}
	if cfg == nil {
		return lines
	}

	if cfg.NotesEnabled() {
		lines = append(lines, renderStatusLine("Notes LLM", statusOK, "Configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("Notes LLM", statusWarn, "Not configured (transcripts only)", colorize))
	}

	if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
		lines = append(lines, renderStatusLine("Notifications", statusOK, "Configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("Notifications", statusWarn, "Not configured", colorize))
	}

	if cfg.EventsEnabled() {
		detail := fmt.Sprintf("Kafka (%s)", strings.Join(cfg.Events.Brokers, ", "))
		lines = append(lines, renderStatusLine("Events", statusOK, detail, colorize))
	} else {
		lines = append(lines, renderStatusLine("Events", statusInfo, "Disabled", colorize))
	}

	if cfg.BillingEnabled() {
		lines = append(lines, renderStatusLine("Billing", statusOK, "Credit ledger configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("Billing", statusInfo, "Disabled", colorize))
	}

	return lines
}

func directoryLines(cfg *config.Config, colorize bool) []string {
	if cfg == nil {
		return nil
	}
	lines := make([]string, 0, 3)
	for _, dir := range []struct {
		label string
		path  string
	}{
		{label: "Staging", path: cfg.Paths.StagingDir},
		{label: "Output", path: cfg.Paths.OutputDir},
		{label: "Logs", path: cfg.Paths.LogDir},
	} {
		lines = append(lines, directoryStatusLine(dir.label, dir.path, colorize))
	}
	return lines
}

func directoryStatusLine(label, path string, colorize bool) string {
	result := preflight.CheckDirectoryAccess(label, path)
	if result.Passed {
		return renderStatusLine(label, statusOK, result.Detail, colorize)
	}
	return renderStatusLine(label, statusError, result.Detail, colorize)
}
