package align

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ExportJSON renders the result as indented JSON for programmatic consumers.
func ExportJSON(result Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode alignment result: %w", err)
	}
	return string(data), nil
}

// ExportMarkdown renders an annotated outline: every section header carries
// its mapped time range (or a no-timestamp marker), title-only sections are
// tagged, and matched ranges are listed as evidence bullets.
func ExportMarkdown(result Result) string {
	var b strings.Builder
	b.WriteString("# Timestamped Learning Notes\n\n")
	fmt.Fprintf(&b, "**Coverage:** %.1f%% of original audio\n\n", result.CoveragePercent)
	b.WriteString("---\n\n")

	for _, section := range result.Sections {
		header := strings.Repeat("#", section.Level+1)

		timestampTag := " `[No timestamp found]`"
		if section.StartTime != nil && section.EndTime != nil {
			timestampTag = fmt.Sprintf(" `[%s - %s]`", clockTime(*section.StartTime), clockTime(*section.EndTime))
		}
		typeTag := ""
		if section.TitleOnly() {
			typeTag = " `[TITLE]`"
		}
		fmt.Fprintf(&b, "%s %s%s%s\n\n", header, section.Title, timestampTag, typeTag)

		if strings.TrimSpace(section.Content) != "" {
			b.WriteString(section.Content)
			b.WriteString("\n\n")
		} else if section.TitleOnly() {
			b.WriteString("*This is a title-only section without additional content.*\n\n")
		}

		if len(section.Timestamps) > 0 {
			b.WriteString("**Audio Segments:**\n")
			for _, ts := range section.Timestamps {
				fmt.Fprintf(&b, "- %s - %s: %s...\n", clockTime(ts.Start), clockTime(ts.End), truncateRunes(ts.Text, 100))
			}
			b.WriteString("\n")
		}

		b.WriteString("---\n\n")
	}

	return b.String()
}

// ExportSRT renders mapped sections as SRT cues numbered from 1; unmapped
// sections produce no cue.
func ExportSRT(result Result) string {
	var b strings.Builder
	counter := 1
	for _, section := range result.Sections {
		if len(section.Timestamps) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%d\n", counter)
		fmt.Fprintf(&b, "%s --> %s\n", srtTime(*section.StartTime), srtTime(*section.EndTime))
		fmt.Fprintf(&b, "%s\n\n", section.Title)
		counter++
	}
	return b.String()
}

// ExportVTT renders mapped sections as WebVTT cues.
func ExportVTT(result Result) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, section := range result.Sections {
		if len(section.Timestamps) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s --> %s\n", vttTime(*section.StartTime), vttTime(*section.EndTime))
		fmt.Fprintf(&b, "%s\n\n", section.Title)
	}
	return b.String()
}

// srtTime formats seconds as HH:MM:SS,mmm.
func srtTime(seconds float64) string {
	h, m, s, ms := splitClock(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// vttTime formats seconds as HH:MM:SS.mmm.
func vttTime(seconds float64) string {
	h, m, s, ms := splitClock(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// clockTime formats seconds as MM:SS; minutes grow past 59 unbounded.
func clockTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func splitClock(seconds float64) (h, m, s, ms int) {
	total := int(seconds)
	h = total / 3600
	m = (total % 3600) / 60
	s = total % 60
	ms = int((seconds - math.Floor(seconds)) * 1000)
	return h, m, s, ms
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
