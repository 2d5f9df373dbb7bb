package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusPalette maps each kind to its bracket label and terminal color.
var statusPalette = [...]struct {
	label string
	color string
}{
	statusInfo:  {label: "INFO", color: ansiBlue},
	statusOK:    {label: "OK", color: ansiGreen},
	statusWarn:  {label: "WARN", color: ansiYellow},
	statusError: {label: "ERROR", color: ansiRed},
}

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func (k statusKind) entry() struct{ label, color string } {
	if int(k) < 0 || int(k) >= len(statusPalette) {
		return statusPalette[statusInfo]
	}
	return statusPalette[k]
}

// renderStatusLine formats one `Label:  [KIND] message` row, colorized for
// terminals when requested.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	entry := kind.entry()

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(entry.label)
	sb.WriteString("]")
	if message != "" {
		sb.WriteString(" ")
		sb.WriteString(message)
	}

	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", sb.String())
	if colorize && entry.color != "" {
		return entry.color + line + ansiReset
	}
	return line
}

// renderSectionHeader returns a `== Title ==` banner plus its underline.
func renderSectionHeader(title string, colorize bool) []string {
	banner := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(banner))
	if !colorize {
		return []string{banner, rule}
	}
	return []string{ansiBlue + banner + ansiReset, ansiBlue + rule + ansiReset}
}

// shouldColorize reports whether writer is an interactive terminal.
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
