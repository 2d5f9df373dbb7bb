package textutil

import (
	"regexp"
	"strings"
)

var (
	mdHeaderPattern      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBoldPattern        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdItalicPattern      = regexp.MustCompile(`\*([^*]+)\*`)
	mdBoldUnderPattern   = regexp.MustCompile(`__([^_]+)__`)
	mdItalicUnderPattern = regexp.MustCompile(`_([^_]+)_`)
	mdCodeBlockPattern   = regexp.MustCompile("```[^`]*```")
	mdInlineCodePattern  = regexp.MustCompile("`([^`]+)`")
	mdLinkPattern        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdBulletPattern      = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdRulePattern        = regexp.MustCompile(`(?m)^---+$`)
	mdBlankRunPattern    = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// MarkdownToText reduces markdown to plain text: headers, emphasis, code
// fences, and rules are stripped, links keep their label, bullets become
// bullet glyphs, and blank-line runs collapse.
func MarkdownToText(markdown string) string {
	text := mdHeaderPattern.ReplaceAllString(markdown, "")
	text = mdBoldPattern.ReplaceAllString(text, "$1")
	text = mdItalicPattern.ReplaceAllString(text, "$1")
	text = mdBoldUnderPattern.ReplaceAllString(text, "$1")
	text = mdItalicUnderPattern.ReplaceAllString(text, "$1")
	text = mdCodeBlockPattern.ReplaceAllString(text, "")
	text = mdInlineCodePattern.ReplaceAllString(text, "$1")
	text = mdLinkPattern.ReplaceAllString(text, "$1")
	text = mdBulletPattern.ReplaceAllString(text, "• ")
	text = mdRulePattern.ReplaceAllString(text, "")
	text = mdBlankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
