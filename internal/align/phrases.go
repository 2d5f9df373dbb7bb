package align

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	boldPattern    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern  = regexp.MustCompile(`\*([^*]+)\*`)
	codePattern    = regexp.MustCompile("`([^`]+)`")
	bulletPattern  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	quotedPattern  = regexp.MustCompile(`"([^"]+)"`)
	fillerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(this|that|these|those|it|they)\s+(is|are|was|were)`),
		regexp.MustCompile(`^(in|on|at|for|with|by)\s+this`),
		regexp.MustCompile(`^(here|there)\s+(is|are)`),
		regexp.MustCompile(`^(as\s+we\s+can\s+see|as\s+mentioned|as\s+discussed)`),
		regexp.MustCompile(`^(the\s+following|the\s+above|the\s+below)`),
	}
)

// extractKeyPhrases pulls candidate match phrases out of section text:
// sentences inside a length window that are not discourse filler, plus any
// quoted spans. The count is capped to bound scoring work.
func extractKeyPhrases(content string) []string {
	clean := boldPattern.ReplaceAllString(content, "$1")
	clean = italicPattern.ReplaceAllString(clean, "$1")
	clean = codePattern.ReplaceAllString(clean, "$1")
	clean = bulletPattern.ReplaceAllString(clean, "")

	phrases := make([]string, 0, maxPhrasesPerSection)
	for _, sentence := range sentenceSplit.Split(clean, -1) {
		sentence = strings.TrimSpace(sentence)
		length := utf8.RuneCountInString(sentence)
		if length <= minPhraseChars || length >= maxPhraseChars {
			continue
		}
		if isFillerSentence(sentence) {
			continue
		}
		phrases = append(phrases, sentence)
	}

	for _, quote := range quotedPattern.FindAllStringSubmatch(content, -1) {
		if utf8.RuneCountInString(quote[1]) > minQuoteChars {
			phrases = append(phrases, quote[1])
		}
	}

	if len(phrases) > maxPhrasesPerSection {
		phrases = phrases[:maxPhrasesPerSection]
	}
	return phrases
}

// isFillerSentence reports whether a sentence opens with a discourse marker
// that carries no alignable content.
func isFillerSentence(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, pattern := range fillerPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}
