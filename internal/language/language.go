package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// codes lists the languages the transcription backends are expected to
// report. The reverse word map is derived from their English display names
// so "english" resolves the same way "en" does.
var codes = []string{
	"en", "es", "fr", "de", "it", "pt", "ja", "ko", "zh", "ru",
	"ar", "hi", "nl", "pl", "sv", "da", "no", "fi", "tr", "uk",
	"cs", "el", "he", "hu", "id", "ro", "th", "vi",
}

// alt3 maps ISO 639-2 bibliographic codes to their 639-1 equivalents.
// x/text resolves the terminological forms on its own.
var alt3 = map[string]string{
	"fre": "fr",
	"ger": "de",
	"dut": "nl",
	"chi": "zh",
}

var byWord map[string]string

func init() {
	byWord = make(map[string]string, len(codes))
	namer := display.English.Languages()
	for _, code := range codes {
		name := namer.Name(xlang.MustParse(code))
		if name == "" {
			continue
		}
		byWord[strings.ToLower(name)] = code
	}
}

// Normalize resolves a backend-reported language identifier to a canonical
// ISO 639-1 code. English names, 639-2 codes, and region-qualified tags all
// collapse to the base code. Empty input, "auto", and unrecognized values
// return "".
func Normalize(raw string) string {
	code := strings.ToLower(strings.TrimSpace(raw))
	switch code {
	case "", "auto":
		return ""
	}
	if mapped, ok := byWord[code]; ok {
		return mapped
	}
	if mapped, ok := alt3[code]; ok {
		return mapped
	}
	tag, err := xlang.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == xlang.No {
		return ""
	}
	return base.String()
}

// DisplayName returns the English name for a language identifier, such as
// "English" for "en". Empty or undetected input yields "Unknown";
// unrecognized values fall back to the uppercased input.
func DisplayName(raw string) string {
	code := Normalize(raw)
	if code == "" {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.EqualFold(trimmed, "auto") {
			return "Unknown"
		}
		return strings.ToUpper(trimmed)
	}
	tag, err := xlang.Parse(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(code)
}
