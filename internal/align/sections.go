package align

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// noteSection is one heading-delimited block of the notes document.
type noteSection struct {
	Title     string
	Content   string
	Level     int
	TitleOnly bool
}

// parseSections splits a markdown notes document into ordered sections.
// Text before the first heading is ignored; blank lines are dropped.
func parseSections(notes string) []noteSection {
	var sections []noteSection
	var current *noteSection
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.Join(body, "\n")
		current.TitleOnly = strings.TrimSpace(current.Content) == ""
		sections = append(sections, *current)
	}

	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &noteSection{
				Title: strings.TrimSpace(m[2]),
				Level: len(m[1]),
			}
			body = body[:0]
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections
}
