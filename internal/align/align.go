package align

import (
	"sort"
	"unicode/utf8"

	"lectern/internal/textutil"
)

// Tunables for the matching heuristic. Lengths are in characters, gaps in
// seconds.
const (
	// SimilarityThreshold is the minimum match ratio for a segment to count
	// as evidence for a phrase.
	SimilarityThreshold = 0.3
	// MinSectionContent is the body length below which a section is matched
	// on its title instead.
	MinSectionContent = 10
	// MergeGapSeconds folds claimed segments separated by at most this gap
	// into one range.
	MergeGapSeconds = 5.0

	minPhraseChars       = 20
	maxPhraseChars       = 200
	minQuoteChars        = 10
	maxPhrasesPerSection = 10
	topMatchesPerPhrase  = 3
)

// Segment is a time-coded transcript span.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Match is one merged evidence range claimed by a section.
type Match struct {
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Text          string  `json:"text"`
	Similarity    float64 `json:"similarity"`
	MatchedPhrase string  `json:"matched_phrase"`
	SegmentCount  int     `json:"segment_count"`
}

// SectionMapping carries one note section plus the time ranges attributed to
// it. StartTime and EndTime are nil when nothing matched.
type SectionMapping struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Level      int      `json:"level"`
	Timestamps []Match  `json:"timestamps"`
	StartTime  *float64 `json:"start_time"`
	EndTime    *float64 `json:"end_time"`
	Duration   float64  `json:"duration"`

	titleOnly bool
}

// TitleOnly reports whether the section had a heading but no body text.
func (m SectionMapping) TitleOnly() bool { return m.titleOnly }

// Result is the full outcome of mapping one notes document.
type Result struct {
	Sections        []SectionMapping `json:"sections"`
	TotalSections   int              `json:"total_sections"`
	MappedSections  int              `json:"mapped_sections"`
	CoveragePercent float64          `json:"coverage_percentage"`
}

// MapNotes aligns a notes document against ordered transcript segments.
// Segment claiming is exclusive across the whole document: once a section
// claims a segment index, later sections cannot use it.
func MapNotes(notes string, segments []Segment) Result {
	sections := parseSections(notes)

	segmentPrints := make([]*textutil.Fingerprint, len(segments))
	normalized := make([]string, len(segments))
	for i, seg := range segments {
		normalized[i] = textutil.NormalizeForMatch(seg.Text)
		segmentPrints[i] = textutil.NewFingerprint(seg.Text)
	}

	claimed := make(map[int]bool)
	mappings := make([]SectionMapping, 0, len(sections))
	mapped := 0

	for _, section := range sections {
		matches := claimSection(section, segments, normalized, segmentPrints, claimed)
		merged := mergeAdjacent(matches, MergeGapSeconds)

		mapping := SectionMapping{
			Title:      section.Title,
			Content:    section.Content,
			Level:      section.Level,
			Timestamps: merged,
			titleOnly:  section.TitleOnly,
		}
		if len(merged) > 0 {
			start := merged[0].Start
			end := merged[len(merged)-1].End
			mapping.StartTime = &start
			mapping.EndTime = &end
			mapping.Duration = end - start
			mapped++
		}
		mappings = append(mappings, mapping)
	}

	return Result{
		Sections:        mappings,
		TotalSections:   len(mappings),
		MappedSections:  mapped,
		CoveragePercent: coverage(mappings, segments),
	}
}

// claimSection scores the section's phrases against unclaimed segments and
// claims the winners, returning the raw (unmerged) matches.
func claimSection(section noteSection, segments []Segment, normalized []string, prints []*textutil.Fingerprint, claimed map[int]bool) []Match {
	searchText := section.Content
	if utf8.RuneCountInString(searchText) < MinSectionContent {
		searchText = section.Title
	}

	matches := make([]Match, 0, topMatchesPerPhrase)
	for _, phrase := range extractKeyPhrases(searchText) {
		phrasePrint := textutil.NewFingerprint(phrase)
		phraseNorm := textutil.NormalizeForMatch(phrase)

		candidates := scorePhrase(phraseNorm, phrasePrint, segments, normalized, prints, claimed)
		for _, cand := range candidates {
			if claimed[cand.index] {
				continue
			}
			claimed[cand.index] = true
			seg := segments[cand.index]
			matches = append(matches, Match{
				Start:         seg.Start,
				End:           seg.End,
				Text:          seg.Text,
				Similarity:    cand.similarity,
				MatchedPhrase: phrase,
				SegmentCount:  1,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

type candidate struct {
	index      int
	similarity float64
}

// scorePhrase ranks unclaimed segments against one phrase, keeping the top
// matches above the threshold. Ties keep document order. Segments that share
// no token with the phrase are skipped before the expensive ratio.
func scorePhrase(phraseNorm string, phrasePrint *textutil.Fingerprint, segments []Segment, normalized []string, prints []*textutil.Fingerprint, claimed map[int]bool) []candidate {
	candidates := make([]candidate, 0, 8)
	for i := range segments {
		if claimed[i] {
			continue
		}
		if textutil.CosineSimilarity(phrasePrint, prints[i]) == 0 {
			continue
		}
		similarity := textutil.MatchRatio(phraseNorm, normalized[i])
		if similarity >= SimilarityThreshold {
			candidates = append(candidates, candidate{index: i, similarity: similarity})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})
	if len(candidates) > topMatchesPerPhrase {
		candidates = candidates[:topMatchesPerPhrase]
	}
	return candidates
}

// mergeAdjacent folds matches whose time gap is at most maxGap into single
// ranges. Input must be sorted by start time.
func mergeAdjacent(matches []Match, maxGap float64) []Match {
	merged := make([]Match, 0, len(matches))
	if len(matches) == 0 {
		return merged
	}

	group := []Match{matches[0]}
	for _, match := range matches[1:] {
		if match.Start-group[len(group)-1].End <= maxGap {
			group = append(group, match)
			continue
		}
		merged = append(merged, mergeGroup(group))
		group = []Match{match}
	}
	merged = append(merged, mergeGroup(group))
	return merged
}

func mergeGroup(group []Match) Match {
	if len(group) == 1 {
		return group[0]
	}
	out := Match{
		Start:         group[0].Start,
		End:           group[len(group)-1].End,
		Similarity:    group[0].Similarity,
		MatchedPhrase: group[0].MatchedPhrase,
		SegmentCount:  len(group),
	}
	text := group[0].Text
	for _, m := range group[1:] {
		text += " " + m.Text
		if m.Similarity > out.Similarity {
			out.Similarity = m.Similarity
		}
	}
	out.Text = text
	return out
}

// coverage reports the share of the transcript span attributed to sections,
// as a percentage clamped to [0, 100]. Empty transcripts cover nothing.
func coverage(mappings []SectionMapping, segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	span := segments[len(segments)-1].End - segments[0].Start
	if span <= 0 {
		return 0
	}
	var covered float64
	for _, mapping := range mappings {
		covered += mapping.Duration
	}
	percent := covered / span * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
