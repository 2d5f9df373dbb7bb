package align

import (
	"strings"
	"testing"
)

func exportFixture() Result {
	start := 65.0
	end := 132.5
	return Result{
		Sections: []SectionMapping{
			{
				Title:   "Sets",
				Content: "Sets are collections of elements.",
				Level:   2,
				Timestamps: []Match{
					{Start: 65, End: 132.5, Text: "sets are collections of elements", Similarity: 0.92, MatchedPhrase: "Sets are collections of elements", SegmentCount: 2},
				},
				StartTime: &start,
				EndTime:   &end,
				Duration:  67.5,
			},
			{
				Title:      "Unmapped",
				Content:    "Nothing in the audio matches this.",
				Level:      2,
				Timestamps: []Match{},
			},
			{
				Title:      "Appendix",
				Content:    "",
				Level:      1,
				Timestamps: []Match{},
				titleOnly:  true,
			},
		},
		TotalSections:   3,
		MappedSections:  1,
		CoveragePercent: 58.3,
	}
}

func TestExportJSON(t *testing.T) {
	out, err := ExportJSON(exportFixture())
	if err != nil {
		t.Fatalf("export json: %v", err)
	}

	for _, want := range []string{
		`"coverage_percentage": 58.3`,
		`"total_sections": 3`,
		`"mapped_sections": 1`,
		`"matched_phrase": "Sets are collections of elements"`,
		`"segment_count": 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("json missing %s\n%s", want, out)
		}
	}
	if !strings.Contains(out, `"start_time": null`) {
		t.Errorf("unmapped section should have null start_time\n%s", out)
	}
	if !strings.Contains(out, `"timestamps": []`) {
		t.Errorf("unmapped section should have an empty timestamps array, not null\n%s", out)
	}
}

func TestExportMarkdown(t *testing.T) {
	out := ExportMarkdown(exportFixture())

	for _, want := range []string{
		"# Timestamped Learning Notes",
		"**Coverage:** 58.3% of original audio",
		"### Sets `[01:05 - 02:12]`",
		"**Audio Segments:**",
		"- 01:05 - 02:12: sets are collections of elements...",
		"### Unmapped `[No timestamp found]`",
		"## Appendix `[No timestamp found]` `[TITLE]`",
		"*This is a title-only section without additional content.*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
}

func TestExportSRT(t *testing.T) {
	out := ExportSRT(exportFixture())

	want := "1\n00:01:05,000 --> 00:02:12,500\nSets\n\n"
	if out != want {
		t.Fatalf("srt = %q, want %q", out, want)
	}
}

func TestExportSRTNumbersOnlyMappedSections(t *testing.T) {
	fixture := exportFixture()
	second := fixture.Sections[0]
	second.Title = "Later"
	start := 200.0
	end := 210.0
	second.StartTime = &start
	second.EndTime = &end
	fixture.Sections = append(fixture.Sections, second)

	out := ExportSRT(fixture)
	if !strings.Contains(out, "2\n00:03:20,000") {
		t.Fatalf("second mapped section should be cue 2:\n%s", out)
	}
	if strings.Contains(out, "3\n") {
		t.Fatalf("unmapped sections must not consume cue numbers:\n%s", out)
	}
}

func TestExportVTT(t *testing.T) {
	out := ExportVTT(exportFixture())

	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Fatalf("vtt must start with WEBVTT header: %q", out)
	}
	if !strings.Contains(out, "00:01:05.000 --> 00:02:12.500\nSets\n") {
		t.Fatalf("vtt cue missing:\n%s", out)
	}
}

func TestClockFormats(t *testing.T) {
	cases := []struct {
		seconds float64
		srt     string
		vtt     string
		clock   string
	}{
		{0, "00:00:00,000", "00:00:00.000", "00:00"},
		{75, "00:01:15,000", "00:01:15.000", "01:15"},
		{3661.25, "01:01:01,250", "01:01:01.250", "61:01"},
	}
	for _, tc := range cases {
		if got := srtTime(tc.seconds); got != tc.srt {
			t.Errorf("srtTime(%v) = %q, want %q", tc.seconds, got, tc.srt)
		}
		if got := vttTime(tc.seconds); got != tc.vtt {
			t.Errorf("vttTime(%v) = %q, want %q", tc.seconds, got, tc.vtt)
		}
		if got := clockTime(tc.seconds); got != tc.clock {
			t.Errorf("clockTime(%v) = %q, want %q", tc.seconds, got, tc.clock)
		}
	}
}
