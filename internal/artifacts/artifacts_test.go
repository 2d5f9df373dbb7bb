package artifacts_test

import (
	"os"
	"strings"
	"testing"

	"lectern/internal/align"
	"lectern/internal/artifacts"
	"lectern/internal/testsupport"
)

func TestSaveTranscriptFormat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := artifacts.NewStore(cfg, nil)

	segments := []align.Segment{
		{Start: 0, End: 4.5, Text: "welcome to the course"},
		{Start: 4.5, End: 9, Text: "today we study sets"},
	}
	path, err := store.SaveTranscript("job-1", "English", "welcome to the course today we study sets", segments)
	if err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "Transcription Result\nLanguage: English\n") {
		t.Fatalf("transcript header wrong:\n%s", content)
	}
	if !strings.Contains(content, strings.Repeat("=", 50)) {
		t.Fatalf("transcript missing divider:\n%s", content)
	}
	if !strings.Contains(content, "Detailed Segments:\n\n[0.00s - 4.50s]: welcome to the course\n[4.50s - 9.00s]: today we study sets\n") {
		t.Fatalf("transcript segments wrong:\n%s", content)
	}
}

func TestSaveNotesWritesBothRenditions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := artifacts.NewStore(cfg, nil)

	notes := "# Title\n\n- **Key** point"
	mdPath, txtPath, err := store.SaveNotes("job-2", notes)
	if err != nil {
		t.Fatalf("SaveNotes failed: %v", err)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown notes: %v", err)
	}
	if string(md) != notes {
		t.Fatalf("markdown notes altered: %q", md)
	}

	txt, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatalf("read text notes: %v", err)
	}
	if string(txt) != "Title\n\n• Key point" {
		t.Fatalf("text notes = %q", txt)
	}
}

func TestSaveAlignedWritesAllFormats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := artifacts.NewStore(cfg, nil)

	start := 5.0
	end := 12.0
	result := align.Result{
		Sections: []align.SectionMapping{{
			Title: "Sets",
			Level: 2,
			Timestamps: []align.Match{
				{Start: 5, End: 12, Text: "sets are collections", Similarity: 1, MatchedPhrase: "p", SegmentCount: 1},
			},
			StartTime: &start,
			EndTime:   &end,
			Duration:  7,
		}},
		TotalSections:   1,
		MappedSections:  1,
		CoveragePercent: 58.3,
	}

	if err := store.SaveAligned("job-3", result); err != nil {
		t.Fatalf("SaveAligned failed: %v", err)
	}

	for _, path := range []string{
		store.AlignedJSONPath("job-3"),
		store.AlignedMarkdownPath("job-3"),
		store.SRTPath("job-3"),
		store.VTTPath("job-3"),
	} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing artifact %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("artifact %s is empty", path)
		}
	}

	if !store.HasTimestampedNotes("job-3") {
		t.Fatal("HasTimestampedNotes should see the aligned JSON")
	}
	if store.HasTimestampedNotes("job-other") {
		t.Fatal("HasTimestampedNotes must not report other jobs")
	}
}

func TestJobArtifactsProbe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := artifacts.NewStore(cfg, nil)

	if names := store.JobArtifacts("job-4"); len(names) != 0 {
		t.Fatalf("probe of absent job = %v, want none", names)
	}

	if _, _, err := store.SaveNotes("job-4", "# Notes"); err != nil {
		t.Fatalf("SaveNotes failed: %v", err)
	}

	names := store.JobArtifacts("job-4")
	if len(names) != 2 {
		t.Fatalf("probe = %v, want the two notes artifacts", names)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "job-4_notes.") {
			t.Fatalf("unexpected artifact name %q", name)
		}
	}

	if names := store.JobArtifacts("../job-4"); names != nil {
		t.Fatalf("traversal id must probe nothing, got %v", names)
	}
	if names := store.JobArtifacts(""); names != nil {
		t.Fatalf("empty id must probe nothing, got %v", names)
	}
}

func TestSaveExtractedText(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := artifacts.NewStore(cfg, nil)

	path, err := store.SaveExtractedText("job-6", "chapter one of the syllabus")
	if err != nil {
		t.Fatalf("SaveExtractedText failed: %v", err)
	}
	if path != store.ExtractedTextPath("job-6") {
		t.Fatalf("path = %q, want %q", path, store.ExtractedTextPath("job-6"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read extracted text: %v", err)
	}
	if string(data) != "chapter one of the syllabus" {
		t.Fatalf("extracted text = %q", data)
	}

	names := store.JobArtifacts("job-6")
	if len(names) != 1 || names[0] != "job-6_extracted_text.txt" {
		t.Fatalf("probe = %v, want the extracted text artifact", names)
	}
}

func TestWritesAreAtomicOverwrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := artifacts.NewStore(cfg, nil)

	if _, _, err := store.SaveNotes("job-5", "first version"); err != nil {
		t.Fatalf("SaveNotes failed: %v", err)
	}
	if _, _, err := store.SaveNotes("job-5", "second version"); err != nil {
		t.Fatalf("SaveNotes overwrite failed: %v", err)
	}

	data, err := os.ReadFile(store.NotesMarkdownPath("job-5"))
	if err != nil {
		t.Fatalf("read notes: %v", err)
	}
	if string(data) != "second version" {
		t.Fatalf("notes = %q, want overwrite to win", data)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".artifact-") {
			t.Fatalf("leftover temp file %s", entry.Name())
		}
	}
}
