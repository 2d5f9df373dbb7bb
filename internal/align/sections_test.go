package align

import "testing"

func TestParseSections(t *testing.T) {
	notes := "intro text with no heading\n" +
		"# Overview\n" +
		"\n" +
		"## Sets\n" +
		"Sets are collections.\n" +
		"\n" +
		"They have no duplicates.\n" +
		"### Notation   \n" +
		"Curly braces."

	sections := parseSections(notes)
	if len(sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(sections))
	}

	if sections[0].Title != "Overview" || sections[0].Level != 1 {
		t.Fatalf("first section = %+v, want Overview level 1", sections[0])
	}
	if !sections[0].TitleOnly {
		t.Fatal("heading with no body should be title-only")
	}

	if sections[1].Title != "Sets" || sections[1].Level != 2 {
		t.Fatalf("second section = %+v, want Sets level 2", sections[1])
	}
	if sections[1].Content != "Sets are collections.\nThey have no duplicates." {
		t.Fatalf("second content = %q, blank lines should be dropped", sections[1].Content)
	}
	if sections[1].TitleOnly {
		t.Fatal("section with body must not be title-only")
	}

	if sections[2].Title != "Notation" || sections[2].Level != 3 {
		t.Fatalf("third section = %+v, want Notation level 3", sections[2])
	}
}

func TestParseSectionsNoHeadings(t *testing.T) {
	if sections := parseSections("just prose\nno headings at all"); len(sections) != 0 {
		t.Fatalf("sections = %v, want none", sections)
	}
}

func TestParseSectionsHashWithoutSpaceIsBody(t *testing.T) {
	sections := parseSections("## Tags\n#nospace is not a heading")
	if len(sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(sections))
	}
	if sections[0].Content != "#nospace is not a heading" {
		t.Fatalf("content = %q, hash without space belongs to the body", sections[0].Content)
	}
}
