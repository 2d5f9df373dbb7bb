package align

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractKeyPhrasesWindowAndFiller(t *testing.T) {
	content := "Short one. " +
		"Matrix multiplication distributes over addition. " +
		"This is a recap of material we already covered before. " +
		strings.Repeat("x", 210) + ". " +
		"Eigenvalues describe how a transformation scales space!"

	phrases := extractKeyPhrases(content)

	want := []string{
		"Matrix multiplication distributes over addition",
		"Eigenvalues describe how a transformation scales space",
	}
	if len(phrases) != len(want) {
		t.Fatalf("phrases = %q, want %q", phrases, want)
	}
	for i := range want {
		if phrases[i] != want[i] {
			t.Fatalf("phrase %d = %q, want %q", i, phrases[i], want[i])
		}
	}
}

func TestExtractKeyPhrasesStripsFormatting(t *testing.T) {
	content := "- The **discriminant** tells us about `root` *multiplicity* today."
	phrases := extractKeyPhrases(content)
	if len(phrases) != 1 {
		t.Fatalf("phrases = %q, want one", phrases)
	}
	if phrases[0] != "The discriminant tells us about root multiplicity today" {
		t.Fatalf("phrase = %q, formatting should be stripped", phrases[0])
	}
}

func TestExtractKeyPhrasesQuotedSpans(t *testing.T) {
	content := `The speaker said "entropy always increases" and also "so it goes".`
	phrases := extractKeyPhrases(content)

	if !contains(phrases, "entropy always increases") {
		t.Fatalf("phrases = %q, want the long quote included", phrases)
	}
	if contains(phrases, "so it goes") {
		t.Fatalf("phrases = %q, short quote must be excluded", phrases)
	}
}

func TestExtractKeyPhrasesCapped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "Unique sentence number %02d about separate unrelated topics. ", i)
	}
	phrases := extractKeyPhrases(b.String())
	if len(phrases) != maxPhrasesPerSection {
		t.Fatalf("phrases = %d, want capped at %d", len(phrases), maxPhrasesPerSection)
	}
}

func TestIsFillerSentence(t *testing.T) {
	fillers := []string{
		"This is the main takeaway from the lecture",
		"In this section we will explore derivatives",
		"Here are the important formulas to remember",
		"As we can see the plot flattens out",
		"The following points summarize the argument",
	}
	for _, sentence := range fillers {
		if !isFillerSentence(sentence) {
			t.Errorf("isFillerSentence(%q) = false, want true", sentence)
		}
	}

	real := []string{
		"Gradient descent updates weights iteratively",
		"Therefore the integral converges absolutely",
	}
	for _, sentence := range real {
		if isFillerSentence(sentence) {
			t.Errorf("isFillerSentence(%q) = true, want false", sentence)
		}
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
