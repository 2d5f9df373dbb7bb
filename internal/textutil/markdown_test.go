package textutil

import "testing"

func TestMarkdownToText(t *testing.T) {
	markdown := "# Lecture Notes\n\n" +
		"## Key **Ideas**\n\n" +
		"- The *gradient* points uphill\n" +
		"- See [the textbook](https://example.com/ch3) for `proofs`\n\n" +
		"---\n\n" +
		"```\ncode that should vanish\n```\n\n" +
		"__Bold__ and _italic_ underscores too."

	got := MarkdownToText(markdown)

	want := "Lecture Notes\n\n" +
		"Key Ideas\n\n" +
		"• The gradient points uphill\n" +
		"• See the textbook for proofs\n\n" +
		"Bold and italic underscores too."
	if got != want {
		t.Fatalf("MarkdownToText mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestMarkdownToTextPlainInputUnchanged(t *testing.T) {
	plain := "Just a paragraph.\n\nAnother paragraph."
	if got := MarkdownToText(plain); got != plain {
		t.Fatalf("plain text altered: %q", got)
	}
}
