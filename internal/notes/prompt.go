package notes

import "fmt"

const systemPrompt = "You are an expert AI learning assistant helping students learn complex material efficiently through bite-sized, focused notes."

const mediaPromptTemplate = `You are given a transcript from an educational video or lecture. Transform it into well-structured, student-friendly notes with short, digestible sections.

Requirements:
- Each section contains 50-60 words maximum of focused explanation.
- Follow the instructor's teaching sequence from start to finish.
- Break complex topics into multiple short sections.
- Use ## for each concept title, bold important terms, and keep definitions in simple language.
- Include one essential example from the lecture when relevant.

Transcript to process:
%s

Generate sequential, short-format learning notes (50-60 words per section):`

const documentPromptTemplate = `You are given text extracted from a document. Transform it into bite-sized study notes that keep the document's logical flow and academic accuracy.

Requirements:
- Each section contains 50-60 words maximum of focused explanation.
- Organize content in the order it appears in the source.
- Break complex topics into multiple short sections.
- Use ## for each concept title, bold important terms, and keep definitions in simple language.
- Include one essential example when relevant.

Document text to process:
%s

Generate sequential, short-format study notes (50-60 words per section):`

func buildPrompt(kind Kind, content string) string {
	if kind == KindDocument {
		return fmt.Sprintf(documentPromptTemplate, content)
	}
	return fmt.Sprintf(mediaPromptTemplate, content)
}
