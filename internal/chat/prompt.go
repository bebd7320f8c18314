// Package chat is the chapter-context tutor: it grounds an
// OpenAI-compatible chat model in one chapter's concepts and formulas
// and answers learner questions about it.
package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/neetsprint/neetsprint-server/internal/content"
)

const (
	maxPromptConcepts = 10
	maxPromptFormulas = 10
	maxIntroChars     = 500
	maxNotesChars     = 300
)

// PromptFromChapter builds the tutor system prompt from chapter
// material. Long fields are truncated so the context stays small.
func PromptFromChapter(ch content.Chapter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert NEET tutor helping a student understand %s", ch.Title)
	if ch.Subject != "" {
		fmt.Fprintf(&b, " in %s", ch.Subject)
	}
	b.WriteString(".\n\n")

	if len(ch.KeyConcepts) > 0 {
		b.WriteString("Key concepts in this chapter:\n")
		for i, c := range ch.KeyConcepts {
			if i == maxPromptConcepts {
				break
			}
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, c.Title, c.Description)
			if c.Formula != "" {
				fmt.Fprintf(&b, "   Formula: %s\n", c.Formula)
			}
		}
		b.WriteString("\n")
	}

	if len(ch.Formulas) > 0 {
		b.WriteString("Important formulas:\n")
		for i, f := range ch.Formulas {
			if i == maxPromptFormulas {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, f)
		}
		b.WriteString("\n")
	}

	if ch.Introduction != "" {
		fmt.Fprintf(&b, "Chapter introduction: %s\n\n", truncate(ch.Introduction, maxIntroChars))
	}
	if ch.Notes != "" {
		fmt.Fprintf(&b, "Additional context: %s\n\n", truncate(ch.Notes, maxNotesChars))
	}

	b.WriteString(`Instructions:
- Provide clear, concise explanations tailored for NEET preparation
- Reference specific concepts, formulas, or examples from this chapter when relevant
- Use simple language but maintain scientific accuracy
- If asked about something not in this chapter, acknowledge it and offer to help with chapter content instead
- Keep responses focused and educational
- Format formulas clearly when mentioned
- Be encouraging and supportive
- Always relate answers back to NEET exam relevance when possible
`)
	return b.String()
}

// truncate cuts s to at most n bytes, backing up to a rune boundary so
// multi-byte text stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
