package rag

import (
	"fmt"
	"strings"

	"github.com/calswann/folio/internal/vectorstore"
)

const systemPrompt = "You are a chatbot that answers questions about Shakespeare's plays. " +
	"Generate responses based on the content in the reference documents provided. " +
	"If the documents don't contain relevant information, say so politely. " +
	"Provide detailed, thoughtful responses based on the Shakespearean content."

// BuildPrompt assembles the generation prompt from the question and the
// retrieved passages, best match first. If the assembled prompt would
// exceed budget characters, the lowest-ranked passages are dropped first;
// the question itself is never truncated.
func BuildPrompt(question string, matches []vectorstore.Match, budget int) string {
	render := func(n int) string {
		var docs strings.Builder
		for i, m := range matches[:n] {
			if i > 0 {
				docs.WriteString("\n\n")
			}
			fmt.Fprintf(&docs, "Document %d:\n%s", i+1, m.Text)
		}
		userPrompt := fmt.Sprintf("Reference Documents:\n%s\n\nQuestion: %s", docs.String(), question)
		return fmt.Sprintf("%s\n\nHuman: %s\n\nAssistant:", systemPrompt, userPrompt)
	}

	for n := len(matches); n > 0; n-- {
		if prompt := render(n); len(prompt) <= budget {
			return prompt
		}
	}
	return render(0)
}
