// Package response produces the final answer of a chat turn: prompt the
// model with everything the pipeline gathered, then link site references.
package response

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"digital-twin-be/pkg/llm"
	"digital-twin-be/pkg/store"
)

// Input carries everything the generator needs for one turn.
type Input struct {
	ProfileContext string
	SessionContext string
	Passages       []store.Passage
	Links          []store.SiteLink
	Language       string
}

type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{llmProvider: llmProvider, logger: logger}
}

// Generate answers the query from the assembled context and linkifies the
// result. A model failure returns a localized apology instead of an error:
// the turn always produces something presentable.
func (g *Generator) Generate(ctx context.Context, query string, in Input) string {
	prompt := buildResponsePrompt(query, in)

	raw, err := g.llmProvider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}},
		llm.WithTemperature(0.7), llm.WithMaxTokens(1024))
	if err != nil {
		g.logger.Printf("[GENERATION] LLM generation failed: %v", err)
		return generationFailure(in.Language)
	}

	g.logger.Printf("[GENERATION] Answer generated from %d passages (lang: %s)", len(in.Passages), in.Language)
	return Linkify(strings.TrimSpace(raw), in.Links)
}

func buildResponsePrompt(query string, in Input) string {
	var prompt strings.Builder

	prompt.WriteString("You are Kangbeen Ko(고강빈)'s digital twin.\n")
	prompt.WriteString("You help visitors learn more about his academic and professional background using information from his personal website.\n\n")

	prompt.WriteString("## Objective:\n")
	prompt.WriteString("Answer the user's question using only the provided context and profile data. If helpful, guide the user to relevant sections of the site.\n\n")

	prompt.WriteString("## Context Information:\n")
	prompt.WriteString("current time: " + time.Now().UTC().Format(time.RFC3339) + "\n")
	if in.ProfileContext != "" {
		prompt.WriteString(in.ProfileContext + "\n")
	}
	if passages := renderPassages(in.Passages); passages != "" {
		prompt.WriteString("\n## Retrieved Passages:\n")
		prompt.WriteString(passages + "\n")
	}

	prompt.WriteString("\n## Conversation History:\n")
	prompt.WriteString(in.SessionContext + "\n\n")

	prompt.WriteString("## Instructions:\n")
	prompt.WriteString("1. Use the context and conversation to provide an informative, concise answer.\n")
	prompt.WriteString("2. Respond in the same language as the user (Korean or English).\n")
	prompt.WriteString("3. Limit your response to 500 characters unless the context truly demands more.\n")
	prompt.WriteString("4. Do not answer questions unrelated to Kangbeen Ko's profile.\n")
	prompt.WriteString("5. Reference specific sections of the site only if it helps the user find more information.\n")
	prompt.WriteString("6. When you reference a site section, wrap its label in double brackets, e.g. [[Papers]]. Use only the exact labels from the allowed labels list below. Do not invent titles or paraphrase them.\n")
	prompt.WriteString("7. Do not repeat previously mentioned references unless they are essential for clarity.\n\n")

	prompt.WriteString("## Site Map:\n")
	for _, link := range in.Links {
		prompt.WriteString("- " + link.Label + " (" + link.Href + ")\n")
	}

	prompt.WriteString("\n## Allowed Labels (Use exactly as written):\n")
	for _, link := range in.Links {
		prompt.WriteString("- " + link.Label + "\n")
	}

	prompt.WriteString("\n## User Question:\n")
	prompt.WriteString(query + "\n\n")
	prompt.WriteString("## Response:\n")

	return prompt.String()
}

func renderPassages(passages []store.Passage) string {
	if len(passages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		base := "[" + p.DocType + "] " + p.Text
		if p.Summary != "" {
			base += "\n요약: " + p.Summary + "\n키워드: " + strings.Join(p.Keywords, ", ")
		}
		parts = append(parts, base)
	}
	return strings.Join(parts, "\n\n")
}
