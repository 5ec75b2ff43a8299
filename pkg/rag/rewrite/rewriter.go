// Package rewrite turns vague follow-up questions into precise standalone
// queries before retrieval.
package rewrite

import (
	"context"
	"io"
	"log"
	"regexp"
	"strings"

	"digital-twin-be/pkg/llm"
)

var (
	rewrittenPrefix = regexp.MustCompile(`(?i)^rewritten question:\s*`)
	interrogative   = regexp.MustCompile(`^\s*(what|which|who|when|why|how)\b`)
)

// IsLikelyQuestion reports whether text already reads as a direct question:
// it ends with a question mark or opens with an interrogative.
func IsLikelyQuestion(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	return strings.HasSuffix(lowered, "?") || interrogative.MatchString(lowered)
}

type Rewriter struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewRewriter(llmProvider llm.LLMProvider, logger *log.Logger) *Rewriter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Rewriter{llmProvider: llmProvider, logger: logger}
}

// Rewrite clarifies an ambiguous query in the context of the conversation.
// First-turn queries pass through untouched, and any LLM failure returns the
// original query so a rewrite problem never loses the user's question.
func (r *Rewriter) Rewrite(ctx context.Context, query string, history []llm.Message) string {
	if len(history) == 0 {
		return query
	}

	response, err := r.llmProvider.Generate(ctx, buildRewritePrompt(query, history))
	if err != nil {
		r.logger.Printf("[REWRITE] LLM call failed, keeping original query: %v", err)
		return query
	}

	rewritten := strings.TrimSpace(response)
	rewritten = rewrittenPrefix.ReplaceAllString(rewritten, "")
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return query
	}
	return rewritten
}

func buildRewritePrompt(query string, history []llm.Message) string {
	var prompt strings.Builder

	prompt.WriteString("You are rewriting a user question to make it more precise, assuming the subject is a graduate student researcher.\n\n")

	prompt.WriteString("## Profile Assumption:\n")
	prompt.WriteString("The subject is an M.S. student at HCIS Lab, GIST (Gwangju Institute of Science and Technology), focused on AI x HCI research.\n")
	prompt.WriteString("They are a product-minded builder passionate about improving human life through responsible and innovative technologies.\n")
	prompt.WriteString("Their \"work\" often refers to academic research, publications, and technically rigorous projects.\n\n")

	prompt.WriteString("## Objective:\n")
	prompt.WriteString("- Clarify vague or ambiguous user queries.\n")
	prompt.WriteString("- Reflect the most likely intent in an academic and research-driven context.\n")
	prompt.WriteString("- If the original question is clear, return it unchanged.\n\n")

	prompt.WriteString("## Guidelines:\n")
	prompt.WriteString("1. Interpret general terms like \"your recent work\", \"your contributions\", or \"your project\" as referring to research output (e.g., publications or research projects), unless clearly meant otherwise.\n")
	prompt.WriteString("2. Use reasonable assumptions about academic and research communication, but do not invent facts.\n")
	prompt.WriteString("3. Preserve the original user intent and tone.\n")
	prompt.WriteString("4. Only rewrite if ambiguity exists. Otherwise, return the question unchanged.\n\n")

	prompt.WriteString("## Examples:\n")
	prompt.WriteString("- \"Tell me more about his latest work.\" -> \"Tell me more about Kangbeen Ko's most recent research publication.\"\n")
	prompt.WriteString("- \"What are you currently working on?\" -> \"What research are you currently working on?\"\n\n")

	prompt.WriteString("## Conversation So Far:\n")
	for _, msg := range history {
		role := "User"
		if msg.Role != "user" {
			role = "Assistant"
		}
		prompt.WriteString(role + ": " + msg.Content + "\n")
	}
	prompt.WriteString("\n## Input:\n")
	prompt.WriteString("Current user question: " + query + "\n\n")
	prompt.WriteString("Rewritten question:\n")

	return prompt.String()
}
