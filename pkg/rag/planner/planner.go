// Package planner decides whether answering a query needs a vector-index
// lookup or can be generated directly from the static profile.
package planner

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"digital-twin-be/pkg/llm"
	"digital-twin-be/pkg/llmjson"
)

// Plan is the planner's decision for one query.
type Plan struct {
	Relevant          bool `json:"relevant"`
	RetrievalRequired bool `json:"retrievalRequired"`
}

type Planner struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewPlanner(llmProvider llm.LLMProvider, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Planner{llmProvider: llmProvider, logger: logger}
}

// Plan classifies the query with a strict-JSON prompt. Any call or parse
// failure falls back to {relevant, retrieval required}, the conservative
// path that still answers the user.
func (p *Planner) Plan(ctx context.Context, query string) Plan {
	fallback := Plan{Relevant: true, RetrievalRequired: true}

	response, err := p.llmProvider.Generate(ctx, buildPlanPrompt(query), llm.WithTemperature(0))
	if err != nil {
		p.logger.Printf("[PLANNER] LLM call failed, assuming retrieval required: %v", err)
		return fallback
	}

	var parsed struct {
		Relevant          *bool `json:"relevant"`
		RetrievalRequired *bool `json:"retrievalRequired"`
	}
	if err := llmjson.Unmarshal(response, &parsed); err != nil {
		p.logger.Printf("[PLANNER] Unparseable plan response, assuming retrieval required: %q", response)
		return fallback
	}

	plan := fallback
	if parsed.Relevant != nil {
		plan.Relevant = *parsed.Relevant
	}
	if parsed.RetrievalRequired != nil {
		plan.RetrievalRequired = *parsed.RetrievalRequired
	}
	return plan
}

func buildPlanPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("Determine whether the user's question meets the following conditions:\n\n")
	prompt.WriteString("1. If the question is a simple greeting (e.g., \"Hello\", \"Hi\") or is asking about your name, identity, or general introduction, set \"relevant\" to true.\n\n")
	prompt.WriteString("2. If the question is related to Kangbeen Ko's profile, including background, education, skills, technologies used, programming languages, experience, research, papers, awards, or career, set \"relevant\" to true.\n\n")
	prompt.WriteString("3. Only if the question is clearly unrelated or nonsensical (e.g., \"What's the weather in Paris?\" or \"Can pigs fly?\"), set \"relevant\" to false.\n\n")
	prompt.WriteString("4. Set \"retrievalRequired\" to false if the answer can be generated directly without retrieving any information.\n")
	prompt.WriteString("   If more detailed search is needed (e.g., from documents or long context), set it to true.\n\n")
	prompt.WriteString("Respond only in the following strict JSON format. Do not include explanations, markdown, or code blocks.\n\n")
	prompt.WriteString("Example:\n{\n  \"relevant\": true,\n  \"retrievalRequired\": false\n}\n\n")
	prompt.WriteString(fmt.Sprintf("Question: %q\n", query))

	return prompt.String()
}
