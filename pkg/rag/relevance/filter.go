// Package relevance gates incoming questions: anything unrelated to the
// portfolio owner's profile is rejected before the rest of the pipeline runs.
package relevance

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"digital-twin-be/pkg/language"
	"digital-twin-be/pkg/llm"
	"digital-twin-be/pkg/llmjson"
)

// Result is the filter's verdict on a query.
type Result struct {
	Relevant bool
	Reason   string
}

// Filter decides query relevance with a cheap rule pass first and an LLM
// classifier for anything the rules cannot settle.
type Filter struct {
	llmProvider llm.LLMProvider
	rules       []Rule
	logger      *log.Logger
}

func NewFilter(llmProvider llm.LLMProvider, rules []Rule, logger *log.Logger) *Filter {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Filter{
		llmProvider: llmProvider,
		rules:       rules,
		logger:      logger,
	}
}

// Check classifies a query. Rule verdicts are final; when no rule matches,
// the LLM classifier decides, and any classifier failure counts as relevant
// so real questions are never lost to transient errors.
func (f *Filter) Check(ctx context.Context, query string) Result {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower != "" {
		for _, rule := range f.rules {
			if rule.Pattern.MatchString(queryLower) {
				return Result{
					Relevant: rule.Verdict == VerdictAccept,
					Reason:   rule.Reason,
				}
			}
		}
	}

	response, err := f.llmProvider.Generate(ctx, buildCheckPrompt(query), llm.WithTemperature(0))
	if err != nil {
		f.logger.Printf("[FILTER] Classifier call failed, accepting query: %v", err)
		return Result{Relevant: true}
	}

	var parsed struct {
		Relevant *bool  `json:"relevant"`
		Reason   string `json:"reason"`
	}
	if err := llmjson.Unmarshal(response, &parsed); err != nil || parsed.Relevant == nil {
		f.logger.Printf("[FILTER] Unparseable classifier response, accepting query: %q", response)
		return Result{Relevant: true}
	}

	result := Result{Relevant: *parsed.Relevant}
	if !result.Relevant {
		result.Reason = parsed.Reason
		if result.Reason == "" {
			result.Reason = "This question is not related to Kangbeen Ko's profile."
		}
	}
	return result
}

// RejectionMessage produces a short localized refusal for an off-topic
// query. The LLM writes it; on failure a fixed message in the visitor's
// language is returned instead.
func (f *Filter) RejectionMessage(ctx context.Context, query, lang string) string {
	response, err := f.llmProvider.Generate(ctx, buildRejectionPrompt(query, lang))
	if err != nil {
		f.logger.Printf("[FILTER] Rejection generation failed, using fixed message: %v", err)
		return fallbackRejection(lang)
	}

	message := strings.TrimSpace(response)
	message = strings.Trim(message, `"'`)
	message = strings.TrimSpace(message)
	if message == "" {
		return fallbackRejection(lang)
	}
	return message
}

func fallbackRejection(lang string) string {
	if lang == language.Korean {
		return "죄송합니다. 질문이 고강빈의 프로필과 관련이 없습니다. 배경, 교육, 연구, 논문, 프로젝트, 경력에 대해 물어보세요."
	}
	return "Sorry, your question is not related to Kangbeen Ko's profile. Please ask about his background, education, research, publications, projects, or career."
}

func buildCheckPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("Determine whether the user's question meets the following conditions:\n\n")
	prompt.WriteString("1. If the question is a simple greeting (e.g., \"Hello\", \"Hi\") or is asking about your name, identity, or general introduction, set \"relevant\" to true.\n\n")
	prompt.WriteString("2. If the question is related to Kangbeen Ko's profile, including background, education, skills, technologies used, programming languages, experience, research, papers, awards, or career, set \"relevant\" to true.\n\n")
	prompt.WriteString("3. Only if the question is clearly unrelated or nonsensical (e.g., \"What's the weather in Paris?\" or \"Can pigs fly?\"), set \"relevant\" to false.\n\n")
	prompt.WriteString("Respond only in the following strict JSON format. Do not include explanations, markdown, or code blocks.\n\n")
	prompt.WriteString("Example:\n{\n  \"relevant\": true\n}\n\n")
	prompt.WriteString(fmt.Sprintf("Question: %q\n", query))

	return prompt.String()
}

func buildRejectionPrompt(query, lang string) string {
	languageName := "English"
	if lang == language.Korean {
		languageName = "Korean"
	}

	var prompt strings.Builder

	prompt.WriteString("You are Kangbeen Ko(고강빈)'s digital twin assistant. A user asked a question that is not related to Kangbeen Ko's profile.\n\n")
	prompt.WriteString("Generate a brief, polite rejection message that:\n")
	prompt.WriteString("1. Politely declines to answer the unrelated question\n")
	prompt.WriteString("2. Keeps it concise (1-2 sentences)\n")
	prompt.WriteString("3. Responds in " + languageName + "\n")
	prompt.WriteString("4. IMPORTANT: Do NOT use titles or any honorifics. Simply refer to \"Kangbeen Ko\" or \"고강빈\" without titles.\n\n")
	prompt.WriteString(fmt.Sprintf("User's question: %q\n\n", query))
	prompt.WriteString("Rejection message:\n")

	return prompt.String()
}
