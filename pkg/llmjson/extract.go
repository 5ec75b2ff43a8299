// Package llmjson parses JSON payloads out of raw LLM completions, which
// routinely arrive wrapped in markdown fences or explanatory prose.
package llmjson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Clean strips markdown code fences and surrounding whitespace from a raw
// model response.
func Clean(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// ExtractObject isolates the first top-level JSON object from a response.
// When no object delimiters are found the cleaned response is returned as-is
// so the caller's unmarshal produces a useful error.
func ExtractObject(response string) string {
	response = Clean(response)

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx <= startIdx {
		return response
	}

	return response[startIdx : endIdx+1]
}

// Unmarshal extracts the first JSON object from a raw model response and
// decodes it into v.
func Unmarshal(response string, v any) error {
	content := ExtractObject(response)
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("json unmarshal failed: %w", err)
	}
	return nil
}
