package planner

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"digital-twin-be/pkg/llm"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     Plan
	}{
		{
			name:     "direct answer",
			response: `{"relevant": true, "retrievalRequired": false}`,
			want:     Plan{Relevant: true, RetrievalRequired: false},
		},
		{
			name:     "needs retrieval",
			response: `{"relevant": true, "retrievalRequired": true}`,
			want:     Plan{Relevant: true, RetrievalRequired: true},
		},
		{
			name:     "irrelevant",
			response: `{"relevant": false, "retrievalRequired": false}`,
			want:     Plan{Relevant: false, RetrievalRequired: false},
		},
		{
			name:     "fenced response",
			response: "```json\n{\"relevant\": true, \"retrievalRequired\": false}\n```",
			want:     Plan{Relevant: true, RetrievalRequired: false},
		},
		{
			name:     "prose around the object",
			response: `Here you go: {"relevant": true, "retrievalRequired": true} as requested.`,
			want:     Plan{Relevant: true, RetrievalRequired: true},
		},
		{
			name:     "missing field keeps fallback value",
			response: `{"relevant": false}`,
			want:     Plan{Relevant: false, RetrievalRequired: true},
		},
		{
			name:     "unparseable falls back",
			response: "cannot comply",
			want:     Plan{Relevant: true, RetrievalRequired: true},
		},
		{
			name: "llm error falls back",
			err:  errors.New("backend down"),
			want: Plan{Relevant: true, RetrievalRequired: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlanner(&stubLLM{response: tt.response, err: tt.err}, nil)
			got := p.Plan(context.Background(), "Tell me about his CHI paper")
			if got != tt.want {
				t.Errorf("Plan() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlanLogsFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"call failure", "", errors.New("backend down")},
		{"unparseable response", "no json here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPlanner(&stubLLM{response: tt.response, err: tt.err}, log.New(&buf, "", 0))

			got := p.Plan(context.Background(), "Tell me about his CHI paper")
			if want := (Plan{Relevant: true, RetrievalRequired: true}); got != want {
				t.Fatalf("Plan() = %+v, want fallback %+v", got, want)
			}
			if !strings.Contains(buf.String(), "[PLANNER]") {
				t.Errorf("fallback left no llm log entry, got %q", buf.String())
			}
		})
	}
}
