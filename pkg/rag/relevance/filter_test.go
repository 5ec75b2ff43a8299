package relevance

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"digital-twin-be/pkg/language"
	"digital-twin-be/pkg/llm"
)

// stubLLM returns a canned response or error for every call.
type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, opts...)
}

func TestCheckRules(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantRelevant bool
	}{
		{"weather rejected", "What is the weather in Paris today?", false},
		{"korean weather rejected", "오늘 날씨 어때?", false},
		{"cooking rejected", "how to cook pasta", false},
		{"stock rejected", "Should I buy this stock?", false},
		{"owner name accepted", "Who is Kangbeen?", true},
		{"korean owner name accepted", "고강빈이 누구야?", true},
		{"research accepted", "Tell me about his research", true},
		{"education accepted", "What degree does he hold?", true},
		{"greeting accepted", "hello there", true},
		{"korean greeting accepted", "안녕하세요", true},
	}

	filter := NewFilter(&stubLLM{err: errors.New("should not be called")}, nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Check(context.Background(), tt.query)
			if got.Relevant != tt.wantRelevant {
				t.Errorf("Check(%q).Relevant = %v, want %v", tt.query, got.Relevant, tt.wantRelevant)
			}
			if !got.Relevant && got.Reason == "" {
				t.Errorf("Check(%q) rejected without a reason", tt.query)
			}
		})
	}
}

func TestCheckRejectRuleWinsOverAccept(t *testing.T) {
	// The query matches both a reject rule (movie) and an accept rule
	// (kangbeen); reject rules are ordered first so they win.
	filter := NewFilter(&stubLLM{err: errors.New("unused")}, nil, nil)
	got := filter.Check(context.Background(), "What movie does Kangbeen like?")
	if got.Relevant {
		t.Error("reject rule should win when both tiers match")
	}
}

func TestCheckLLMFallback(t *testing.T) {
	t.Run("classifier says irrelevant", func(t *testing.T) {
		stub := &stubLLM{response: `{"relevant": false}`}
		filter := NewFilter(stub, nil, nil)
		got := filter.Check(context.Background(), "gaojwfi hseqz")
		if got.Relevant {
			t.Error("expected classifier rejection to propagate")
		}
		if got.Reason == "" {
			t.Error("rejection should carry a default reason")
		}
	})

	t.Run("classifier error fails open", func(t *testing.T) {
		stub := &stubLLM{err: errors.New("backend down")}
		filter := NewFilter(stub, nil, nil)
		got := filter.Check(context.Background(), "gaojwfi hseqz")
		if !got.Relevant {
			t.Error("classifier error must fail open to relevant")
		}
	})

	t.Run("unparseable response fails open", func(t *testing.T) {
		stub := &stubLLM{response: "I think this question is fine."}
		filter := NewFilter(stub, nil, nil)
		got := filter.Check(context.Background(), "gaojwfi hseqz")
		if !got.Relevant {
			t.Error("parse failure must fail open to relevant")
		}
	})

	t.Run("fenced response parses", func(t *testing.T) {
		stub := &stubLLM{response: "```json\n{\"relevant\": true}\n```"}
		filter := NewFilter(stub, nil, nil)
		got := filter.Check(context.Background(), "gaojwfi hseqz")
		if !got.Relevant {
			t.Error("fenced JSON should parse as relevant")
		}
	})
}

func TestRejectionMessage(t *testing.T) {
	t.Run("uses llm output", func(t *testing.T) {
		stub := &stubLLM{response: `"Sorry, I can only talk about Kangbeen Ko."`}
		filter := NewFilter(stub, nil, nil)
		got := filter.RejectionMessage(context.Background(), "weather?", language.English)
		if got != "Sorry, I can only talk about Kangbeen Ko." {
			t.Errorf("RejectionMessage() = %q", got)
		}
	})

	t.Run("english fallback on error", func(t *testing.T) {
		stub := &stubLLM{err: errors.New("backend down")}
		filter := NewFilter(stub, nil, nil)
		got := filter.RejectionMessage(context.Background(), "weather?", language.English)
		if got != fallbackRejection(language.English) {
			t.Errorf("RejectionMessage() = %q, want english fallback", got)
		}
	})

	t.Run("korean fallback on error", func(t *testing.T) {
		stub := &stubLLM{err: errors.New("backend down")}
		filter := NewFilter(stub, nil, nil)
		got := filter.RejectionMessage(context.Background(), "날씨?", language.Korean)
		if got != fallbackRejection(language.Korean) {
			t.Errorf("RejectionMessage() = %q, want korean fallback", got)
		}
	})
}

func TestCheckLogsDegradePaths(t *testing.T) {
	t.Run("classifier failure", func(t *testing.T) {
		var buf bytes.Buffer
		stub := &stubLLM{err: errors.New("backend down")}
		filter := NewFilter(stub, nil, log.New(&buf, "", 0))

		got := filter.Check(context.Background(), "an unmatched question")
		if !got.Relevant {
			t.Fatalf("Check() relevant = false, want fail-open true")
		}
		if !strings.Contains(buf.String(), "[FILTER]") {
			t.Errorf("degraded check left no llm log entry, got %q", buf.String())
		}
	})

	t.Run("unparseable classifier response", func(t *testing.T) {
		var buf bytes.Buffer
		stub := &stubLLM{response: "not json at all"}
		filter := NewFilter(stub, nil, log.New(&buf, "", 0))

		got := filter.Check(context.Background(), "an unmatched question")
		if !got.Relevant {
			t.Fatalf("Check() relevant = false, want fail-open true")
		}
		if !strings.Contains(buf.String(), "[FILTER]") {
			t.Errorf("unparseable response left no llm log entry, got %q", buf.String())
		}
	})

	t.Run("rule verdicts stay silent", func(t *testing.T) {
		var buf bytes.Buffer
		filter := NewFilter(&stubLLM{err: errors.New("unused")}, nil, log.New(&buf, "", 0))

		filter.Check(context.Background(), "what is the weather today?")
		if buf.Len() != 0 {
			t.Errorf("rule-based verdict wrote to llm log: %q", buf.String())
		}
	})
}
