package response

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"digital-twin-be/pkg/language"
	"digital-twin-be/pkg/llm"
	"digital-twin-be/pkg/store"
)

type stubLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) > 0 {
		s.lastPrompt = history[len(history)-1].Content
	}
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestGenerate(t *testing.T) {
	in := Input{
		ProfileContext: "## Education\n- M.S. in AI Convergence at GIST",
		SessionContext: "User: hello\nAssistant: Hi, I am Kangbeen Ko's digital twin.",
		Passages: []store.Passage{
			{Text: "LEGOLAS is a golf training system.", DocType: "publication", Summary: "CHI 2025", Keywords: []string{"golf"}},
		},
		Links:    []store.SiteLink{{Label: "Papers", Href: "/papers"}},
		Language: language.English,
	}

	t.Run("prompt carries context and labels", func(t *testing.T) {
		stub := &stubLLM{response: "He studies at GIST."}
		g := NewGenerator(stub, nil)
		g.Generate(context.Background(), "Where does he study?", in)

		for _, want := range []string{
			"digital twin",
			"## Education",
			"[publication] LEGOLAS is a golf training system.",
			"Conversation History",
			"- Papers (/papers)",
			"Allowed Labels",
			"Where does he study?",
		} {
			if !strings.Contains(stub.lastPrompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	})

	t.Run("markers in the answer are linkified", func(t *testing.T) {
		stub := &stubLLM{response: "See [[Papers]] for details."}
		g := NewGenerator(stub, nil)
		got := g.Generate(context.Background(), "His papers?", in)
		if !strings.Contains(got, `<a href="/papers"`) {
			t.Errorf("Generate() = %q", got)
		}
	})

	t.Run("llm error returns localized apology", func(t *testing.T) {
		stub := &stubLLM{err: errors.New("backend down")}
		g := NewGenerator(stub, nil)

		en := g.Generate(context.Background(), "His papers?", in)
		if en != generationFailure(language.English) {
			t.Errorf("Generate() = %q", en)
		}

		koIn := in
		koIn.Language = language.Korean
		ko := g.Generate(context.Background(), "논문?", koIn)
		if ko != generationFailure(language.Korean) {
			t.Errorf("Generate() = %q", ko)
		}
	})
}

func TestGenerateLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubLLM{err: errors.New("backend down")}
	g := NewGenerator(stub, log.New(&buf, "", 0))

	got := g.Generate(context.Background(), "Where does he study?", Input{Language: language.English})
	if got != generationFailure(language.English) {
		t.Fatalf("Generate() = %q, want localized failure message", got)
	}
	if !strings.Contains(buf.String(), "[GENERATION]") {
		t.Errorf("failed generation left no llm log entry, got %q", buf.String())
	}
}
