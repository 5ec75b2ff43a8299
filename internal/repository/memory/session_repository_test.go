package memory

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"digital-twin-be/pkg/store"
)

func TestGetOrCreate(t *testing.T) {
	repo := NewSessionRepository()

	s1 := repo.GetOrCreate("abc")
	if s1.ID != "abc" {
		t.Errorf("ID = %q", s1.ID)
	}
	if s1.PreferredLanguage != store.LangEnglish {
		t.Errorf("PreferredLanguage = %q, want en default", s1.PreferredLanguage)
	}

	s2 := repo.GetOrCreate("abc")
	if s1 != s2 {
		t.Error("GetOrCreate should return the same session instance")
	}
	if repo.Len() != 1 {
		t.Errorf("Len() = %d", repo.Len())
	}
}

func TestAppendAndContext(t *testing.T) {
	repo := NewSessionRepository()

	repo.Append("s", store.RoleUser, "Tell me about LEGOLAS")
	repo.Append("s", store.RoleAssistant, "It is a golf training system.")
	repo.Append("s", store.RoleUser, "Who are the authors?")

	t.Run("turns are ordered", func(t *testing.T) {
		turns := repo.History("s", 0)
		if len(turns) != 3 {
			t.Fatalf("History() len = %d", len(turns))
		}
		for i := 1; i < len(turns); i++ {
			if turns[i].Timestamp.Before(turns[i-1].Timestamp) {
				t.Error("turns out of order")
			}
		}
	})

	t.Run("context is role labeled", func(t *testing.T) {
		got := repo.Context("s", 0)
		want := "User: Tell me about LEGOLAS\nAssistant: It is a golf training system.\nUser: Who are the authors?"
		if got != want {
			t.Errorf("Context() = %q, want %q", got, want)
		}
	})

	t.Run("limit keeps most recent turns", func(t *testing.T) {
		got := repo.Context("s", 2)
		if strings.Contains(got, "LEGOLAS") {
			t.Errorf("Context(2) includes oldest turn: %q", got)
		}
		if !strings.HasSuffix(got, "User: Who are the authors?") {
			t.Errorf("Context(2) = %q, want most recent last", got)
		}
	})

	t.Run("unknown session is empty", func(t *testing.T) {
		if got := repo.Context("nope", 0); got != "" {
			t.Errorf("Context(unknown) = %q", got)
		}
	})
}

func TestSeed(t *testing.T) {
	repo := NewSessionRepository()

	repo.Seed("s", []store.Turn{
		{Role: store.RoleUser, Text: "hi"},
		{Role: store.RoleAssistant, Text: "hello"},
	})

	turns := repo.History("s", 0)
	if len(turns) != 2 {
		t.Fatalf("History() len = %d", len(turns))
	}
	for _, turn := range turns {
		if turn.Timestamp.IsZero() {
			t.Error("seeded turn has zero timestamp")
		}
	}
}

func TestPreferredLanguage(t *testing.T) {
	repo := NewSessionRepository()

	if got := repo.PreferredLanguage("missing"); got != store.LangEnglish {
		t.Errorf("PreferredLanguage(missing) = %q", got)
	}

	repo.SetPreferredLanguage("s", store.LangKorean)
	if got := repo.PreferredLanguage("s"); got != store.LangKorean {
		t.Errorf("PreferredLanguage() = %q", got)
	}

	// Setting the same value again is a no-op
	repo.SetPreferredLanguage("s", store.LangKorean)
	if got := repo.PreferredLanguage("s"); got != store.LangKorean {
		t.Errorf("PreferredLanguage() = %q after no-op set", got)
	}
}

func TestEvictOlderThan(t *testing.T) {
	repo := NewSessionRepository()

	repo.Append("old", store.RoleUser, "first message")
	repo.Append("fresh", store.RoleUser, "recent message")

	// Age the old session directly
	old := repo.GetOrCreate("old")
	old.LastUpdatedAt = time.Now().Add(-25 * time.Hour)

	evicted := repo.EvictOlderThan(24 * time.Hour)
	if evicted != 1 {
		t.Errorf("EvictOlderThan() = %d, want 1", evicted)
	}
	if repo.Len() != 1 {
		t.Errorf("Len() = %d after eviction", repo.Len())
	}
	if got := repo.Context("fresh", 0); got == "" {
		t.Error("fresh session was evicted")
	}
}

func TestConcurrentSessions(t *testing.T) {
	repo := NewSessionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", n)
			for j := 0; j < 50; j++ {
				repo.Append(id, store.RoleUser, "msg")
				repo.Context(id, 10)
			}
		}(i)
	}
	wg.Wait()

	if repo.Len() != 8 {
		t.Errorf("Len() = %d, want 8", repo.Len())
	}
	if turns := repo.History("session-0", 0); len(turns) != 50 {
		t.Errorf("History() len = %d, want 50", len(turns))
	}
}
