package service

import (
	"context"
	"time"

	"digital-twin-be/internal/dto"
	"digital-twin-be/internal/pkg/logger"
	"digital-twin-be/internal/repository/memory"
	"digital-twin-be/pkg/language"
	"digital-twin-be/pkg/llm"
	"digital-twin-be/pkg/profile"
	"digital-twin-be/pkg/rag/planner"
	"digital-twin-be/pkg/rag/relevance"
	"digital-twin-be/pkg/rag/response"
	"digital-twin-be/pkg/rag/rewrite"
	"digital-twin-be/pkg/rag/search"
	"digital-twin-be/pkg/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var chatTracer = otel.Tracer("chat-service")

type IChatService interface {
	SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	SessionCount() int
	EvictSessions(maxAge time.Duration) int
}

type chatService struct {
	sessions     *memory.SessionRepository
	profile      *profile.Memory
	filter       *relevance.Filter
	rewriter     *rewrite.Rewriter
	planner      *planner.Planner
	retriever    *search.Retriever
	generator    *response.Generator
	logger       logger.ILogger
	historyLimit int
	topK         int
	minScore     float64
}

func NewChatService(
	sessions *memory.SessionRepository,
	profileMemory *profile.Memory,
	filter *relevance.Filter,
	rewriter *rewrite.Rewriter,
	plannerSvc *planner.Planner,
	retriever *search.Retriever,
	generator *response.Generator,
	log logger.ILogger,
	historyLimit int,
	topK int,
	minScore float64,
) IChatService {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &chatService{
		sessions:     sessions,
		profile:      profileMemory,
		filter:       filter,
		rewriter:     rewriter,
		planner:      plannerSvc,
		retriever:    retriever,
		generator:    generator,
		logger:       log,
		historyLimit: historyLimit,
		topK:         topK,
		minScore:     minScore,
	}
}

// SendChat runs one full conversational turn. The stages run sequentially;
// each external dependency degrades locally (empty passages, original
// query, fallback plan) so a failure mid-pipeline never aborts the turn.
func (s *chatService) SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	ctx, span := chatTracer.Start(ctx, "chat-turn")
	defer span.End()

	// Session resolve, minting an ID for first-time visitors
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("chat.session_id", sessionID))

	// Client-held history seeds a session we have never seen
	if len(req.History) > 0 && len(s.sessions.History(sessionID, 1)) == 0 {
		s.sessions.Seed(sessionID, turnsFromDTO(req.History))
	}

	lang := language.Detect(req.Message)
	s.sessions.SetPreferredLanguage(sessionID, lang)
	span.SetAttributes(attribute.String("chat.language", lang))

	// Relevance gate
	ctx, gateSpan := chatTracer.Start(ctx, "relevance-check")
	verdict := s.filter.Check(ctx, req.Message)
	gateSpan.SetAttributes(attribute.Bool("chat.relevant", verdict.Relevant))
	gateSpan.End()

	if !verdict.Relevant {
		rejection := s.filter.RejectionMessage(ctx, req.Message, lang)
		s.sessions.Append(sessionID, store.RoleUser, req.Message)
		s.sessions.Append(sessionID, store.RoleAssistant, rejection)
		s.logger.Info("chat", "query rejected as off-topic", map[string]interface{}{
			"session_id": sessionID,
			"reason":     verdict.Reason,
		})
		return &dto.ChatResponse{Response: rejection, SessionID: sessionID}, nil
	}

	// History snapshot before this turn feeds the rewriter
	priorHistory := messagesFromTurns(s.sessions.History(sessionID, s.historyLimit))
	s.sessions.Append(sessionID, store.RoleUser, req.Message)

	ctx, rewriteSpan := chatTracer.Start(ctx, "rewrite-query")
	rewritten := s.rewriter.Rewrite(ctx, req.Message, priorHistory)
	rewriteSpan.End()

	// Plan, skipping retrieval when the rewrite already reads as a direct
	// question the profile context can answer
	var passages []store.Passage
	if rewrite.IsLikelyQuestion(rewritten) && rewritten != req.Message {
		s.logger.Debug("chat", "rewrite is a direct question, skipping retrieval", map[string]interface{}{
			"session_id": sessionID,
		})
	} else {
		ctx, planSpan := chatTracer.Start(ctx, "plan-decision")
		plan := s.planner.Plan(ctx, rewritten)
		planSpan.SetAttributes(attribute.Bool("chat.retrieval_required", plan.RetrievalRequired))
		planSpan.End()

		if plan.RetrievalRequired {
			ctx, searchSpan := chatTracer.Start(ctx, "vector-search")
			passages = s.retriever.Retrieve(ctx, rewritten, search.Options{TopK: s.topK, MinScore: s.minScore})
			searchSpan.SetAttributes(attribute.Int("chat.passages", len(passages)))
			searchSpan.End()
		}
	}

	ctx, genSpan := chatTracer.Start(ctx, "generate-response")
	answer := s.generator.Generate(ctx, req.Message, response.Input{
		ProfileContext: s.profile.ContextForLLM(),
		SessionContext: s.sessions.Context(sessionID, s.historyLimit),
		Passages:       passages,
		Links:          s.profile.SiteLinks(),
		Language:       lang,
	})
	genSpan.End()

	s.sessions.Append(sessionID, store.RoleAssistant, answer)

	return &dto.ChatResponse{Response: answer, SessionID: sessionID}, nil
}

func (s *chatService) SessionCount() int {
	return s.sessions.Len()
}

func (s *chatService) EvictSessions(maxAge time.Duration) int {
	return s.sessions.EvictOlderThan(maxAge)
}

func turnsFromDTO(history []dto.ChatTurn) []store.Turn {
	turns := make([]store.Turn, 0, len(history))
	for _, h := range history {
		role := h.Role
		if role == "model" {
			role = store.RoleAssistant
		}
		turns = append(turns, store.Turn{Role: role, Text: h.Text})
	}
	return turns
}

func messagesFromTurns(turns []store.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Text})
	}
	return messages
}
