package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"digital-twin-be/internal/dto"
	"digital-twin-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	lastReq  *dto.ChatRequest
	response *dto.ChatResponse
	err      error
	sessions int
}

func (s *stubChatService) SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubChatService) SessionCount() int { return s.sessions }

func (s *stubChatService) EvictSessions(maxAge time.Duration) int { return 0 }

func newTestApp(svc *stubChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api)
	return app
}

func postChat(t *testing.T, app *fiber.App, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/api/chat/v1", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	return res
}

func TestChatEndpoint(t *testing.T) {
	svc := &stubChatService{
		response: &dto.ChatResponse{Response: "He studies AI x HCI.", SessionID: "abc-123"},
	}
	app := newTestApp(svc)

	res := postChat(t, app, dto.ChatRequest{Message: "What does he research?"})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var body dto.ChatResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "He studies AI x HCI.", body.Response)
	assert.Equal(t, "abc-123", body.SessionID)
	assert.Equal(t, "What does he research?", svc.lastReq.Message)
}

func TestChatEndpointForwardsSessionAndHistory(t *testing.T) {
	svc := &stubChatService{
		response: &dto.ChatResponse{Response: "ok", SessionID: "s1"},
	}
	app := newTestApp(svc)

	res := postChat(t, app, dto.ChatRequest{
		Message:   "follow up",
		SessionID: "s1",
		History: []dto.ChatTurn{
			{Role: "user", Text: "hello"},
			{Role: "model", Text: "hi"},
		},
	})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "s1", svc.lastReq.SessionID)
	require.Len(t, svc.lastReq.History, 2)
	assert.Equal(t, "model", svc.lastReq.History[1].Role)
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	svc := &stubChatService{}
	app := newTestApp(svc)

	for _, payload := range []interface{}{
		dto.ChatRequest{Message: ""},
		dto.ChatRequest{Message: "   "},
	} {
		res := postChat(t, app, payload)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equal(t, "메시지가 없습니다.", body["error"])
		assert.Nil(t, svc.lastReq)
	}
}

func TestChatEndpointMalformedBody(t *testing.T) {
	app := newTestApp(&stubChatService{})

	req, err := http.NewRequest(http.MethodPost, "/api/chat/v1", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestChatEndpointServiceError(t *testing.T) {
	svc := &stubChatService{err: assert.AnError}
	app := newTestApp(svc)

	res := postChat(t, app, dto.ChatRequest{Message: "boom"})
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "서버 오류가 발생했습니다.", body["error"])
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&stubChatService{sessions: 3})

	req, err := http.NewRequest(http.MethodGet, "/api/chat/v1/health", nil)
	require.NoError(t, err)

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 3, body.Sessions)
}
