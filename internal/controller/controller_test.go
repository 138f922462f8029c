package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/service"
	"rainier-guide-be/pkg/ai/pipeline"
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/trails"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatService struct {
	askErr error
	events []pipeline.ProgressEvent
}

func (f *fakeChatService) Ask(_ context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	if f.askErr != nil {
		return nil, f.askErr
	}
	return &dto.AskResponse{SessionId: "s-1", Question: req.Question, Intent: "permits", Answer: "You need a permit."}, nil
}

func (f *fakeChatService) Stream(_ context.Context, _ *dto.AskRequest) (string, <-chan pipeline.ProgressEvent) {
	ch := make(chan pipeline.ProgressEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return "s-1", ch
}

func (f *fakeChatService) Session(context.Context, string) (*dto.SessionResponse, error) {
	return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	register(app.Group("/api"))
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestChatController_Ask(t *testing.T) {
	tests := []struct {
		name     string
		svc      *fakeChatService
		body     string
		wantCode int
		wantText string
	}{
		{"answered", &fakeChatService{}, `{"question":"Do I need a permit?"}`, 200, "You need a permit."},
		{"bad json", &fakeChatService{}, `{`, 400, "Invalid request body"},
		{"bad session id", &fakeChatService{}, `{"question":"hi","session_id":"nope"}`, 400, "session_id must be a valid UUID"},
		{
			"retrieval unavailable",
			&fakeChatService{askErr: &pipeline.PipelineError{Kind: pipeline.ErrRetrievalUnavailable, UserMessage: "knowledge base down"}},
			`{"question":"permits?"}`, 503, "knowledge base down",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewChatController(tt.svc, nil, nil)
			app := newTestApp(ctrl.RegisterRoutes)
			code, body := post(t, app, "/api/chat/ask", tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, body, tt.wantText)
		})
	}
}

func TestChatController_Stream(t *testing.T) {
	svc := &fakeChatService{events: []pipeline.ProgressEvent{
		{Stage: pipeline.StageClassification, Status: pipeline.StatusProcessing, Progress: 5},
		{Stage: pipeline.StageFinal, Status: pipeline.StatusCompleted, Progress: 100,
			Result: &pipeline.AnswerResult{Intent: intent.Greeting, Answer: "Hello!"}},
	}}
	app := newTestApp(NewChatController(svc, nil, nil).RegisterRoutes)

	code, body := post(t, app, "/api/chat/stream", `{"question":"hello"}`)
	assert.Equal(t, 200, code)

	frames := strings.Split(strings.TrimSpace(body), "\n\n")
	require.Len(t, frames, 2)
	assert.True(t, strings.HasPrefix(frames[0], "event: progress\n"))
	assert.True(t, strings.HasPrefix(frames[1], "event: final_result\n"))

	var last pipeline.ProgressEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.SplitN(frames[1], "\n", 2)[1], "data: ")), &last))
	assert.Equal(t, 100, last.Progress)
	assert.Equal(t, "Hello!", last.Result.Answer)
}

func TestChatController_SessionNotFound(t *testing.T) {
	app := newTestApp(NewChatController(&fakeChatService{}, nil, nil).RegisterRoutes)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/chat/sessions/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestTrailController(t *testing.T) {
	ctrl := NewTrailController(service.NewTrailService(trails.Default()))
	app := newTestApp(ctrl.RegisterRoutes)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/trails?difficulty=Easy", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out serverutils.BaseResponse[dto.TrailListResponse]
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotZero(t, out.Data.Count)
	for _, h := range out.Data.Trails {
		assert.Equal(t, "Easy", h.Difficulty)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/trails/Not%20A%20Trail", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
