package service

import (
	"context"
	"strings"
	"time"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/internal/repository/memory"
	"rainier-guide-be/pkg/ai/pipeline"
	"rainier-guide-be/pkg/events"
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const chatModule = "CHAT"

// QuestionPipeline is the answering engine behind the chat endpoints.
type QuestionPipeline interface {
	Answer(ctx context.Context, req pipeline.Request) (*pipeline.AnswerResult, error)
	Stream(ctx context.Context, req pipeline.Request) <-chan pipeline.ProgressEvent
}

type IChatService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	// Stream returns the session id and the progress events of the request.
	Stream(ctx context.Context, req *dto.AskRequest) (string, <-chan pipeline.ProgressEvent)
	Session(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
}

type chatService struct {
	pipeline       QuestionPipeline
	sessions       *memory.SessionRepository
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

// NewChatService wires the chat flow. eventPublisher may be nil when NATS is disabled.
func NewChatService(p QuestionPipeline, sessions *memory.SessionRepository, eventPublisher events.Publisher, log logger.ILogger) IChatService {
	return &chatService{
		pipeline:       p,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
}

func (s *chatService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	preq := s.prepare(req)
	start := s.now()

	result, err := s.pipeline.Answer(ctx, preq)
	s.record(preq, result, err, start)
	if err != nil {
		return nil, err
	}
	return toAskResponse(preq.SessionID, result), nil
}

func (s *chatService) Stream(ctx context.Context, req *dto.AskRequest) (string, <-chan pipeline.ProgressEvent) {
	preq := s.prepare(req)
	start := s.now()
	in := s.pipeline.Stream(ctx, preq)
	out := make(chan pipeline.ProgressEvent, cap(in))

	go func() {
		defer close(out)
		recorded := false
		for ev := range in {
			if ev.Terminal() {
				var err error
				if ev.Stage == pipeline.StageError {
					err = streamError(ev)
				}
				s.record(preq, ev.Result, err, start)
				recorded = true
			}
			// Keep draining after the client leaves so the terminal event is still recorded.
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}
		// The pipeline drops its terminal event once the caller is gone.
		if !recorded {
			s.record(preq, nil, &pipeline.PipelineError{Kind: pipeline.ErrRequestCanceled, Err: ctx.Err()}, start)
		}
	}()

	return preq.SessionID, out
}

// streamError recovers the failure carried by an error event.
func streamError(ev pipeline.ProgressEvent) error {
	if ev.Err != nil {
		return ev.Err
	}
	return &pipeline.PipelineError{Kind: pipeline.ErrInternal, UserMessage: ev.Error}
}

func (s *chatService) Session(_ context.Context, sessionId string) (*dto.SessionResponse, error) {
	sess, ok := s.sessions.Get(sessionId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return &dto.SessionResponse{
		SessionId:   sess.ID,
		VisitorName: sess.VisitorName,
		LastIntent:  sess.LastIntent,
		Turns:       sess.Turns,
	}, nil
}

func (s *chatService) prepare(req *dto.AskRequest) pipeline.Request {
	sessionId := strings.TrimSpace(req.SessionId)
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	visitor := intent.NormalizeName(req.VisitorName)
	if visitor == "" {
		if sess, ok := s.sessions.Get(sessionId); ok {
			visitor = sess.VisitorName
		}
	}

	return pipeline.Request{
		Question:    req.Question,
		SessionID:   sessionId,
		VisitorName: visitor,
	}
}

// record remembers the turn on the session and publishes the audit event.
func (s *chatService) record(req pipeline.Request, result *pipeline.AnswerResult, err error, start time.Time) {
	outcome := pipeline.ErrorOutcome(err)
	var intentLabel string
	if result != nil {
		outcome = result.Outcome()
		intentLabel = string(result.Intent)
	}

	s.sessions.Update(req.SessionID, func(sess *store.Session) {
		sess.Turns++
		sess.LastQuery = req.Question
		if result == nil {
			return
		}
		sess.LastIntent = intentLabel
		if result.VisitorName != "" {
			sess.VisitorName = result.VisitorName
		}
	})

	details := map[string]interface{}{
		"session_id":  req.SessionID,
		"intent":      intentLabel,
		"outcome":     outcome,
		"duration_ms": s.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		details["error"] = err.Error()
		s.logger.Warn(chatModule, "Question failed", details)
	} else {
		s.logger.Info(chatModule, "Question answered", details)
	}

	if s.eventPublisher == nil {
		return
	}
	event := events.QuestionAnswered{
		SessionID:  req.SessionID,
		Question:   req.Question,
		Intent:     intentLabel,
		Outcome:    outcome,
		DurationMs: s.now().Sub(start).Milliseconds(),
		OccurredAt: s.now(),
	}
	if result != nil {
		event.Passages = result.RetrievedPassages
		event.Sources = len(result.Sources)
		event.Weather = result.WeatherUsed
		event.Alerts = result.AlertsUsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if perr := s.eventPublisher.Publish(ctx, event); perr != nil {
		s.logger.Warn(chatModule, "Failed to publish audit event", map[string]interface{}{"error": perr.Error()})
	}
}

func toAskResponse(sessionId string, r *pipeline.AnswerResult) *dto.AskResponse {
	sources := r.Sources
	if sources == nil {
		sources = []store.Source{}
	}
	return &dto.AskResponse{
		SessionId:         sessionId,
		Question:          r.OriginalQuestion,
		EnhancedQuestion:  r.EnhancedQuestion,
		Intent:            string(r.Intent),
		Answer:            r.Answer,
		Sources:           sources,
		EnhancementUsed:   r.EnhancementUsed,
		WeatherUsed:       r.WeatherUsed,
		AlertsUsed:        r.AlertsUsed,
		ConversationMode:  r.ConversationMode,
		TrailListMode:     r.TrailListMode,
		RetrievedPassages: r.RetrievedPassages,
		VisitorName:       r.VisitorName,
	}
}
