package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/entity"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/internal/repository/contract"
	"rainier-guide-be/internal/repository/memory"
	"rainier-guide-be/internal/repository/specification"
	"rainier-guide-be/internal/repository/unitofwork"
	"rainier-guide-be/pkg/ai/pipeline"
	"rainier-guide-be/pkg/embedding"
	"rainier-guide-be/pkg/events"
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/store"
	"rainier-guide-be/pkg/trails"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, logger.ErrLogNotFound }

type mockPipeline struct {
	mock.Mock
}

func (m *mockPipeline) Answer(ctx context.Context, req pipeline.Request) (*pipeline.AnswerResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*pipeline.AnswerResult)
	return res, args.Error(1)
}

func (m *mockPipeline) Stream(ctx context.Context, req pipeline.Request) <-chan pipeline.ProgressEvent {
	args := m.Called(ctx, req)
	return args.Get(0).(<-chan pipeline.ProgressEvent)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func TestChatService_AskRemembersVisitor(t *testing.T) {
	p := new(mockPipeline)
	sessions := memory.NewSessionRepository(time.Hour)
	pub := &recordingPublisher{}
	svc := NewChatService(p, sessions, pub, nopLogger{})

	p.On("Answer", mock.Anything, mock.MatchedBy(func(r pipeline.Request) bool {
		return r.Question == "my name is ana" && r.SessionID == "s-1" && r.VisitorName == ""
	})).Return(&pipeline.AnswerResult{
		OriginalQuestion: "my name is ana",
		Intent:           intent.UserIntroduction,
		Answer:           "Nice to meet you, Ana!",
		ConversationMode: true,
		VisitorName:      "Ana",
	}, nil).Once()

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "my name is ana", SessionId: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, "s-1", res.SessionId)
	assert.Equal(t, "user_introduction", res.Intent)
	assert.NotNil(t, res.Sources)

	// The next turn carries the remembered name into the pipeline.
	p.On("Answer", mock.Anything, mock.MatchedBy(func(r pipeline.Request) bool {
		return r.VisitorName == "Ana"
	})).Return(&pipeline.AnswerResult{Intent: intent.Greeting, ConversationMode: true, VisitorName: "Ana"}, nil).Once()

	_, err = svc.Ask(context.Background(), &dto.AskRequest{Question: "hello", SessionId: "s-1"})
	require.NoError(t, err)
	p.AssertExpectations(t)

	sess, err := svc.Session(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", sess.VisitorName)
	assert.Equal(t, 2, sess.Turns)
	assert.Equal(t, "greeting", sess.LastIntent)

	published := pub.all()
	require.Len(t, published, 2)
	assert.Equal(t, events.TypeQuestionAnswered, published[0].EventType())
	assert.Equal(t, "conversational", published[0].Payload()["outcome"])
}

func TestChatService_AskError(t *testing.T) {
	p := new(mockPipeline)
	svc := NewChatService(p, memory.NewSessionRepository(time.Hour), nil, nopLogger{})

	perr := &pipeline.PipelineError{Kind: pipeline.ErrRetrievalUnavailable, UserMessage: "down"}
	p.On("Answer", mock.Anything, mock.Anything).Return(nil, perr)

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "permits?"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, pipeline.ErrRetrievalUnavailable)
}

func TestChatService_NewSessionId(t *testing.T) {
	p := new(mockPipeline)
	svc := NewChatService(p, memory.NewSessionRepository(time.Hour), nil, nopLogger{})

	p.On("Answer", mock.Anything, mock.Anything).Return(&pipeline.AnswerResult{Intent: intent.Permits, RetrievedPassages: 1}, nil)

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "Do I need a permit?"})
	require.NoError(t, err)
	_, parseErr := uuid.Parse(res.SessionId)
	assert.NoError(t, parseErr)

	_, err = svc.Session(context.Background(), "unknown")
	assert.Error(t, err)
}

func TestChatService_StreamForwardsAndRecords(t *testing.T) {
	p := new(mockPipeline)
	sessions := memory.NewSessionRepository(time.Hour)
	pub := &recordingPublisher{}
	svc := NewChatService(p, sessions, pub, nopLogger{})

	in := make(chan pipeline.ProgressEvent, 3)
	in <- pipeline.ProgressEvent{Stage: pipeline.StageClassification, Status: pipeline.StatusProcessing, Progress: 5}
	in <- pipeline.ProgressEvent{Stage: pipeline.StageClassification, Status: pipeline.StatusCompleted, Progress: 10}
	in <- pipeline.ProgressEvent{Stage: pipeline.StageFinal, Status: pipeline.StatusCompleted, Progress: 100,
		Result: &pipeline.AnswerResult{Intent: intent.Greeting, ConversationMode: true}}
	close(in)
	p.On("Stream", mock.Anything, mock.Anything).Return((<-chan pipeline.ProgressEvent)(in))

	sessionId, out := svc.Stream(context.Background(), &dto.AskRequest{Question: "hi", SessionId: "s-9"})
	assert.Equal(t, "s-9", sessionId)

	var got []int
	for ev := range out {
		got = append(got, ev.Progress)
	}
	assert.Equal(t, []int{5, 10, 100}, got)

	sess, ok := sessions.Get("s-9")
	require.True(t, ok)
	assert.Equal(t, 1, sess.Turns)
	require.Len(t, pub.all(), 1)
}

func TestChatService_StreamRecordsInterruptions(t *testing.T) {
	tests := []struct {
		name string
		kind error
		want string
	}{
		{"caller canceled", pipeline.ErrRequestCanceled, "canceled"},
		{"deadline exceeded", pipeline.ErrRequestTimeout, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(mockPipeline)
			pub := &recordingPublisher{}
			svc := NewChatService(p, memory.NewSessionRepository(time.Hour), pub, nopLogger{})

			in := make(chan pipeline.ProgressEvent, 1)
			in <- pipeline.ProgressEvent{Stage: pipeline.StageError, Status: pipeline.StatusError,
				Error: "stopped", Err: &pipeline.PipelineError{Kind: tt.kind, UserMessage: "stopped"}}
			close(in)
			p.On("Stream", mock.Anything, mock.Anything).Return((<-chan pipeline.ProgressEvent)(in))

			_, out := svc.Stream(context.Background(), &dto.AskRequest{Question: "permits?", SessionId: "s-x"})
			for range out {
			}

			published := pub.all()
			require.Len(t, published, 1)
			assert.Equal(t, tt.want, published[0].Payload()["outcome"])
		})
	}
}

// Ingestion

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) Generate(ctx context.Context, text, taskType string) (*embedding.EmbeddingResponse, error) {
	args := m.Called(ctx, text, taskType)
	res, _ := args.Get(0).(*embedding.EmbeddingResponse)
	return res, args.Error(1)
}

type mockPassageRepo struct {
	mock.Mock
	contract.ParkPassageRepository
}

func (m *mockPassageRepo) DeleteBySource(ctx context.Context, source string) (int64, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPassageRepo) CreateBulk(ctx context.Context, passages []*entity.ParkPassage) error {
	return m.Called(ctx, passages).Error(0)
}

func (m *mockPassageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPassageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ParkPassage, error) {
	args := m.Called(ctx, specs)
	res, _ := args.Get(0).([]*entity.ParkPassage)
	return res, args.Error(1)
}

type fakeUnitOfWork struct {
	repo      contract.ParkPassageRepository
	began     bool
	committed bool
	rolled    bool
}

func (u *fakeUnitOfWork) Begin(context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error               { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error             { u.rolled = true; return nil }
func (u *fakeUnitOfWork) ParkPassageRepository() contract.ParkPassageRepository {
	return u.repo
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func TestConsumerService_Ingest(t *testing.T) {
	embedder := new(mockEmbedder)
	repo := new(mockPassageRepo)
	uow := &fakeUnitOfWork{repo: repo}
	pub := &recordingPublisher{}
	svc := NewConsumerService(nil, "topic", fakeFactory{uow: uow}, embedder, pub, ChunkConfig{Size: 40, Overlap: 0}, nopLogger{})

	embedder.On("Generate", mock.Anything, mock.Anything, embedding.TaskRetrievalDocument).
		Return(&embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}}}, nil)
	repo.On("DeleteBySource", mock.Anything, "Wilderness Permits").Return(int64(2), nil)
	repo.On("CreateBulk", mock.Anything, mock.MatchedBy(func(ps []*entity.ParkPassage) bool {
		for i, p := range ps {
			if p.ChunkIndex != i || p.Source != "Wilderness Permits" || len(p.Embedding) != 2 {
				return false
			}
		}
		return len(ps) >= 2
	})).Return(nil)

	content := "Wilderness permits are required for all overnight stays in the backcountry. " +
		"Reservations open in spring through Recreation.gov."
	n, err := svc.Ingest(context.Background(), dto.IngestPassageRequest{
		Source: " Wilderness Permits ", Title: "Permits", URL: "https://www.nps.gov/mora/planyourvisit/wilderness-permit.htm", Content: content,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
	assert.True(t, uow.began)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolled)

	published := pub.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypePassagesIngested, published[0].EventType())
	assert.Equal(t, n, published[0].Payload()["chunks"])
	repo.AssertExpectations(t)
}

func TestConsumerService_IngestEmptyAndEmbedFailure(t *testing.T) {
	embedder := new(mockEmbedder)
	repo := new(mockPassageRepo)
	uow := &fakeUnitOfWork{repo: repo}
	svc := NewConsumerService(nil, "topic", fakeFactory{uow: uow}, embedder, nil, ChunkConfig{Size: 100}, nopLogger{})

	_, err := svc.Ingest(context.Background(), dto.IngestPassageRequest{Source: "x", Content: "   "})
	assert.ErrorIs(t, err, errEmptyDocument)

	embedder.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)
	_, err = svc.Ingest(context.Background(), dto.IngestPassageRequest{Source: "x", Content: "Paradise is at 5,400 feet."})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, uow.began, "nothing is written when embedding fails")
	repo.AssertNotCalled(t, "DeleteBySource", mock.Anything, mock.Anything)
}

func TestConsumerService_ConsumeFromQueue(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	embedder := new(mockEmbedder)
	repo := new(mockPassageRepo)
	uow := &fakeUnitOfWork{repo: repo}
	svc := NewConsumerService(pubSub, "INGEST", fakeFactory{uow: uow}, embedder, nil, ChunkConfig{Size: 500}, nopLogger{})

	done := make(chan struct{})
	embedder.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1}}}, nil)
	repo.On("DeleteBySource", mock.Anything, "Paradise").Return(int64(0), nil)
	repo.On("CreateBulk", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	publisher := NewPublisherService(pubSub, "INGEST")
	req := &dto.IngestPassageRequest{Source: "Paradise", Content: "Paradise is the most visited area of the park."}
	passages := NewPassageService(repo, publisher, nil, 3)
	queued, err := passages.Queue(ctx, req)
	require.NoError(t, err)
	assert.True(t, queued.Queued)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not consumed")
	}
}

func TestPassageService_List(t *testing.T) {
	repo := new(mockPassageRepo)
	svc := NewPassageService(repo, nil, nil, 3)

	id := uuid.New()
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(specs []specification.Specification) bool {
		// source filter, chunk order, pagination
		return len(specs) == 3
	})).Return([]*entity.ParkPassage{{Id: id, Source: "Paradise", Content: "text"}}, nil)

	res, err := svc.List(context.Background(), "Paradise", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Passages, 1)
	assert.Equal(t, id, res.Passages[0].Id)

	_, err = svc.Queue(context.Background(), &dto.IngestPassageRequest{Source: "x", Content: " "})
	assert.Error(t, err)
}

type stubSearcher struct {
	k int
}

func (s *stubSearcher) Retrieve(_ context.Context, _ string, k int) ([]store.Passage, error) {
	s.k = k
	return []store.Passage{{Content: "a"}}, nil
}

func TestPassageService_SearchDefaultK(t *testing.T) {
	searcher := &stubSearcher{}
	svc := NewPassageService(nil, nil, searcher, 3)

	res, err := svc.Search(context.Background(), &dto.SearchPassagesRequest{Query: "camp muir"})
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, 3, searcher.k)
}

func TestTrailService_List(t *testing.T) {
	svc := NewTrailService(trails.Default())

	all := svc.List(TrailQuery{})
	assert.Equal(t, len(trails.Default().All()), all.Count)

	easy := svc.List(TrailQuery{Difficulty: "easy"})
	require.NotZero(t, easy.Count)
	for _, h := range easy.Trails {
		assert.Equal(t, "Easy", h.Difficulty)
	}

	short := svc.List(TrailQuery{MaxMiles: 2})
	for _, h := range short.Trails {
		assert.LessOrEqual(t, h.LengthMiles(), 2.0)
	}

	_, err := svc.Find("Nowhere Trail")
	assert.Error(t, err)

	text := svc.Format("show me easy hikes")
	assert.NotEmpty(t, text.Text)
}
