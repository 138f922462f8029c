package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"
	"unicode"

	"rainier-guide-be/pkg/ai/router"
	"rainier-guide-be/pkg/metrics"
	"rainier-guide-be/pkg/nps"
	"rainier-guide-be/pkg/rag/conversation"
	"rainier-guide-be/pkg/rag/enhance"
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/rag/prompt"
	"rainier-guide-be/pkg/rag/response"
	"rainier-guide-be/pkg/store"
	"rainier-guide-be/pkg/trails"
	"rainier-guide-be/pkg/weather"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("pipeline.orchestrator")

const (
	noResultsAnswer = "I couldn't find relevant information about that topic in my Mount Rainier knowledge base."

	maxAlertsInPrompt = 3
	streamBuffer      = 16
)

var (
	weatherSource = store.Source{Name: "OpenWeatherMap (current conditions)", URL: "https://openweathermap.org"}
	alertsSource  = store.Source{Name: "NPS Alerts", URL: "https://www.nps.gov/mora/planyourvisit/conditions.htm"}

	weatherTriggers = []string{
		"weather", "temperature", "temperatures", "rain", "raining", "rainy", "snow", "snowing", "snowy",
		"wind", "windy", "forecast", "storm", "storms", "sunny", "cloudy",
	}
	alertTriggers = []string{"alert", "alerts", "closure", "closures", "closed", "open", "warning", "warnings"}
)

// Collaborators, narrowed to what the pipeline calls.
type (
	QueryEnhancer interface {
		Enhance(ctx context.Context, question string, i intent.Intent) enhance.EnhancedQuery
	}
	PassageRetriever interface {
		Retrieve(ctx context.Context, query string, k int) ([]store.Passage, error)
	}
	AnswerGenerator interface {
		Generate(ctx context.Context, in response.GenerateInput) (string, error)
	}
	WeatherSource interface {
		CurrentConditions(ctx context.Context) (*weather.Conditions, error)
	}
	AlertSource interface {
		Alerts(ctx context.Context) ([]nps.Alert, error)
	}
	TrailCatalog interface {
		FormatList(question string) string
		BestMatch(question string) (trails.Hike, bool)
	}
)

// Request is one question from a visitor.
type Request struct {
	Question    string
	SessionID   string
	VisitorName string // remembered from an earlier introduction
}

type Config struct {
	TopK            int
	RequestTimeout  time.Duration
	ClassifyTimeout time.Duration
	AuxTimeout      time.Duration
	EnhanceTimeout  time.Duration
	RetrieveTimeout time.Duration
	GenerateTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.ClassifyTimeout <= 0 {
		c.ClassifyTimeout = 5 * time.Second
	}
	if c.AuxTimeout <= 0 {
		c.AuxTimeout = 5 * time.Second
	}
	if c.EnhanceTimeout <= 0 {
		c.EnhanceTimeout = 8 * time.Second
	}
	if c.RetrieveTimeout <= 0 {
		c.RetrieveTimeout = 10 * time.Second
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = 25 * time.Second
	}
	return c
}

// Deps groups the collaborators. Weather and Alerts may be nil.
type Deps struct {
	Classifier intent.Classifier
	Router     *router.Router
	Enhancer   QueryEnhancer
	Retriever  PassageRetriever
	Generator  AnswerGenerator
	Weather    WeatherSource
	Alerts     AlertSource
	Trails     TrailCatalog
}

// Orchestrator runs a question through classification, routing and, for informational questions, the
// enhance / retrieve / generate chain.
type Orchestrator struct {
	deps   Deps
	cfg    Config
	logger *log.Logger
}

func NewOrchestrator(deps Deps, cfg Config, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		deps:   deps,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// Stream runs the request in the background. The channel receives ordered progress events and is closed
// after the terminal event.
func (o *Orchestrator) Stream(ctx context.Context, req Request) <-chan ProgressEvent {
	out := make(chan ProgressEvent, streamBuffer)
	go func() {
		defer close(out)
		sink := func(ev ProgressEvent) {
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}
		o.execute(ctx, req, sink)
	}()
	return out
}

// Answer runs the request and returns only the outcome.
func (o *Orchestrator) Answer(ctx context.Context, req Request) (*AnswerResult, error) {
	return o.execute(ctx, req, nil)
}

type outcome struct {
	result *AnswerResult
	err    error
}

// execute bounds the whole request by the request timeout. Stage events from the worker pass through an
// unbuffered channel, so every event is forwarded before the outcome arrives.
func (o *Orchestrator) execute(parent context.Context, req Request, sink func(ProgressEvent)) (*AnswerResult, error) {
	ctx, cancel := context.WithTimeout(parent, o.cfg.RequestTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "pipeline.Answer")
	defer span.End()

	started := time.Now()
	p := &progress{sink: sink}
	events := make(chan ProgressEvent)
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.logger.Printf("[PIPELINE] panic: %v", r)
				done <- outcome{err: newInternalError(fmt.Errorf("panic: %v", r))}
			}
		}()
		emit := func(ev ProgressEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		res, err := o.run(ctx, req, emit)
		done <- outcome{result: res, err: err}
	}()

	var out outcome
wait:
	for {
		select {
		case ev := <-events:
			p.emit(ev)
		case out = <-done:
			break wait
		case <-ctx.Done():
			out = outcome{err: interruptedError(parent, ctx.Err())}
			break wait
		}
	}

	if out.err != nil && ctx.Err() != nil && !errors.Is(out.err, ErrRequestTimeout) && !errors.Is(out.err, ErrRequestCanceled) {
		out.err = interruptedError(parent, out.err)
	}

	metrics.ObserveStage("total", started)

	if out.err != nil {
		span.RecordError(out.err)
		o.logger.Printf("[PIPELINE] request failed after %s: %v", time.Since(started).Round(time.Millisecond), out.err)
		metrics.RecordQuestion("unknown", ErrorOutcome(out.err))
		p.emit(ProgressEvent{
			Stage:    StageError,
			Status:   StatusError,
			Message:  UserMessage(out.err),
			Progress: p.last,
			Error:    UserMessage(out.err),
			Err:      out.err,
		})
		return nil, out.err
	}

	out.result.SessionID = req.SessionID
	span.SetAttributes(
		attribute.String("intent", string(out.result.Intent)),
		attribute.Int("passages", out.result.RetrievedPassages),
	)
	metrics.RecordQuestion(string(out.result.Intent), out.result.Outcome())
	p.emit(ProgressEvent{
		Stage:    StageFinal,
		Status:   StatusCompleted,
		Message:  "Answer ready",
		Progress: 100,
		Intent:   out.result.Intent,
		Result:   out.result,
	})
	return out.result, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request, emit func(ProgressEvent)) (*AnswerResult, error) {
	question := req.Question

	// 1. Classify
	emit(ProgressEvent{Stage: StageClassification, Status: StatusProcessing, Message: "Analyzing your question...", Progress: 5})
	c := o.classify(ctx, question)
	emit(ProgressEvent{Stage: StageClassification, Status: StatusCompleted, Message: "Question type: " + string(c.Intent), Progress: 10, Intent: c.Intent})

	visitor := req.VisitorName
	if c.Name != "" {
		visitor = c.Name
	}

	result := &AnswerResult{
		OriginalQuestion: question,
		EnhancedQuestion: question,
		Intent:           c.Intent,
		Sources:          []store.Source{},
		VisitorName:      visitor,
	}

	// 2. Route
	switch o.deps.Router.Route(c, question) {
	case router.ModeConversational:
		result.Answer = conversation.Respond(question, c.Intent, visitor)
		result.ConversationMode = true
		return result, nil
	case router.ModeList:
		result.Answer = o.deps.Trails.FormatList(question)
		result.TrailListMode = true
		return result, nil
	}

	// 3. Live conditions
	aux := o.fetchAuxiliary(ctx, question, c.Intent, result, emit)

	// 4. Enhance
	emit(ProgressEvent{Stage: StageEnhancement, Status: StatusProcessing, Message: "Optimizing your question for search...", Progress: 30, Intent: c.Intent})
	eq := o.enhance(ctx, question, c.Intent)
	result.EnhancedQuestion = eq.Enhanced
	result.EnhancementUsed = eq.Success
	if eq.Success {
		emit(ProgressEvent{Stage: StageEnhancement, Status: StatusCompleted, Message: "Question optimized", Progress: 40, EnhancedQuestion: eq.Enhanced})
	} else {
		emit(ProgressEvent{Stage: StageEnhancement, Status: StatusSkipped, Message: "Using your original question", Progress: 40, EnhancedQuestion: eq.Enhanced})
	}

	// 5. Retrieve
	emit(ProgressEvent{Stage: StageRetrieval, Status: StatusProcessing, Message: "Searching the Mount Rainier knowledge base...", Progress: 45})
	passages, err := o.retrieve(ctx, eq.Enhanced)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newTimeoutError(err)
		}
		return nil, newRetrievalError(err)
	}
	result.RetrievedPassages = len(passages)
	if len(passages) == 0 {
		o.logger.Printf("[PIPELINE] %v for %q", ErrRetrievalEmpty, eq.Enhanced)
		metrics.RecordDegraded("retrieval_empty")
		emit(ProgressEvent{Stage: StageRetrieval, Status: StatusNoResults, Message: "No relevant information found", Progress: 55})
		result.Answer = noResultsAnswer
		return result, nil
	}
	emit(ProgressEvent{Stage: StageRetrieval, Status: StatusCompleted, Message: fmt.Sprintf("Found %d relevant passages", len(passages)), Progress: 55})

	// 6. Generate
	emit(ProgressEvent{Stage: StageGeneration, Status: StatusProcessing, Message: "Writing your answer...", Progress: 70})
	answer := o.generate(ctx, response.GenerateInput{
		OriginalQuestion: question,
		EnhancedQuestion: eq.Enhanced,
		Context:          prompt.FormatContext(passages),
		Intent:           c.Intent,
		Auxiliary:        aux,
	})
	if ctx.Err() != nil {
		return nil, newTimeoutError(ctx.Err())
	}
	emit(ProgressEvent{Stage: StageGeneration, Status: StatusCompleted, Message: "Answer generated", Progress: 90})

	// 7. Assemble
	result.Answer = answer
	result.Sources = o.assembleSources(question, c.Intent, passages, result)
	return result, nil
}

func (o *Orchestrator) classify(ctx context.Context, question string) intent.Classification {
	defer metrics.ObserveStage(StageClassification, time.Now())
	cctx, cancel := context.WithTimeout(ctx, o.cfg.ClassifyTimeout)
	defer cancel()
	return o.deps.Classifier.Classify(cctx, question)
}

func (o *Orchestrator) enhance(ctx context.Context, question string, i intent.Intent) enhance.EnhancedQuery {
	defer metrics.ObserveStage(StageEnhancement, time.Now())
	ectx, cancel := context.WithTimeout(ctx, o.cfg.EnhanceTimeout)
	defer cancel()

	eq := o.deps.Enhancer.Enhance(ectx, question, i)
	if !eq.Success {
		metrics.RecordDegraded("enhancement")
		o.logger.Printf("[PIPELINE] %v: %v", ErrEnhancementFailed, eq.Err)
	}
	return eq
}

func (o *Orchestrator) retrieve(ctx context.Context, query string) ([]store.Passage, error) {
	defer metrics.ObserveStage(StageRetrieval, time.Now())
	rctx, span := tracer.Start(ctx, "pipeline.retrieve")
	defer span.End()
	rctx, cancel := context.WithTimeout(rctx, o.cfg.RetrieveTimeout)
	defer cancel()

	passages, err := o.deps.Retriever.Retrieve(rctx, query, o.cfg.TopK)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return passages, nil
}

func (o *Orchestrator) generate(ctx context.Context, in response.GenerateInput) string {
	defer metrics.ObserveStage(StageGeneration, time.Now())
	gctx, span := tracer.Start(ctx, "pipeline.generate")
	defer span.End()
	gctx, cancel := context.WithTimeout(gctx, o.cfg.GenerateTimeout)
	defer cancel()

	answer, err := o.deps.Generator.Generate(gctx, in)
	if err != nil {
		span.RecordError(err)
		metrics.RecordDegraded("generation")
		o.logger.Printf("[PIPELINE] %v", err)
	}
	return answer
}

// fetchAuxiliary gathers live weather and park alerts in parallel. Failures only clear the usage flags.
func (o *Orchestrator) fetchAuxiliary(ctx context.Context, question string, i intent.Intent, result *AnswerResult, emit func(ProgressEvent)) map[string]string {
	wantWeather := o.deps.Weather != nil && (i == intent.Weather || containsAny(question, weatherTriggers))
	wantAlerts := o.deps.Alerts != nil && (i == intent.Safety || containsAny(question, alertTriggers))
	if !wantWeather && !wantAlerts {
		return nil
	}

	defer metrics.ObserveStage(StageAuxiliary, time.Now())
	emit(ProgressEvent{Stage: StageAuxiliary, Status: StatusProcessing, Message: "Checking current park conditions...", Progress: 15})

	actx, cancel := context.WithTimeout(ctx, o.cfg.AuxTimeout)
	defer cancel()

	var (
		conditions *weather.Conditions
		alerts     []nps.Alert
		g          errgroup.Group
	)
	if wantWeather {
		g.Go(func() error {
			c, err := o.deps.Weather.CurrentConditions(actx)
			if err != nil {
				o.logger.Printf("[PIPELINE] %v: weather: %v", ErrAuxiliaryDataUnavailable, err)
				metrics.RecordAuxFetch("weather", "error")
				return nil
			}
			metrics.RecordAuxFetch("weather", "ok")
			conditions = c
			return nil
		})
	}
	if wantAlerts {
		g.Go(func() error {
			a, err := o.deps.Alerts.Alerts(actx)
			if err != nil {
				o.logger.Printf("[PIPELINE] %v: alerts: %v", ErrAuxiliaryDataUnavailable, err)
				metrics.RecordAuxFetch("alerts", "error")
				return nil
			}
			metrics.RecordAuxFetch("alerts", "ok")
			alerts = a
			return nil
		})
	}
	_ = g.Wait()

	aux := map[string]string{}
	if conditions != nil {
		for k, v := range conditions.Auxiliary() {
			aux[k] = v
		}
		result.WeatherUsed = true
	}
	if len(alerts) > 0 {
		for k, v := range nps.Auxiliary(alerts, maxAlertsInPrompt) {
			aux[k] = v
		}
		result.AlertsUsed = true
	}

	switch {
	case result.WeatherUsed || result.AlertsUsed:
		emit(ProgressEvent{Stage: StageAuxiliary, Status: StatusCompleted, Message: "Live conditions added", Progress: 25})
	default:
		metrics.RecordDegraded("auxiliary")
		emit(ProgressEvent{Stage: StageAuxiliary, Status: StatusSkipped, Message: "Live conditions unavailable", Progress: 25})
	}
	return aux
}

// assembleSources lists passage attributions once each in first-seen order, then the live data markers
// and, for trail questions, the matching trail page.
func (o *Orchestrator) assembleSources(question string, i intent.Intent, passages []store.Passage, result *AnswerResult) []store.Source {
	seen := make(map[string]bool)
	sources := make([]store.Source, 0, len(passages)+2)
	add := func(s store.Source) {
		if seen[s.Key()] {
			return
		}
		seen[s.Key()] = true
		sources = append(sources, s)
	}

	for _, p := range passages {
		add(store.SourceOf(p))
	}
	if result.WeatherUsed {
		add(weatherSource)
	}
	if result.AlertsUsed {
		add(alertsSource)
	}
	if i == intent.Trail && o.deps.Trails != nil {
		if hike, ok := o.deps.Trails.BestMatch(question); ok {
			add(store.Source{Name: hike.Name + " - AllTrails", URL: hike.URL})
		}
	}
	return sources
}

// containsAny matches whole words so "rain" does not fire on "Rainier".
func containsAny(s string, words []string) bool {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, f := range fields {
		if slices.Contains(words, f) {
			return true
		}
	}
	return false
}
