package pipeline

import (
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/store"
)

// Stage names reported in progress events.
const (
	StageClassification = "query_classification"
	StageAuxiliary      = "auxiliary_data"
	StageEnhancement    = "query_enhancement"
	StageRetrieval      = "vector_retrieval"
	StageGeneration     = "response_generation"
	StageFinal          = "final_result"
	StageError          = "error"
)

// Stage statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
	StatusNoResults  = "no_results"
	StatusError      = "error"
)

// ProgressEvent reports one step of a streamed request. Progress never decreases within a request and the
// last event carries either Result or Error.
type ProgressEvent struct {
	Stage            string        `json:"stage"`
	Status           string        `json:"status"`
	Message          string        `json:"message"`
	Progress         int           `json:"progress"`
	Intent           intent.Intent `json:"intent,omitempty"`
	EnhancedQuestion string        `json:"enhanced_question,omitempty"`
	Result           *AnswerResult `json:"result,omitempty"`
	Error            string        `json:"error,omitempty"`
	// Err is the request failure behind an error event. It stays in process.
	Err error `json:"-"`
}

// Terminal reports whether no event follows e.
func (e ProgressEvent) Terminal() bool {
	return e.Stage == StageFinal || e.Stage == StageError
}

// AnswerResult is the outcome of one question.
type AnswerResult struct {
	OriginalQuestion  string         `json:"original_question"`
	EnhancedQuestion  string         `json:"enhanced_question"`
	Intent            intent.Intent  `json:"intent"`
	Answer            string         `json:"answer"`
	Sources           []store.Source `json:"sources"`
	EnhancementUsed   bool           `json:"enhancement_used"`
	WeatherUsed       bool           `json:"weather_used"`
	AlertsUsed        bool           `json:"alerts_used"`
	ConversationMode  bool           `json:"conversation_mode"`
	TrailListMode     bool           `json:"trail_list_mode"`
	RetrievedPassages int            `json:"retrieved_passages"`
	VisitorName       string         `json:"visitor_name,omitempty"`
	SessionID         string         `json:"session_id,omitempty"`
}

// Outcome labels how the request was answered, for metrics and the audit trail.
func (r *AnswerResult) Outcome() string {
	switch {
	case r.ConversationMode:
		return "conversational"
	case r.TrailListMode:
		return "trail_list"
	case r.RetrievedPassages == 0:
		return "no_results"
	default:
		return "answered"
	}
}

// progress forwards events to a sink, holding the reported value monotonic.
type progress struct {
	sink func(ProgressEvent)
	last int
}

func (p *progress) emit(ev ProgressEvent) {
	if ev.Progress < p.last {
		ev.Progress = p.last
	}
	p.last = ev.Progress
	if p.sink != nil {
		p.sink(ev)
	}
}
