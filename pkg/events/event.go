package events

import (
	"context"
	"time"
)

// Event types published on the bus. The NATS subject is "events.<type>".
const (
	TypeQuestionAnswered = "question.answered"
	TypePassagesIngested = "passages.ingested"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "question.answered").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// QuestionAnswered records the outcome of one question for the audit trail.
type QuestionAnswered struct {
	SessionID  string
	Question   string
	Intent     string
	Outcome    string
	Passages   int
	Sources    int
	Weather    bool
	Alerts     bool
	DurationMs int64
	OccurredAt time.Time
}

func (e QuestionAnswered) EventType() string { return TypeQuestionAnswered }

func (e QuestionAnswered) Timestamp() time.Time { return e.OccurredAt }

func (e QuestionAnswered) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":  e.SessionID,
		"question":    e.Question,
		"intent":      e.Intent,
		"outcome":     e.Outcome,
		"passages":    e.Passages,
		"sources":     e.Sources,
		"weather":     e.Weather,
		"alerts":      e.Alerts,
		"duration_ms": e.DurationMs,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
}

// PassagesIngested reports a document written to the passage index.
type PassagesIngested struct {
	Source     string
	Title      string
	Chunks     int
	OccurredAt time.Time
}

func (e PassagesIngested) EventType() string { return TypePassagesIngested }

func (e PassagesIngested) Timestamp() time.Time { return e.OccurredAt }

func (e PassagesIngested) Payload() map[string]interface{} {
	return map[string]interface{}{
		"source":      e.Source,
		"title":       e.Title,
		"chunks":      e.Chunks,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
}
