package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuestionAnswered_Payload(t *testing.T) {
	at := time.Date(2026, 7, 4, 9, 30, 0, 0, time.UTC)
	ev := QuestionAnswered{SessionID: "s-1", Intent: "permits", Outcome: "answered", Passages: 3, Sources: 2, OccurredAt: at}

	assert.Equal(t, "question.answered", ev.EventType())
	assert.Equal(t, at, ev.Timestamp())
	p := ev.Payload()
	assert.Equal(t, "permits", p["intent"])
	assert.Equal(t, 3, p["passages"])
	assert.Equal(t, "2026-07-04T09:30:00Z", p["occurred_at"])
}

func TestPassagesIngested_Payload(t *testing.T) {
	ev := PassagesIngested{Source: "NPS", Title: "Climbing", Chunks: 4}

	assert.Equal(t, TypePassagesIngested, ev.EventType())
	assert.Equal(t, 4, ev.Payload()["chunks"])
}
