package nats

import (
	"testing"
	"time"

	"rainier-guide-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		data     string
		wantType string
		wantTime time.Time
		wantErr  bool
	}{
		{
			name:     "question answered with timestamp",
			subject:  "events.question.answered",
			data:     `{"intent":"weather","occurred_at":"2026-07-04T09:30:00Z"}`,
			wantType: events.TypeQuestionAnswered,
			wantTime: time.Date(2026, 7, 4, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "invalid json",
			subject: "events.question.answered",
			data:    `{"intent":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := decodeEvent(tt.subject, []byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, ev.EventType())
			assert.True(t, tt.wantTime.Equal(ev.Timestamp()))
		})
	}
}

func TestDecodeEvent_MissingTimestampUsesNow(t *testing.T) {
	before := time.Now()
	ev, err := decodeEvent("events.passages.ingested", []byte(`{"chunks":2}`))

	require.NoError(t, err)
	assert.Equal(t, events.TypePassagesIngested, ev.EventType())
	assert.False(t, ev.Timestamp().Before(before))
	assert.Equal(t, float64(2), ev.Payload()["chunks"])
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.question.answered", Subject(events.TypeQuestionAnswered))
}
