package conversation

import (
	"testing"

	"rainier-guide-be/pkg/rag/intent"

	"github.com/stretchr/testify/assert"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name     string
		question string
		intent   intent.Intent
		visitor  string
		contains string
	}{
		{"greeting", "hello", intent.Greeting, "", "<strong>Hello! 🏔️</strong>"},
		{"greeting with known name", "hi again", intent.Greeting, "Sarah", "Hello, Sarah!"},
		{"system info", "who are you", intent.SystemInfo, "", "260+ miles of trails"},
		{"thanks", "Thank you!", intent.Courtesy, "", "You're welcome!"},
		{"thx", "thx!", intent.Courtesy, "", "You're welcome!"},
		{"appreciate it", "I appreciate it", intent.Courtesy, "", "You're welcome!"},
		{"much appreciated", "Much appreciated.", intent.Courtesy, "", "You're welcome!"},
		{"goodbye", "bye", intent.Courtesy, "", "Safe travels!"},
		{"take care", "take care", intent.Courtesy, "", "Safe travels!"},
		{"off topic", "capital of France", intent.OffTopic, "", "I specialize in Mount Rainier"},
		{"empty", "", intent.Empty, "", "I'm here to help"},
		{"introduction", "my name is Sarah", intent.UserIntroduction, "Sarah", "Nice to meet you, Sarah!"},
		{"introduction without name", "my name is", intent.UserIntroduction, "", "Nice to meet you!"},
		{"fallback", "anything", intent.General, "", "Hello! I'm your Mount Rainier guide."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Respond(tt.question, tt.intent, tt.visitor)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestRespond_NonEmptyAndIdempotent(t *testing.T) {
	for _, i := range intent.All {
		first := Respond("Thanks, bye", i, "")
		second := Respond("Thanks, bye", i, "")

		assert.NotEmpty(t, first, string(i))
		assert.Equal(t, first, second, string(i))
	}
}
