package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"rainier-guide-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestRuleClassifier_Classify(t *testing.T) {
	c := NewRuleClassifier(nil)

	tests := []struct {
		name     string
		question string
		want     Intent
	}{
		{"empty", "", Empty},
		{"whitespace", "   \t\n", Empty},
		{"hello", "hello", Greeting},
		{"hi there", "Hi there!", Greeting},
		{"good morning", "Good morning", Greeting},
		{"greeting wins over topic", "Hey, what trails are open?", Greeting},
		{"hi inside hiking is not a greeting", "hiking near Paradise", Trail},
		{"system info", "Who are you?", SystemInfo},
		{"capabilities", "what can you do", SystemInfo},
		{"thanks", "Thanks so much!", Courtesy},
		{"bye", "ok bye", Courtesy},
		{"off topic", "What is the capital of France?", OffTopic},
		{"stock market", "how is the stock market today", OffTopic},
		{"introduction", "My name is Sarah", UserIntroduction},
		{"list request", "Show me hikes near Sunrise", ListRequest},
		{"best trails", "what are the best trails for wildflowers", ListRequest},
		{"trail", "How long is the Skyline Trail?", Trail},
		{"permits before climbing", "What permits do I need to climb?", Permits},
		{"weather", "What's the weather like at Paradise today?", Weather},
		{"rainier is not rain", "Tell me about Rainier", General},
		{"safety", "Are there bears near Longmire?", Safety},
		{"gear", "What should I bring?", Gear},
		{"climbing", "How do I get to the top?", Climbing},
		{"summit", "Summit success rates by route", Climbing},
		{"general", "When was the park established?", General},
		{"curly apostrophe", "what’s your name", SystemInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.question)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestRuleClassifier_PriorityOrder(t *testing.T) {
	c := NewRuleClassifier(nil)

	// each question carries keywords from both intents; the earlier rule must win
	tests := []struct {
		question string
		want     Intent
	}{
		{"trail weather", Trail},
		{"weather permit", Weather},
		{"permit safety", Permits},
		{"safety gear", Safety},
		{"gear climb", Gear},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(context.Background(), tt.question).Intent)
		})
	}
}

func TestRuleClassifier_CustomRules(t *testing.T) {
	c := NewRuleClassifier([]Rule{{Intent: Climbing, Keywords: []string{"rope*"}}})

	assert.Equal(t, Climbing, c.Classify(context.Background(), "roped travel").Intent)
	assert.Equal(t, General, c.Classify(context.Background(), "hello").Intent)
}

func TestRuleClassifier_Names(t *testing.T) {
	c := NewRuleClassifier(nil)

	tests := []struct {
		question string
		intent   Intent
		name     string
	}{
		{"my name is sarah", UserIntroduction, "Sarah"},
		{"Call me Ishmael.", UserIntroduction, "Ishmael"},
		{"Hi, my name is Ana", Greeting, "Ana"},
		{"my name is", UserIntroduction, ""},
		{"hello", Greeting, ""},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.question)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.name, got.Name)
		})
	}
}

func TestIsThanks(t *testing.T) {
	c := NewRuleClassifier(nil)
	tests := []struct {
		question string
		thanks   bool
	}{
		{"Thank you so much", true},
		{"thx!", true},
		{"I appreciate it", true},
		{"much appreciated", true},
		{"bye for now", false},
		{"take care", false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, Courtesy, c.Classify(context.Background(), tt.question).Intent)
			assert.Equal(t, tt.thanks, IsThanks(tt.question))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Sarah", NormalizeName("SARAH!"))
	assert.Equal(t, "Mary-kate", NormalizeName("mary-kate"))
	assert.Equal(t, "Jo", NormalizeName(" jo smith"))
	assert.Equal(t, "", NormalizeName("r2d2"))
	assert.Equal(t, "", NormalizeName("  "))
}

func TestParse(t *testing.T) {
	got, ok := Parse("alltrails")
	assert.True(t, ok)
	assert.Equal(t, ListRequest, got)

	got, ok = Parse("permits")
	assert.True(t, ok)
	assert.Equal(t, Permits, got)

	_, ok = Parse("weather_report")
	assert.False(t, ok)
}

func TestIntent_IsConversational(t *testing.T) {
	conversational := map[Intent]bool{
		Greeting: true, SystemInfo: true, Courtesy: true, OffTopic: true, Empty: true, UserIntroduction: true,
	}
	for _, i := range All {
		assert.Equal(t, conversational[i], i.IsConversational(), string(i))
	}
}

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, options...)
}

func TestLLMClassifier_Classify(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	tests := []struct {
		name     string
		reply    string
		err      error
		question string
		want     Classification
		degraded bool
	}{
		{
			name:     "alltrails label maps to list request",
			reply:    `{"type": "alltrails", "name": null}`,
			question: "what are some good walks",
			want:     Classification{Intent: ListRequest},
		},
		{
			name:     "introduction with name",
			reply:    "Sure! {\"type\": \"user_introduction\", \"name\": \"jamie\"}",
			question: "I am Jamie",
			want:     Classification{Intent: UserIntroduction, Name: "Jamie"},
		},
		{
			name:     "call error degrades to rules",
			err:      errors.New("connection refused"),
			question: "What permits do I need to climb?",
			want:     Classification{Intent: Permits},
			degraded: true,
		},
		{
			name:     "no json degrades to rules",
			reply:    "permits",
			question: "Do I need a permit?",
			want:     Classification{Intent: Permits},
			degraded: true,
		},
		{
			name:     "unknown label degrades to rules",
			reply:    `{"type": "directions"}`,
			question: "hello",
			want:     Classification{Intent: Greeting},
			degraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubLLM{reply: tt.reply, err: tt.err}
			c := NewLLMClassifier(stub, nil, logger)
			var degraded bool
			c.OnDegraded(func(error) { degraded = true })

			got := c.Classify(context.Background(), tt.question)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.degraded, degraded)
			assert.Equal(t, 1, stub.calls)
		})
	}
}

func TestLLMClassifier_EmptySkipsModel(t *testing.T) {
	stub := &stubLLM{reply: `{"type": "greeting"}`}
	c := NewLLMClassifier(stub, nil, log.New(io.Discard, "", 0))

	assert.Equal(t, Empty, c.Classify(context.Background(), "  ").Intent)
	assert.Equal(t, 0, stub.calls)
}
