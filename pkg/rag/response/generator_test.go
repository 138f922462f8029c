package response

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"rainier-guide-be/pkg/llm"
	"rainier-guide-be/pkg/rag/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply   string
	err     error
	history []llm.Message
	opts    llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.history = history
	for _, o := range options {
		o(&f.opts)
	}
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func TestGenerator_Generate(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	in := GenerateInput{
		OriginalQuestion: "What permits do I need to climb?",
		EnhancedQuestion: "Mount Rainier climbing permit requirements",
		Context:          "Document 1: A Climbing Cost Recovery fee is required above 10,000 feet.",
		Intent:           intent.Permits,
		Auxiliary:        map[string]string{"Temperature": "40°F"},
	}

	t.Run("grounded prompt and formatted output", func(t *testing.T) {
		f := &fakeLLM{reply: "Climbing Permits\n1. **Fee:** Required above 10,000 feet. 2. **Registration:** At the Paradise ranger station."}
		out, err := NewGenerator(f, logger).Generate(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, "<strong>Climbing Permits</strong><br/><br/>\n"+
			"1. <strong>Fee:</strong> Required above 10,000 feet.<br/><br/>\n"+
			"2. <strong>Registration:</strong> At the Paradise ranger station.<br/><br/>", out)

		require.Len(t, f.history, 2)
		assert.Contains(t, f.history[0].Content, "Focus on permit requirements")
		assert.Contains(t, f.history[1].Content, "Climbing Cost Recovery fee")
		assert.Contains(t, f.history[1].Content, "- Temperature: 40°F")
		assert.Equal(t, 500, f.opts.MaxTokens)
		assert.Equal(t, 0.7, f.opts.Temperature)
	})

	t.Run("collaborator failure is surfaced with the error text", func(t *testing.T) {
		f := &fakeLLM{err: errors.New("rate limit reached")}
		out, err := NewGenerator(f, logger).Generate(context.Background(), in)

		assert.ErrorIs(t, err, ErrFailed)
		assert.Equal(t, "I found relevant information but couldn't generate a proper response. Error: rate limit reached", out)
	})

	t.Run("empty output", func(t *testing.T) {
		out, err := NewGenerator(&fakeLLM{reply: "   "}, logger).Generate(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, "I couldn't generate a proper response.", out)
	})
}

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already formatted is unchanged",
			in:   "<strong>Gear</strong><br/><br/>\n\n1. <strong>Boots:</strong> Waterproof<br/><br/>",
			want: "<strong>Gear</strong><br/><br/>\n\n1. <strong>Boots:</strong> Waterproof<br/><br/>",
		},
		{
			name: "inline items after a break get a newline only",
			in:   "<strong>Gear</strong><br/><br/>1. Boots<br/> 2. Poles",
			want: "<strong>Gear</strong><br/><br/>\n1. Boots<br/><br/>\n2. Poles<br/><br/>",
		},
		{
			name: "decimals are not items",
			in:   "The loop is 5.5 miles. It gains 1,700 ft.",
			want: "The loop is 5.5 miles. It gains 1,700 ft.",
		},
		{
			name: "markdown heading title",
			in:   "## Safety Tips\n1. Carry the ten essentials",
			want: "<strong>Safety Tips</strong><br/><br/>\n1. Carry the ten essentials<br/><br/>",
		},
		{
			name: "markdown bold title gets its break",
			in:   "**Title**\n\n1. **A:** x. 2. **B:** y.",
			want: "<strong>Title</strong><br/><br/>\n\n1. <strong>A:</strong> x.<br/><br/>\n2. <strong>B:</strong> y.<br/><br/>",
		},
		{
			name: "bold lead-in sentence is not a title",
			in:   "<strong>Note:</strong> trails close in winter.\nCheck conditions first.",
			want: "<strong>Note:</strong> trails close in winter.\nCheck conditions first.",
		},
		{
			name: "single prose line is left alone",
			in:   "Paradise sits at 5,400 feet.",
			want: "Paradise sits at 5,400 feet.",
		},
		{
			name: "empty",
			in:   "  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAnswer(tt.in))
		})
	}
}

func TestFormatAnswer_EveryItemOnItsOwnLine(t *testing.T) {
	out := FormatAnswer("Permits: 1. Wilderness permit. 2. Climbing pass! 3. Timed entry)")

	for _, line := range strings.Split(out, "\n")[1:] {
		assert.Regexp(t, `^\d\. .*<br/><br/>$`, line)
	}
	assert.Len(t, strings.Split(out, "\n"), 4)
}
