package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		want      []string
	}{
		{"short text is one chunk", "Paradise is at 5,400 feet.", 100, 10, []string{"Paradise is at 5,400 feet."}},
		{"empty", "   ", 100, 10, nil},
		{"breaks at whitespace", "alpha beta gamma delta", 12, 0, []string{"alpha beta", "gamma delta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitText(tt.text, tt.chunkSize, tt.overlap))
		})
	}
}

func TestSplitText_BoundsAndCoverage(t *testing.T) {
	text := strings.Repeat("Wildflowers bloom in the subalpine meadows of Paradise each July. ", 40)

	chunks := SplitText(text, 200, 40)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 200)
		assert.NotEmpty(t, c)
	}
	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), chunks[len(chunks)-1]))
}

func TestSplitText_NoWhitespaceStillTerminates(t *testing.T) {
	chunks := SplitText(strings.Repeat("x", 25), 10, 15)

	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, chunks)
}
