package prompt

import (
	"strings"
	"testing"

	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestAnswerSystem(t *testing.T) {
	assert.Contains(t, AnswerSystem(intent.Permits), "Focus on permit requirements")
	assert.Contains(t, AnswerSystem(intent.Climbing), "mountaineering routes")
	assert.Equal(t, answerBase, AnswerSystem(intent.General))
	assert.Equal(t, answerBase, AnswerSystem(intent.ListRequest))
}

func TestEnhancementSystem(t *testing.T) {
	for _, i := range []intent.Intent{intent.Trail, intent.Weather, intent.Permits, intent.Safety, intent.Gear, intent.Climbing} {
		got := EnhancementSystem(i)
		assert.True(t, strings.HasPrefix(got, enhancementBase), string(i))
		assert.NotEqual(t, enhancementBase, got, string(i))
	}
	assert.Equal(t, enhancementBase, EnhancementSystem(intent.General))
}

func TestFormatContext(t *testing.T) {
	got := FormatContext([]store.Passage{{Content: "Climbing permits are required above 10,000 ft."}, {Content: "Camp Muir sits at 10,188 ft."}})

	assert.Equal(t, "Document 1: Climbing permits are required above 10,000 ft.\n\nDocument 2: Camp Muir sits at 10,188 ft.", got)
}

func TestAnswerBuilder_Build(t *testing.T) {
	t.Run("with live conditions sorted by key", func(t *testing.T) {
		out := NewAnswerBuilder("is it cold?", "current temperature at Paradise", "Document 1: x",
			map[string]string{"Wind": "8 mph from SW", "Temperature": "54°F"}).Build()

		assert.Contains(t, out, "ORIGINAL USER QUESTION: \"is it cold?\"")
		assert.Contains(t, out, "ENHANCED QUESTION: \"current temperature at Paradise\"")
		assert.Contains(t, out, "LIVE CONDITIONS:\n- Temperature: 54°F\n- Wind: 8 mph from SW\n")
		assert.Less(t, strings.Index(out, "LIVE CONDITIONS"), strings.Index(out, "RELEVANT INFORMATION"))
		assert.True(t, strings.HasSuffix(out, "ANSWER:"))
	})

	t.Run("without live conditions", func(t *testing.T) {
		out := NewAnswerBuilder("q", "q", "Document 1: x", nil).Build()
		assert.NotContains(t, out, "LIVE CONDITIONS:\n")
		assert.Contains(t, out, "RELEVANT INFORMATION:\nDocument 1: x")
	})
}

func TestEnhancementUser(t *testing.T) {
	out := EnhancementUser("do i need permits?")
	assert.Contains(t, out, `Original User Question: "do i need permits?"`)
	assert.True(t, strings.HasSuffix(out, "Enhanced Question:"))
}
