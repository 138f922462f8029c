package response

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"rainier-guide-be/pkg/llm"
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/rag/prompt"
)

const (
	maxTokens   = 500
	temperature = 0.7

	emptyAnswer = "I couldn't generate a proper response."
)

// ErrFailed marks an answer that could not be phrased by the model.
var ErrFailed = errors.New("answer generation failed")

// GenerateInput is everything the answer prompt is built from.
type GenerateInput struct {
	OriginalQuestion string
	EnhancedQuestion string
	Context          string
	Intent           intent.Intent
	Auxiliary        map[string]string
}

// Generator creates grounded answers from retrieved context
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewGenerator creates a new response generator
func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate always returns displayable text. A non-nil error wraps ErrFailed and means the text is the
// failure notice rather than an answer.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (string, error) {
	system := prompt.AnswerSystem(in.Intent)
	user := prompt.NewAnswerBuilder(in.OriginalQuestion, in.EnhancedQuestion, in.Context, in.Auxiliary).Build()

	raw, err := llm.Complete(ctx, g.llmProvider, system, user, maxTokens, temperature)
	if err != nil {
		g.logger.Printf("[GENERATOR] LLM generation failed: %v", err)
		return FailureMessage(err), fmt.Errorf("%w: %w", ErrFailed, err)
	}

	if strings.TrimSpace(raw) == "" {
		g.logger.Printf("[GENERATOR] LLM returned empty output")
		return emptyAnswer, nil
	}

	return FormatAnswer(raw), nil
}

// FailureMessage is shown when passages were found but the model call failed.
func FailureMessage(err error) string {
	return "I found relevant information but couldn't generate a proper response. Error: " + rootCause(err)
}

// rootCause drops the generic wrapping prefix so the notice carries the collaborator's own message.
func rootCause(err error) string {
	msg := err.Error()
	prefix := llm.ErrGeneration.Error() + ": "
	return strings.TrimPrefix(msg, prefix)
}
