package enhance

import (
	"context"
	"errors"
	"log"
	"strings"

	"rainier-guide-be/pkg/llm"
	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/rag/prompt"
)

const (
	maxTokens   = 150
	temperature = 0.3
)

var errEmptyRewrite = errors.New("empty rewrite")

// EnhancedQuery is the retrieval query derived from a question.
// When Success is false, Enhanced equals Original.
type EnhancedQuery struct {
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
	Success  bool   `json:"success"`
	Err      error  `json:"-"`
}

// Enhancer rewrites questions for retrieval with an intent-specific instruction.
type Enhancer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewEnhancer(llmProvider llm.LLMProvider, logger *log.Logger) *Enhancer {
	return &Enhancer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Enhance never fails; any problem returns the original question with Success false.
func (e *Enhancer) Enhance(ctx context.Context, question string, i intent.Intent) EnhancedQuery {
	fallback := func(err error) EnhancedQuery {
		e.logger.Printf("[ENHANCER] using original question: %v", err)
		return EnhancedQuery{Original: question, Enhanced: question, Success: false, Err: err}
	}

	if strings.TrimSpace(question) == "" {
		return fallback(errEmptyRewrite)
	}

	raw, err := llm.Complete(ctx, e.llmProvider, prompt.EnhancementSystem(i), prompt.EnhancementUser(question), maxTokens, temperature)
	if err != nil {
		return fallback(err)
	}

	enhanced := Clean(raw)
	if enhanced == "" {
		return fallback(errEmptyRewrite)
	}

	e.logger.Printf("[ENHANCER] %q -> %q", question, enhanced)
	return EnhancedQuery{Original: question, Enhanced: enhanced, Success: true}
}

// Clean strips labels and wrapping quotes a model tends to add around the rewrite.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	for _, label := range []string{"Enhanced Question:", "Enhanced question:", "Enhanced Query:"} {
		if strings.HasPrefix(s, label) {
			s = strings.TrimSpace(strings.TrimPrefix(s, label))
		}
	}
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}
