package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"rainier-guide-be/pkg/llm"
)

const classifierSystemPrompt = "You are an intent classifier for a Mount Rainier National Park AI guide. " +
	"Classify the user's query into one of these types: " +
	"greeting, system_info, courtesy, off_topic, empty, alltrails, trail, weather, permits, safety, gear, climbing, user_introduction. " +
	"Use 'alltrails' ONLY for queries about lists or recommendations of hikes/trails (e.g., 'show me hikes', 'best trails', 'recommend hikes', 'list of trails'). " +
	"If the query mentions a specific trail name (e.g., 'Skyline Trail', 'Burroughs Mountain'), classify as 'trail'. " +
	"If the user is introducing themselves (e.g., 'my name is ...', 'I am ...', 'call me ...'), classify as user_introduction and extract the name. " +
	"If not, set name to null. " +
	"Respond in JSON: {\"type\": ..., \"name\": ...} (name is null unless user_introduction)."

// LLMClassifier asks the model for a label and falls back to the rules on any failure.
type LLMClassifier struct {
	llmProvider llm.LLMProvider
	rules       *RuleClassifier
	logger      *log.Logger
	onDegraded  func(err error)
}

type llmLabel struct {
	Type string  `json:"type"`
	Name *string `json:"name"`
}

func NewLLMClassifier(llmProvider llm.LLMProvider, rules *RuleClassifier, logger *log.Logger) *LLMClassifier {
	if rules == nil {
		rules = NewRuleClassifier(nil)
	}
	return &LLMClassifier{
		llmProvider: llmProvider,
		rules:       rules,
		logger:      logger,
	}
}

// OnDegraded registers a hook called whenever the rules answer instead of the model.
func (c *LLMClassifier) OnDegraded(fn func(err error)) {
	c.onDegraded = fn
}

func (c *LLMClassifier) Classify(ctx context.Context, question string) Classification {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return Classification{Intent: Empty}
	}

	result, err := c.classifyWithLLM(ctx, trimmed)
	if err != nil {
		fallback := c.rules.classify(trimmed)
		c.logger.Printf("[CLASSIFIER] LLM classification degraded, rules chose %s: %v", fallback.Intent, err)
		if c.onDegraded != nil {
			c.onDegraded(err)
		}
		return fallback
	}

	c.logger.Printf("[CLASSIFIER] %q -> %s", trimmed, result.Intent)
	return result
}

func (c *LLMClassifier) classifyWithLLM(ctx context.Context, question string) (Classification, error) {
	response, err := llm.Complete(ctx, c.llmProvider, classifierSystemPrompt, "User Query: "+question, 50, 0)
	if err != nil {
		return Classification{}, err
	}

	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return Classification{}, fmt.Errorf("no JSON in classifier response: %q", response)
	}

	var label llmLabel
	if err := json.Unmarshal([]byte(jsonStr), &label); err != nil {
		return Classification{}, fmt.Errorf("decode classifier response: %w", err)
	}

	parsed, ok := Parse(strings.ToLower(strings.TrimSpace(label.Type)))
	if !ok {
		return Classification{}, fmt.Errorf("unknown intent label %q", label.Type)
	}

	result := Classification{Intent: parsed}
	if parsed == UserIntroduction && label.Name != nil {
		result.Name = NormalizeName(*label.Name)
	}
	// The model may miss a name given alongside a greeting.
	if parsed == Greeting {
		result.Name = c.rules.extractName(question)
	}
	return result, nil
}

// extractJSON cuts the outermost JSON object out of a model reply.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
