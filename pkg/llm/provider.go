package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrGeneration is wrapped by every provider failure (network, quota, malformed response).
var ErrGeneration = errors.New("text generation failed")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Complete runs a system + user exchange with bounded output.
// Provider errors come back wrapped with ErrGeneration.
func Complete(ctx context.Context, p LLMProvider, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	history := make([]Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		history = append(history, Message{Role: "system", Content: systemPrompt})
	}
	history = append(history, Message{Role: "user", Content: userPrompt})

	out, err := p.Chat(ctx, history, WithMaxTokens(maxTokens), WithTemperature(temperature))
	if err != nil {
		if errors.Is(err, ErrGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return out, nil
}
