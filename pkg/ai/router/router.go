package router

import (
	"fmt"
	"log"
	"strings"

	"rainier-guide-be/pkg/rag/intent"
)

// Mode is the pipeline branch a question takes.
type Mode string

const (
	ModeConversational Mode = "CONVERSATIONAL" // templated reply, no retrieval
	ModeList           Mode = "LIST"           // trail dataset formatter
	ModeRAG            Mode = "RAG"            // enhance, retrieve, generate
)

// Policy decides which short-circuit is checked first when both could apply.
type Policy string

const (
	ConversationalFirst Policy = "conversational_first"
	ListFirst           Policy = "list_first"
)

// ParsePolicy accepts the configured value; empty means ConversationalFirst.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ConversationalFirst:
		return ConversationalFirst, nil
	case ListFirst:
		return ListFirst, nil
	default:
		return "", fmt.Errorf("unknown route order %q (want %s or %s)", s, ConversationalFirst, ListFirst)
	}
}

// ListDetector reports whether the raw question asks for several hikes.
type ListDetector func(question string) bool

// Router selects the branch for a classified question
type Router struct {
	policy    Policy
	isListAsk ListDetector
	logger    *log.Logger
}

func NewRouter(policy Policy, isListAsk ListDetector, logger *log.Logger) *Router {
	if isListAsk == nil {
		isListAsk = func(string) bool { return false }
	}
	return &Router{
		policy:    policy,
		isListAsk: isListAsk,
		logger:    logger,
	}
}

// Route picks the branch. A list ask is either the list_request intent or list phrasing in the question.
func (r *Router) Route(c intent.Classification, question string) Mode {
	conversational := c.Intent.IsConversational()
	// Empty input never has list phrasing.
	listAsk := c.Intent == intent.ListRequest || (c.Intent != intent.Empty && r.isListAsk(question))

	var mode Mode
	switch {
	case r.policy == ListFirst && listAsk:
		mode = ModeList
	case conversational:
		mode = ModeConversational
	case listAsk:
		mode = ModeList
	default:
		mode = ModeRAG
	}

	r.logger.Printf("[ROUTER] intent=%s policy=%s -> %s", c.Intent, r.policy, mode)
	return mode
}
