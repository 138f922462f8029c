package pipeline

import (
	"context"
	"errors"
	"fmt"

	"rainier-guide-be/pkg/rag/response"
	"rainier-guide-be/pkg/rag/search"
)

// Degradations are absorbed by the stage that hits them; only retrieval outages, timeouts and internal
// failures end a request with an error.
var (
	ErrClassificationDegraded   = errors.New("classification degraded to rules")
	ErrEnhancementFailed        = errors.New("query enhancement failed")
	ErrRetrievalEmpty           = errors.New("no passages retrieved")
	ErrRetrievalUnavailable     = search.ErrUnavailable
	ErrGenerationFailed         = response.ErrFailed
	ErrAuxiliaryDataUnavailable = errors.New("auxiliary data unavailable")
	ErrRequestTimeout           = errors.New("request timed out")
	ErrRequestCanceled          = errors.New("request canceled")
	ErrInternal                 = errors.New("internal pipeline failure")
)

const (
	msgRetrievalUnavailable = "The Mount Rainier knowledge base is temporarily unavailable. Please try again shortly."
	msgTimeout              = "Sorry, that took too long to answer. Please try again."
	msgCanceled             = "The request was canceled before an answer was ready."
	msgInternal             = "Something went wrong while answering your question. Please try again."
)

// PipelineError is a request-level failure with a message safe to show the visitor.
type PipelineError struct {
	Kind        error
	UserMessage string
	Err         error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newRetrievalError(err error) *PipelineError {
	return &PipelineError{Kind: ErrRetrievalUnavailable, UserMessage: msgRetrievalUnavailable, Err: err}
}

func newTimeoutError(err error) *PipelineError {
	return &PipelineError{Kind: ErrRequestTimeout, UserMessage: msgTimeout, Err: err}
}

func newCanceledError(err error) *PipelineError {
	return &PipelineError{Kind: ErrRequestCanceled, UserMessage: msgCanceled, Err: err}
}

// interruptedError classifies a request stopped by its context: the caller going away is a cancellation,
// anything else is the request deadline.
func interruptedError(parent context.Context, err error) *PipelineError {
	if errors.Is(parent.Err(), context.Canceled) {
		return newCanceledError(err)
	}
	return newTimeoutError(err)
}

func newInternalError(err error) *PipelineError {
	return &PipelineError{Kind: ErrInternal, UserMessage: msgInternal, Err: err}
}

// UserMessage returns the visitor-facing text for err.
func UserMessage(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) && pe.UserMessage != "" {
		return pe.UserMessage
	}
	return msgInternal
}

// ErrorOutcome labels a failed request for metrics and the audit trail.
func ErrorOutcome(err error) string {
	switch {
	case errors.Is(err, ErrRequestCanceled):
		return "canceled"
	case errors.Is(err, ErrRequestTimeout):
		return "timeout"
	case errors.Is(err, ErrRetrievalUnavailable):
		return "retrieval_unavailable"
	default:
		return "error"
	}
}
