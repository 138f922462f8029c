package serverutils

import (
	"errors"

	"rainier-guide-be/pkg/ai/pipeline"

	"github.com/gofiber/fiber/v2"
)

// StatusClientClosedRequest is nginx's status for a client that left before the response.
const StatusClientClosedRequest = 499

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusOf(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusOf maps an error to an HTTP status and a message safe to show a visitor.
func StatusOf(err error) (int, string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, verr.Error()
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code, ferr.Message
	}

	var perr *pipeline.PipelineError
	if errors.As(err, &perr) {
		switch {
		case errors.Is(perr, pipeline.ErrRetrievalUnavailable):
			return fiber.StatusServiceUnavailable, perr.UserMessage
		case errors.Is(perr, pipeline.ErrRequestTimeout):
			return fiber.StatusGatewayTimeout, perr.UserMessage
		case errors.Is(perr, pipeline.ErrRequestCanceled):
			return StatusClientClosedRequest, perr.UserMessage
		default:
			return fiber.StatusInternalServerError, perr.UserMessage
		}
	}

	return fiber.StatusInternalServerError, err.Error()
}
