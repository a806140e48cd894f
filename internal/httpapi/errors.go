package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/honeycarbs/jobboard/internal/domain"
	"github.com/honeycarbs/jobboard/pkg/logging"
)

type errorResponse struct {
	Error         string   `json:"error"`
	Details       []string `json:"details,omitempty"`
	ExistingJobID string   `json:"existing_job_id,omitempty"`
}

// writeError maps domain errors onto status codes. Anything unrecognised is a 500
// whose message is prefixed with what the handler was doing.
func writeError(c *fiber.Ctx, log *logging.Logger, action string, err error) error {
	if verr, ok := domain.IsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Validation failed", Details: verr.Messages})
	}

	if conflict, ok := domain.IsConflict(err); ok {
		return c.Status(fiber.StatusConflict).JSON(errorResponse{
			Error:         "Job already exists",
			ExistingJobID: conflict.ExistingID.String(),
		})
	}

	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Job not found"})
	}

	log.Error("request failed", "action", action, "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Failed to " + action})
}

// errorHandler renders errors that escape handlers, including fiber's own 404
// and 405 responses
func errorHandler(log *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			msg := fe.Message
			switch fe.Code {
			case fiber.StatusNotFound:
				msg = "Endpoint not found"
			case fiber.StatusMethodNotAllowed:
				msg = "Method not allowed"
			}
			return c.Status(fe.Code).JSON(errorResponse{Error: msg})
		}

		log.Error("unhandled request error", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Internal server error"})
	}
}
