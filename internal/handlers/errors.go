package handlers

import (
	"errors"
	"net/http"

	"ratecard-service/internal/apiutil"
	"ratecard-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

// writeServiceError maps the service error taxonomy onto HTTP. Conflict stays
// distinct from NotFound so clients can retry stale writes instead of treating
// them as missing resources.
func writeServiceError(c fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(http.StatusBadRequest).JSON(
			apiutil.CreateErrorResponseWithDetails("VALIDATION_FAILED", validationErr.Message, validationErr))
	}

	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return c.Status(http.StatusUnauthorized).JSON(
			apiutil.CreateErrorResponse("UNAUTHORIZED", "A valid password is required"))
	case errors.Is(err, models.ErrQuotaExceeded):
		return c.Status(http.StatusForbidden).JSON(
			apiutil.CreateErrorResponse("QUOTA_EXCEEDED", "Active rate card limit reached for this subscription tier"))
	case errors.Is(err, models.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(
			apiutil.CreateErrorResponse("NOT_FOUND", "Rate card not found"))
	case errors.Is(err, models.ErrConflict):
		return c.Status(http.StatusConflict).JSON(
			apiutil.CreateErrorResponse("CONFLICT", err.Error()))
	case errors.Is(err, models.ErrTransactionFailed):
		return c.Status(http.StatusInternalServerError).JSON(
			apiutil.CreateErrorResponse("TRANSACTION_FAILED", "The change could not be committed, please retry"))
	default:
		return c.Status(http.StatusInternalServerError).JSON(
			apiutil.CreateErrorResponse("INTERNAL_ERROR", "Something went wrong"))
	}
}
