package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	creditdomain "github.com/wgesler/rentall-billing/internal/credit/domain"
	generationdomain "github.com/wgesler/rentall-billing/internal/generation/domain"
	invoicedomain "github.com/wgesler/rentall-billing/internal/invoice/domain"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	ledgerservice "github.com/wgesler/rentall-billing/internal/ledger/service"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorPayload struct {
	Type            string                   `json:"type"`
	Message         string                   `json:"message"`
	Errors          []ValidationError        `json:"errors,omitempty"`
	IncompleteLines []int                    `json:"incompleteLines,omitempty"`
	LineErrors      []ledgerdomain.LineError `json:"lineErrors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &requestValidationError{
		errors: []ValidationError{{Field: field, Code: code, Message: message}},
	}
}

type requestValidationError struct {
	errors []ValidationError
}

func (e *requestValidationError) Error() string { return "validation error" }

func mapError(err error) (int, errorPayload) {
	var reqErr *requestValidationError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  reqErr.errors,
		}
	}

	// Line completeness failures carry the 1-based offending line numbers;
	// no network call was made for these.
	var lineErr *ledgerservice.ValidationError
	if errors.As(err, &lineErr) {
		return http.StatusBadRequest, errorPayload{
			Type:            "incomplete_lines",
			Message:         "one or more ledger lines are incomplete",
			IncompleteLines: lineErr.LineNumbers(),
			LineErrors:      lineErr.Lines,
		}
	}

	switch {
	case errors.Is(err, ledgerdomain.ErrNoLines):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "at least one ledger line is required",
		}
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, creditdomain.ErrReservationNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ledgerservice.ErrSubmitInFlight):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "a save is already in progress",
		}
	case errors.Is(err, ledgerservice.ErrCreditUnresolved):
		// Partial failure: the invoice saved but the credit did not move.
		// Distinct from a save failure because retrying "save" is a no-op.
		return http.StatusConflict, errorPayload{
			Type:    "credit_unresolved",
			Message: "invoice saved but the overpayment credit was not transferred; manual follow-up required",
		}
	case errors.Is(err, generationdomain.ErrGenerationFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "generation_failed",
			Message: "period generation did not produce data",
		}
	case errors.Is(err, ledgerservice.ErrUnknownCostCode):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "unknown cost code",
		}
	case errors.Is(err, creditdomain.ErrNoDestination):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "no destination selected for the overpayment credit",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "something went wrong, please try again",
		}
	}
}
