// Package domain defines the period-generation boundary: the request shape,
// the raw line records the capability returns, and the capability contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ErrGenerationFailed means the capability produced no usable data. The
// caller's local state is reset, never left half-populated.
var ErrGenerationFailed = errors.New("generation_failed")

// Request asks the generation capability for a period's lines. Exactly one of
// ReservationID (reservation mode) or OrganizationID (cross-reservation
// billing mode) identifies the billing target.
type Request struct {
	InvoiceCode    string        `json:"invoiceCode"`
	OrganizationID *snowflake.ID `json:"organizationId,omitempty"`
	ReservationID  *snowflake.ID `json:"reservationId,omitempty"`
	StartDate      time.Time     `json:"startDate"`
	EndDate        time.Time     `json:"endDate"`
}

// RawLine is one generated record before cost-code resolution.
type RawLine struct {
	CostCodeID  string          `json:"costCodeId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Capability is the external "generate lines for period" collaborator.
type Capability interface {
	GenerateLines(ctx context.Context, req Request) ([]RawLine, error)
}
