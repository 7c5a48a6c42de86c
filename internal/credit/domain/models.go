// Package domain defines the credit transfer contracts: carrying an
// overpayment excess to another reservation's credit balance and applying the
// excess as a payment on a destination invoice.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoDestination means the payer never chose where the excess goes.
	ErrNoDestination = errors.New("no_destination_selected")

	// ErrReservationNotFound means the chosen destination does not exist.
	ErrReservationNotFound = errors.New("destination_reservation_not_found")
)

// PaymentApplicationRequest applies an amount against destination invoices.
// Amount is positive at this boundary; the storage collaborator owns the
// sign convention for the stored line.
type PaymentApplicationRequest struct {
	CostCodeID  string          `json:"costCodeId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Invoices    []snowflake.ID  `json:"invoices"`
}

// PaymentApplier posts a payment application. Implemented by the invoice
// storage collaborator.
type PaymentApplier interface {
	ApplyPayment(ctx context.Context, req PaymentApplicationRequest) error
}
