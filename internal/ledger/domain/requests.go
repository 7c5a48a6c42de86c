package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// LedgerLineRequest is the wire form of one line in a submission payload.
type LedgerLineRequest struct {
	LedgerLineID      *snowflake.ID   `json:"ledgerLineId,omitempty"`
	InvoiceID         *snowflake.ID   `json:"invoiceId,omitempty"`
	LineNumber        int             `json:"lineNumber,omitempty"`
	CostCodeID        string          `json:"costCodeId"`
	TransactionTypeID TransactionType `json:"transactionTypeId"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
}

// InvoiceRequest is the submission payload built by the editing session.
// TotalAmount carries the invoiced total, PaidAmount the payment total.
type InvoiceRequest struct {
	InvoiceID      *snowflake.ID       `json:"invoiceId,omitempty"`
	OrganizationID snowflake.ID        `json:"organizationId"`
	OfficeID       snowflake.ID        `json:"officeId"`
	InvoiceCode    string              `json:"invoiceCode"`
	ReservationID  *snowflake.ID       `json:"reservationId,omitempty"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	InvoiceDate    time.Time           `json:"invoiceDate"`
	DueDate        time.Time           `json:"dueDate"`
	TotalAmount    decimal.Decimal     `json:"totalAmount"`
	PaidAmount     decimal.Decimal     `json:"paidAmount"`
	Notes          string              `json:"notes"`
	IsActive       bool                `json:"isActive"`
	LedgerLines    []LedgerLineRequest `json:"ledgerLines"`
}

// ToRequest converts a display line into its wire form.
func (l LedgerLine) ToRequest(invoiceID *snowflake.ID) LedgerLineRequest {
	req := LedgerLineRequest{
		LedgerLineID: l.LedgerLineID,
		InvoiceID:    invoiceID,
		LineNumber:   l.LineNumber,
		CostCodeID:   l.CostCodeID,
		Amount:       l.Amount,
		Description:  l.Description,
	}
	if l.TransactionTypeID != nil {
		req.TransactionTypeID = *l.TransactionTypeID
	}
	return req
}

// SaveResult is what the storage collaborator returns after persisting an
// invoice: the assigned id and the persisted lines mapped back to display
// form, which become the new baseline.
type SaveResult struct {
	InvoiceID snowflake.ID
	Lines     []LedgerLine
}

// Saver persists a submission payload. Implemented by the invoice storage
// collaborator; the session only sees this contract.
type Saver interface {
	Save(ctx context.Context, req InvoiceRequest) (SaveResult, error)
}

// CreditTransfer describes an overpayment excess to carry to another
// reservation. SourceInvoiceID is nil while the originating invoice is not
// yet persisted, in which case resolution is deferred.
type CreditTransfer struct {
	SourceInvoiceID          *snowflake.ID
	DestinationReservationID snowflake.ID
	DestinationInvoiceID     *snowflake.ID
	CostCodeID               string
	Description              string
	Excess                   decimal.Decimal
}

// CreditResolver carries an overpayment excess to its destination. Invoked at
// most once per save, after the save itself succeeded.
type CreditResolver interface {
	Resolve(ctx context.Context, transfer CreditTransfer) error
}
