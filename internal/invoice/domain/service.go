package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	creditdomain "github.com/wgesler/rentall-billing/internal/credit/domain"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
)

var ErrInvoiceNotFound = errors.New("invoice_not_found")

// LoadedInvoice is an invoice mapped into the editing session's working form.
type LoadedInvoice struct {
	Header ledgerdomain.InvoiceHeader
	Lines  []ledgerdomain.LedgerLine
	Notes  string
}

// ListInvoiceRequest filters the invoice listing.
type ListInvoiceRequest struct {
	OfficeID      *snowflake.ID
	ReservationID *snowflake.ID
	ActiveOnly    bool
}

// Service is the invoice storage collaborator. Save implements
// ledgerdomain.Saver, so the editing session submits through this interface;
// ApplyPayment is the payment-application endpoint the credit transfer
// resolver posts to.
type Service interface {
	ledgerdomain.Saver
	creditdomain.PaymentApplier

	Load(ctx context.Context, id snowflake.ID) (LoadedInvoice, error)
	List(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Find(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	LinesByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]LedgerLine, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
