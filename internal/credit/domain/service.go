package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	reservationdomain "github.com/wgesler/rentall-billing/internal/reservation/domain"
)

// Service resolves overpayment excesses. Candidates feeds the destination
// picker; Resolve performs the transfer.
type Service interface {
	ledgerdomain.CreditResolver

	Candidates(ctx context.Context, officeID snowflake.ID, exclude *snowflake.ID) ([]reservationdomain.Reservation, error)
}
