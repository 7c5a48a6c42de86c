package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	creditdomain "github.com/wgesler/rentall-billing/internal/credit/domain"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	"github.com/wgesler/rentall-billing/internal/metrics"
	reservationdomain "github.com/wgesler/rentall-billing/internal/reservation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Reservations reservationdomain.Repository
	Applier      creditdomain.PaymentApplier
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	log          *zap.Logger
	reservations reservationdomain.Repository
	applier      creditdomain.PaymentApplier
	metrics      *metrics.Metrics
}

func NewService(p Params) creditdomain.Service {
	return &Service{
		log:          p.Log.Named("credit.service"),
		reservations: p.Reservations,
		applier:      p.Applier,
		metrics:      p.Metrics,
	}
}

func (s *Service) Candidates(ctx context.Context, officeID snowflake.ID, exclude *snowflake.ID) ([]reservationdomain.Reservation, error) {
	return s.reservations.ListCandidates(ctx, officeID, exclude)
}

// Resolve carries an overpayment excess to its destination: the reservation's
// credit balance is incremented first, then the excess is applied as a
// payment against the destination invoice when one was chosen. If the
// originating invoice has no id yet the transfer is deferred; the caller
// re-invokes after the invoice exists.
func (s *Service) Resolve(ctx context.Context, transfer ledgerdomain.CreditTransfer) error {
	if transfer.SourceInvoiceID == nil {
		s.log.Info("credit transfer deferred until invoice is persisted",
			zap.String("destination_reservation_id", transfer.DestinationReservationID.String()),
			zap.String("excess", transfer.Excess.String()),
		)
		return nil
	}
	if transfer.DestinationReservationID == 0 {
		s.count("no_destination")
		return creditdomain.ErrNoDestination
	}
	if transfer.Excess.Sign() <= 0 {
		return nil
	}

	destination, err := s.reservations.FindByID(ctx, transfer.DestinationReservationID)
	if err != nil {
		s.count("error")
		return fmt.Errorf("load destination reservation: %w", err)
	}
	if destination == nil {
		s.count("error")
		return creditdomain.ErrReservationNotFound
	}

	if err := s.reservations.AddCredit(ctx, destination.ID, transfer.Excess); err != nil {
		s.count("error")
		return fmt.Errorf("add credit to reservation %s: %w", destination.ID, err)
	}

	if transfer.DestinationInvoiceID != nil {
		req := creditdomain.PaymentApplicationRequest{
			CostCodeID:  transfer.CostCodeID,
			Description: transfer.Description,
			Amount:      transfer.Excess.Abs(),
			Invoices:    []snowflake.ID{*transfer.DestinationInvoiceID},
		}
		if err := s.applier.ApplyPayment(ctx, req); err != nil {
			s.count("error")
			return fmt.Errorf("apply payment to invoice %s: %w", *transfer.DestinationInvoiceID, err)
		}
	}

	s.count("resolved")
	s.log.Info("credit transfer resolved",
		zap.String("source_invoice_id", transfer.SourceInvoiceID.String()),
		zap.String("destination_reservation_id", destination.ID.String()),
		zap.String("excess", transfer.Excess.String()),
	)
	return nil
}

func (s *Service) count(status string) {
	if s.metrics != nil {
		s.metrics.CreditTransfers.WithLabelValues(status).Inc()
	}
}
