package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wgesler/rentall-billing/internal/clock"
	costcodedomain "github.com/wgesler/rentall-billing/internal/costcode/domain"
	creditdomain "github.com/wgesler/rentall-billing/internal/credit/domain"
	invoicedomain "github.com/wgesler/rentall-billing/internal/invoice/domain"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Table    *ledgerdomain.CategoryTable
	Repo     invoicedomain.Repository
	CostCode costcodedomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	table    *ledgerdomain.CategoryTable
	repo     invoicedomain.Repository
	costcode costcodedomain.Service
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		table:    p.Table,
		repo:     p.Repo,
		costcode: p.CostCode,
	}
}

// Load maps a stored invoice into the editing session's working form. Cost
// codes are resolved through the office catalog so each line carries its
// display code and transaction label.
func (s *Service) Load(ctx context.Context, id snowflake.ID) (invoicedomain.LoadedInvoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return invoicedomain.LoadedInvoice{}, fmt.Errorf("load invoice %s: %w", id, err)
	}
	if invoice == nil {
		return invoicedomain.LoadedInvoice{}, invoicedomain.ErrInvoiceNotFound
	}

	stored, err := s.repo.LinesByInvoice(ctx, id)
	if err != nil {
		return invoicedomain.LoadedInvoice{}, fmt.Errorf("load ledger lines for invoice %s: %w", id, err)
	}

	catalog, err := s.costcode.CatalogForOffice(ctx, invoice.OfficeID)
	if err != nil {
		return invoicedomain.LoadedInvoice{}, err
	}

	invoiceID := invoice.ID
	loaded := invoicedomain.LoadedInvoice{
		Header: ledgerdomain.InvoiceHeader{
			InvoiceID:      &invoiceID,
			OrganizationID: invoice.OrganizationID,
			OfficeID:       invoice.OfficeID,
			ReservationID:  invoice.ReservationID,
			InvoiceCode:    invoice.InvoiceCode,
			StartDate:      invoice.StartDate,
			EndDate:        invoice.EndDate,
			InvoiceDate:    invoice.InvoiceDate,
			DueDate:        invoice.DueDate,
			IsActive:       invoice.IsActive,
		},
		Notes: invoice.Notes,
		Lines: make([]ledgerdomain.LedgerLine, 0, len(stored)),
	}
	for _, line := range stored {
		loaded.Lines = append(loaded.Lines, s.toDisplay(line, catalog))
	}
	return loaded, nil
}

// Save persists a submission payload: it creates the invoice on first save,
// replaces the line collection wholesale, and returns the persisted lines
// mapped back to display form so the caller can re-baseline. Existing line
// ids are kept; lines without one get a fresh id.
func (s *Service) Save(ctx context.Context, req ledgerdomain.InvoiceRequest) (ledgerdomain.SaveResult, error) {
	catalog, err := s.costcode.CatalogForOffice(ctx, req.OfficeID)
	if err != nil {
		return ledgerdomain.SaveResult{}, err
	}

	var invoiceID snowflake.ID
	persisted := make([]invoicedomain.LedgerLine, 0, len(req.LedgerLines))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now()

		if req.InvoiceID == nil {
			invoiceID = s.genID.Generate()
			invoice := invoicedomain.Invoice{
				ID:             invoiceID,
				OrganizationID: req.OrganizationID,
				OfficeID:       req.OfficeID,
				ReservationID:  req.ReservationID,
				InvoiceCode:    req.InvoiceCode,
				StartDate:      req.StartDate,
				EndDate:        req.EndDate,
				InvoiceDate:    req.InvoiceDate,
				DueDate:        req.DueDate,
				TotalAmount:    req.TotalAmount,
				PaidAmount:     req.PaidAmount,
				Notes:          req.Notes,
				IsActive:       req.IsActive,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.Create(&invoice).Error; err != nil {
				return fmt.Errorf("create invoice: %w", err)
			}
		} else {
			invoiceID = *req.InvoiceID
			updates := map[string]any{
				"invoice_code": req.InvoiceCode,
				"start_date":   req.StartDate,
				"end_date":     req.EndDate,
				"invoice_date": req.InvoiceDate,
				"due_date":     req.DueDate,
				"total_amount": req.TotalAmount,
				"paid_amount":  req.PaidAmount,
				"notes":        req.Notes,
				"is_active":    req.IsActive,
				"updated_at":   now,
			}
			result := tx.Model(&invoicedomain.Invoice{}).Where("id = ?", invoiceID).Updates(updates)
			if result.Error != nil {
				return fmt.Errorf("update invoice: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return invoicedomain.ErrInvoiceNotFound
			}
		}

		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&invoicedomain.LedgerLine{}).Error; err != nil {
			return fmt.Errorf("clear ledger lines: %w", err)
		}

		for i, line := range req.LedgerLines {
			id := s.genID.Generate()
			if line.LedgerLineID != nil {
				id = *line.LedgerLineID
			}
			row := invoicedomain.LedgerLine{
				ID:                id,
				InvoiceID:         invoiceID,
				LineNumber:        i + 1,
				CostCodeID:        line.CostCodeID,
				TransactionTypeID: int(line.TransactionTypeID),
				Description:       line.Description,
				Amount:            line.Amount,
				CreatedAt:         now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert ledger line %d: %w", i+1, err)
			}
			persisted = append(persisted, row)
		}
		return nil
	})
	if err != nil {
		return ledgerdomain.SaveResult{}, err
	}

	result := ledgerdomain.SaveResult{InvoiceID: invoiceID}
	for _, row := range persisted {
		result.Lines = append(result.Lines, s.toDisplay(row, catalog))
	}

	s.log.Info("invoice persisted",
		zap.String("invoice_id", invoiceID.String()),
		zap.Int("lines", len(result.Lines)),
	)
	return result, nil
}

// ApplyPayment posts a credit-transfer excess as a payment line against each
// destination invoice. The request amount arrives positive; the stored line
// follows the Inflow sign convention. The application is recorded in the
// invoice's metadata so back-office screens can trace where a payment line
// came from.
func (s *Service) ApplyPayment(ctx context.Context, req creditdomain.PaymentApplicationRequest) error {
	if len(req.Invoices) == 0 {
		return invoicedomain.ErrInvoiceNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now()
		for _, invoiceID := range req.Invoices {
			var invoice invoicedomain.Invoice
			if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return invoicedomain.ErrInvoiceNotFound
				}
				return fmt.Errorf("load destination invoice %s: %w", invoiceID, err)
			}

			var lineCount int64
			if err := tx.Model(&invoicedomain.LedgerLine{}).
				Where("invoice_id = ?", invoiceID).Count(&lineCount).Error; err != nil {
				return err
			}

			row := invoicedomain.LedgerLine{
				ID:                s.genID.Generate(),
				InvoiceID:         invoiceID,
				LineNumber:        int(lineCount) + 1,
				CostCodeID:        req.CostCodeID,
				TransactionTypeID: int(ledgerdomain.TransactionTypePayment),
				Description:       req.Description,
				Amount:            req.Amount.Abs().Neg(),
				CreatedAt:         now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert payment line: %w", err)
			}

			metadata := invoice.Metadata
			if metadata == nil {
				metadata = datatypes.JSONMap{}
			}
			metadata["lastCreditApplication"] = map[string]any{
				"amount":     req.Amount.Abs().String(),
				"costCodeId": req.CostCodeID,
				"appliedAt":  now.Format(time.RFC3339),
			}

			updates := map[string]any{
				"paid_amount": invoice.PaidAmount.Add(req.Amount.Abs()),
				"metadata":    metadata,
				"updated_at":  now,
			}
			if err := tx.Model(&invoicedomain.Invoice{}).Where("id = ?", invoiceID).Updates(updates).Error; err != nil {
				return fmt.Errorf("update destination invoice: %w", err)
			}
		}
		return nil
	})
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) ([]invoicedomain.Invoice, error) {
	return s.repo.Find(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) toDisplay(row invoicedomain.LedgerLine, catalog *costcodedomain.Catalog) ledgerdomain.LedgerLine {
	id := row.ID
	tt := ledgerdomain.TransactionType(row.TransactionTypeID)
	display := ledgerdomain.LedgerLine{
		LedgerLineID:      &id,
		LineNumber:        row.LineNumber,
		CostCodeID:        row.CostCodeID,
		TransactionTypeID: &tt,
		TransactionType:   s.table.LabelOf(tt),
		Description:       row.Description,
		Amount:            row.Amount,
		IsNew:             false,
	}
	if code, ok := catalog.Resolve(row.CostCodeID); ok {
		display.CostCode = code.Code
	}
	return display
}
