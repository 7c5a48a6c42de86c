package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/wgesler/rentall-billing/internal/invoice/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) Find(ctx context.Context, req domain.ListInvoiceRequest) ([]domain.Invoice, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Invoice{})
	if req.OfficeID != nil {
		stmt = stmt.Where("office_id = ?", *req.OfficeID)
	}
	if req.ReservationID != nil {
		stmt = stmt.Where("reservation_id = ?", *req.ReservationID)
	}
	if req.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}

	var invoices []domain.Invoice
	if err := stmt.Order("invoice_date DESC, id DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) LinesByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]domain.LedgerLine, error) {
	var lines []domain.LedgerLine
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("line_number").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&domain.LedgerLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Invoice{}, "id = ?", id).Error
	})
}
