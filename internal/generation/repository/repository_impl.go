package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/wgesler/rentall-billing/internal/generation/domain"
	"gorm.io/gorm"
)

// RecurringCharge is a billing template: a charge raised for each period an
// invoice is generated for.
type RecurringCharge struct {
	ID             snowflake.ID    `gorm:"primaryKey"`
	OrganizationID snowflake.ID    `gorm:"not null;index"`
	ReservationID  *snowflake.ID   `gorm:"index"`
	CostCodeID     string          `gorm:"type:text;not null"`
	Description    string          `gorm:"type:text;not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	StartsOn       time.Time       `gorm:"not null"`
	EndsOn         *time.Time      `gorm:""`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RecurringCharge) TableName() string { return "recurring_charges" }

type capability struct {
	db *gorm.DB
}

// NewCapability returns the storage-backed period-generation capability: it
// raises one raw line per recurring charge active inside the period.
func NewCapability(db *gorm.DB) domain.Capability {
	return &capability{db: db}
}

func (c *capability) GenerateLines(ctx context.Context, req domain.Request) ([]domain.RawLine, error) {
	stmt := c.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("starts_on <= ?", req.EndDate).
		Where("ends_on IS NULL OR ends_on >= ?", req.StartDate)

	switch {
	case req.ReservationID != nil:
		stmt = stmt.Where("reservation_id = ?", *req.ReservationID)
	case req.OrganizationID != nil:
		stmt = stmt.Where("organization_id = ?", *req.OrganizationID)
	}

	var charges []RecurringCharge
	if err := stmt.Order("cost_code_id").Find(&charges).Error; err != nil {
		return nil, err
	}

	lines := make([]domain.RawLine, 0, len(charges))
	for _, charge := range charges {
		lines = append(lines, domain.RawLine{
			CostCodeID:  charge.CostCodeID,
			Description: charge.Description,
			Amount:      charge.Amount,
		})
	}
	return lines, nil
}
