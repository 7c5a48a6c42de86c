package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/wgesler/rentall-billing/internal/costcode/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListByOffice(ctx context.Context, officeID snowflake.ID) ([]domain.CostCode, error) {
	var codes []domain.CostCode
	err := r.db.WithContext(ctx).
		Where("office_id = ? AND is_active = ?", officeID, true).
		Order("code").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}
