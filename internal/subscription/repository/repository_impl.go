package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/contaflow/tributo/internal/subscription/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) subscriptiondomain.Repository {
	return &repository{db: db}
}

func (r *repository) ActiveCompanyIDs(ctx context.Context) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("status = ?", subscriptiondomain.SubscriptionStatusActive).
		Distinct().
		Order("company_id ASC").
		Pluck("company_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
