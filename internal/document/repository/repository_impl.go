package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/contaflow/tributo/internal/document/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) documentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) SalesInRange(ctx context.Context, companyID snowflake.ID, from, to time.Time) ([]documentdomain.SalesDocument, error) {
	var docs []documentdomain.SalesDocument
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND issue_date >= ? AND issue_date < ?", companyID, from, to).
		Order("issue_date ASC, id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *repository) PurchasesInRange(ctx context.Context, companyID snowflake.ID, from, to time.Time) ([]documentdomain.PurchaseDocument, error) {
	var docs []documentdomain.PurchaseDocument
	// Customs declarations book on issue date; everything else books on the
	// SII reception date, which can lag the issue date by a month or more.
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where(
			r.db.Where("type_code = ? AND issue_date >= ? AND issue_date < ?", documentdomain.TypeCodeCustoms, from, to).
				Or("type_code <> ? AND reception_date >= ? AND reception_date < ?", documentdomain.TypeCodeCustoms, from, to),
		).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *repository) HonorariosInRange(ctx context.Context, companyID snowflake.ID, receiptType documentdomain.HonorariosReceiptType, from, to time.Time) ([]documentdomain.HonorariosReceipt, error) {
	var receipts []documentdomain.HonorariosReceipt
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND receipt_type = ? AND issue_date >= ? AND issue_date < ?", companyID, receiptType, from, to).
		Order("issue_date ASC, id ASC").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}
