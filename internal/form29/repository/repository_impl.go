package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) form29domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTrx(tx *gorm.DB) form29domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, draft *form29domain.Draft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*form29domain.Draft, error) {
	var draft form29domain.Draft
	err := r.db.WithContext(ctx).First(&draft, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *repository) FindLive(ctx context.Context, companyID snowflake.ID, year, month int) (*form29domain.Draft, error) {
	var draft form29domain.Draft
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND period_year = ? AND period_month = ? AND status <> ?",
			companyID, year, month, form29domain.DraftStatusCancelled).
		Order("created_at DESC").
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *repository) MaxRevision(ctx context.Context, companyID snowflake.ID, year, month int) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&form29domain.Draft{}).
		Where("company_id = ? AND period_year = ? AND period_month = ?", companyID, year, month).
		Select("MAX(revision)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) LatestSettled(ctx context.Context, companyID snowflake.ID, year, month int) (*form29domain.Draft, error) {
	var draft form29domain.Draft
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND period_year = ? AND period_month = ? AND status IN ?",
			companyID, year, month,
			[]form29domain.DraftStatus{form29domain.DraftStatusSaved, form29domain.DraftStatusPaid}).
		Order("created_at DESC").
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *repository) UpdateValidation(ctx context.Context, id snowflake.ID, status form29domain.ValidationStatus, errs datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&form29domain.Draft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"validation_status": status,
			"validation_errors": errs,
			"updated_at":        time.Now().UTC(),
		}).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id snowflake.ID, from, to form29domain.DraftStatus) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	// Cancellation releases the period: a NULL marker drops the row out
	// of the live uniqueness index.
	if to == form29domain.DraftStatusCancelled {
		updates["live"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&form29domain.Draft{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) AttachProposal(ctx context.Context, id snowflake.ID, proposal datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&form29domain.Draft{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sii_proposal": proposal,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *repository) LatestVigenteFiling(ctx context.Context, companyID snowflake.ID, year, month int) (*form29domain.AuthorityFiling, error) {
	var filing form29domain.AuthorityFiling
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND period_year = ? AND period_month = ? AND status = ?",
			companyID, year, month, form29domain.AuthorityFilingVigente).
		Order("downloaded_at DESC").
		First(&filing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &filing, nil
}
