package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository is the draft store. FindLive and Create together implement
// the one-live-draft-per-period invariant; the backing table carries a
// unique index over non-cancelled rows.
type Repository interface {
	WithTrx(tx *gorm.DB) Repository

	Create(ctx context.Context, draft *Draft) error
	FindByID(ctx context.Context, id snowflake.ID) (*Draft, error)

	// FindLive returns the single non-cancelled draft for the period.
	FindLive(ctx context.Context, companyID snowflake.ID, year, month int) (*Draft, error)

	// MaxRevision returns the highest revision for the period, cancelled
	// drafts included, or 0 when none exist.
	MaxRevision(ctx context.Context, companyID snowflake.ID, year, month int) (int, error)

	// LatestSettled returns the most recent draft in SAVED or PAID status
	// for the period, by creation time.
	LatestSettled(ctx context.Context, companyID snowflake.ID, year, month int) (*Draft, error)

	UpdateValidation(ctx context.Context, id snowflake.ID, status ValidationStatus, errs datatypes.JSON) error
	UpdateStatus(ctx context.Context, id snowflake.ID, from, to DraftStatus) (bool, error)
	AttachProposal(ctx context.Context, id snowflake.ID, proposal datatypes.JSON) error

	// LatestVigenteFiling returns the authority's current filing for the
	// period, if one was downloaded.
	LatestVigenteFiling(ctx context.Context, companyID snowflake.ID, year, month int) (*AuthorityFiling, error)
}
