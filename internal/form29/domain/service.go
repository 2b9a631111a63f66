package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/contaflow/tributo/internal/company/domain"
	"github.com/contaflow/tributo/internal/period"
	"gorm.io/datatypes"
)

// GenerateRequest asks for a draft for one company and period.
type GenerateRequest struct {
	CompanyID snowflake.ID
	Period    period.Period
	CreatedBy *snowflake.ID

	// AutoCalculate runs aggregation, summary computation and carry-forward
	// resolution before persisting.
	AutoCalculate bool

	// FetchProposal attaches the authority's pre-filled proposal after
	// creation, best effort, when the company has credentials.
	FetchProposal bool
}

// Service is the draft generator, validator and lifecycle manager.
type Service interface {
	// GenerateDraft is idempotent: re-requesting an already-drafted period
	// returns the existing live draft with isNew=false.
	GenerateDraft(ctx context.Context, req GenerateRequest) (*Draft, bool, error)

	GetDraft(ctx context.Context, companyID snowflake.ID, p period.Period) (*Draft, error)

	// PreviousPeriodCredit resolves the carry-forward credit for the month
	// preceding p. Lookup failures degrade to 0.
	PreviousPeriodCredit(ctx context.Context, companyID snowflake.ID, p period.Period) int64

	// Validate re-derives expected values from the draft's stored totals,
	// persists the outcome and returns the structured failures.
	Validate(ctx context.Context, draftID snowflake.ID) (bool, []ValidationError, error)

	// Confirm transitions draft -> confirmed; requires a valid validation.
	Confirm(ctx context.Context, draftID snowflake.ID) (*Draft, error)

	// Cancel transitions any non-confirmed draft to cancelled, unblocking a
	// fresh revision for the period.
	Cancel(ctx context.Context, draftID snowflake.ID) (*Draft, error)
}

// ProposalFetcher downloads the authority's pre-filled F29 proposal.
// Failures are swallowed by callers; enrichment is best effort.
type ProposalFetcher interface {
	FetchProposal(ctx context.Context, company companydomain.Company, p period.Period) (datatypes.JSON, error)
}
