package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/contaflow/tributo/internal/clock"
	companydomain "github.com/contaflow/tributo/internal/company/domain"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"github.com/contaflow/tributo/internal/period"
	summarydomain "github.com/contaflow/tributo/internal/summary/domain"
	"github.com/contaflow/tributo/pkg/db"
	"github.com/contaflow/tributo/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Calculator summarydomain.Calculator
	Repo       form29domain.Repository
	Fetcher    form29domain.ProposalFetcher `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	calculator  summarydomain.Calculator
	repo        form29domain.Repository
	companyRepo repository.Repository[companydomain.Company]
	fetcher     form29domain.ProposalFetcher
}

func NewService(p ServiceParam) form29domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("form29.service"),
		genID: p.GenID,
		clock: p.Clock,

		calculator:  p.Calculator,
		repo:        p.Repo,
		companyRepo: repository.ProvideStore[companydomain.Company](p.DB),
		fetcher:     p.Fetcher,
	}
}

// GenerateDraft creates the period's draft or returns the existing live
// one. The application-level lookup is a fast path; the unique index over
// non-cancelled drafts resolves the concurrent-create race, surfaced here
// as a duplicate-key error that re-reads the winner.
func (s *Service) GenerateDraft(ctx context.Context, req form29domain.GenerateRequest) (*form29domain.Draft, bool, error) {
	if req.CompanyID == 0 {
		return nil, false, form29domain.ErrInvalidCompany
	}
	if _, err := period.New(req.Period.Year, int(req.Period.Month)); err != nil {
		return nil, false, form29domain.ErrInvalidPeriod
	}

	year, month := req.Period.Year, int(req.Period.Month)

	existing, err := s.repo.FindLive(ctx, req.CompanyID, year, month)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := s.clock.Now()
	draft := &form29domain.Draft{
		ID:               s.genID.Generate(),
		CompanyID:        req.CompanyID,
		PeriodYear:       year,
		PeriodMonth:      month,
		Status:           form29domain.DraftStatusDraft,
		ValidationStatus: form29domain.ValidationStatusUnvalidated,
		Live:             form29domain.LiveMarker(),
		CreatedByUserID:  req.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if req.AutoCalculate {
		sum := s.calculator.ComputeForPeriod(ctx, req.CompanyID, req.Period)
		prevCredit := s.PreviousPeriodCredit(ctx, req.CompanyID, req.Period)
		fillDraft(draft, sum, prevCredit)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTrx(tx)
		maxRev, err := txRepo.MaxRevision(ctx, req.CompanyID, year, month)
		if err != nil {
			return err
		}
		draft.Revision = maxRev + 1
		return txRepo.Create(ctx, draft)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			winner, findErr := s.repo.FindLive(ctx, req.CompanyID, year, month)
			if findErr == nil && winner != nil {
				return winner, false, nil
			}
		}
		return nil, false, err
	}

	if req.FetchProposal {
		s.enrichWithProposal(ctx, draft, req.Period)
	}

	return draft, true, nil
}

func (s *Service) GetDraft(ctx context.Context, companyID snowflake.ID, p period.Period) (*form29domain.Draft, error) {
	draft, err := s.repo.FindLive(ctx, companyID, p.Year, int(p.Month))
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, form29domain.ErrDraftNotFound
	}
	return draft, nil
}

// fillDraft folds a computed summary and the resolved carry-forward into
// the draft's field set.
func fillDraft(draft *form29domain.Draft, sum summarydomain.Summary, prevCredit int64) {
	draft.SalesTax = sum.DebitoFiscal
	draft.PurchasesTax = sum.CreditoFiscal
	draft.IVAToPay = sum.DebitoFiscal
	draft.IVACredit = sum.CreditoFiscal

	draft.TaxableSales = sum.NetRevenue
	// ExemptSales stays 0 until upstream splits exempt revenue out.
	draft.TotalSales = sum.NetRevenue + draft.ExemptSales
	draft.TaxablePurchases = sum.NetExpense
	draft.TotalPurchases = sum.NetExpense

	// Overdue credit adds to what is owed; the prior-month credit subtracts.
	draft.NetIVA = sum.DebitoFiscal - sum.CreditoFiscal - prevCredit + sum.OverdueIVACredit

	draft.PreviousMonthCredit = prevCredit
	draft.OverdueIVACredit = sum.OverdueIVACredit
	draft.PPM = sum.PPM
	draft.Retencion = sum.Retencion
	draft.ReverseChargeWithholding = sum.ReverseChargeWithholding
	draft.SalesCount = sum.SalesCount
	draft.PurchasesCount = sum.PurchasesCount
}

// enrichWithProposal attaches the authority's pre-filled proposal. Every
// failure is swallowed: the draft is complete without the enrichment.
func (s *Service) enrichWithProposal(ctx context.Context, draft *form29domain.Draft, p period.Period) {
	if s.fetcher == nil {
		return
	}

	company, err := s.companyRepo.FindOne(ctx, &companydomain.Company{ID: draft.CompanyID})
	if err != nil || company == nil {
		s.log.Warn("proposal fetch skipped, company lookup failed",
			zap.String("company_id", draft.CompanyID.String()),
			zap.Error(err),
		)
		return
	}
	if !company.HasSIICredentials() {
		return
	}

	proposal, err := s.fetcher.FetchProposal(ctx, *company, p)
	if err != nil {
		s.log.Warn("proposal fetch failed, continuing without enrichment",
			zap.String("company_id", draft.CompanyID.String()),
			zap.String("period", p.String()),
			zap.Error(err),
		)
		return
	}

	if err := s.repo.AttachProposal(ctx, draft.ID, proposal); err != nil {
		s.log.Warn("proposal attach failed",
			zap.String("draft_id", draft.ID.String()),
			zap.Error(err),
		)
		return
	}
	draft.SIIProposal = proposal
	draft.UpdatedAt = s.clock.Now()
}
