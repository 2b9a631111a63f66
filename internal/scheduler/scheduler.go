// Package scheduler fans the draft generator out across every company
// with an active subscription. Per-company failures are recorded, never
// propagated: one company's exception must not abort the batch.
package scheduler

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/contaflow/tributo/internal/clock"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	obsmetrics "github.com/contaflow/tributo/internal/observability/metrics"
	"github.com/contaflow/tributo/internal/period"
	subscriptiondomain "github.com/contaflow/tributo/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log              *zap.Logger
	Clock            clock.Clock
	Form29Svc        form29domain.Service
	SubscriptionRepo subscriptiondomain.Repository
	Config           Config `optional:"true"`
}

type Scheduler struct {
	log              *zap.Logger
	cfg              Config
	clock            clock.Clock
	form29Svc        form29domain.Service
	subscriptionRepo subscriptiondomain.Repository
}

// CompanyError identifies one company's failure inside a batch result.
type CompanyError struct {
	CompanyID snowflake.ID `json:"company_id"`
	Error     string       `json:"error"`
}

// BatchResult aggregates per-company outcomes of one sweep.
type BatchResult struct {
	Period         period.Period  `json:"period"`
	TotalCompanies int            `json:"total_companies"`
	Created        int            `json:"created"`
	Skipped        int            `json:"skipped"`
	Errors         int            `json:"errors"`
	ErrorDetails   []CompanyError `json:"error_details"`
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Form29Svc == nil || p.SubscriptionRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:              p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:              p.Config.withDefaults(),
		clock:            p.Clock,
		form29Svc:        p.Form29Svc,
		subscriptionRepo: p.SubscriptionRepo,
	}, nil
}

// DeclareDraftsJob generates a draft for every eligible company for the
// given period. The sweep itself is sequential per company; concurrency
// across companies is the caller's choice and is safe because each call
// touches only its own company-scoped rows.
func (s *Scheduler) DeclareDraftsJob(ctx context.Context, p period.Period) (BatchResult, error) {
	start := s.clock.Now()
	batchMetrics := obsmetrics.Batch()
	batchMetrics.IncRun()

	result := BatchResult{Period: p, ErrorDetails: make([]CompanyError, 0)}

	companyIDs, err := s.subscriptionRepo.ActiveCompanyIDs(ctx)
	if err != nil {
		s.log.Error("eligible company lookup failed", zap.Error(err))
		return result, err
	}
	result.TotalCompanies = len(companyIDs)

	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		_, isNew, err := s.form29Svc.GenerateDraft(ctx, form29domain.GenerateRequest{
			CompanyID:     companyID,
			Period:        p,
			AutoCalculate: true,
			FetchProposal: s.cfg.FetchProposals,
		})
		if err != nil {
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, CompanyError{
				CompanyID: companyID,
				Error:     err.Error(),
			})
			batchMetrics.IncCompany(obsmetrics.OutcomeError)
			batchMetrics.IncError("generate_draft")
			s.log.Warn("draft generation failed",
				zap.String("company_id", companyID.String()),
				zap.String("period", p.String()),
				zap.Error(err),
			)
			continue
		}

		if isNew {
			result.Created++
			batchMetrics.IncCompany(obsmetrics.OutcomeCreated)
		} else {
			result.Skipped++
			batchMetrics.IncCompany(obsmetrics.OutcomeSkipped)
		}
	}

	batchMetrics.ObserveRunDuration(s.clock.Now().Sub(start))
	s.log.Info("declaration sweep finished",
		zap.String("period", p.String()),
		zap.Int("total_companies", result.TotalCompanies),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors),
	)

	return result, nil
}

// RunOnce declares drafts for the month preceding the clock's current one:
// an F29 covers a closed month.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	p := period.FromTime(s.clock.Now()).Prev()
	_, err := s.DeclareDraftsJob(ctx, p)
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
