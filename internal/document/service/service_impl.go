package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/contaflow/tributo/internal/document/domain"
	"github.com/contaflow/tributo/internal/period"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type AggregatorParam struct {
	fx.In

	Log  *zap.Logger
	Repo documentdomain.Repository
}

type aggregator struct {
	log  *zap.Logger
	repo documentdomain.Repository
}

func NewAggregator(p AggregatorParam) documentdomain.Aggregator {
	return &aggregator{
		log:  p.Log.Named("document.aggregator"),
		repo: p.Repo,
	}
}

// Aggregate buckets the company's documents for the period. Query failures
// degrade to empty buckets so a single broken company cannot abort a batch
// declaration run; the summary then computes to zero.
func (a *aggregator) Aggregate(ctx context.Context, companyID snowflake.ID, p period.Period) documentdomain.DocumentSet {
	from, to := p.Start(), p.End()
	var set documentdomain.DocumentSet

	sales, err := a.repo.SalesInRange(ctx, companyID, from, to)
	if err != nil {
		a.warn("sales query failed", companyID, p, err)
		sales = nil
	}
	for _, doc := range sales {
		if documentdomain.IsCreditNote(doc.TypeCode) {
			set.SalesCredit = append(set.SalesCredit, doc)
		} else {
			set.SalesPositive = append(set.SalesPositive, doc)
		}
	}

	purchases, err := a.repo.PurchasesInRange(ctx, companyID, from, to)
	if err != nil {
		a.warn("purchases query failed", companyID, p, err)
		purchases = nil
	}
	for _, doc := range purchases {
		if documentdomain.IsCreditNote(doc.TypeCode) {
			set.PurchasesCredit = append(set.PurchasesCredit, doc)
		} else {
			set.PurchasesPositive = append(set.PurchasesPositive, doc)
		}
	}

	received, err := a.repo.HonorariosInRange(ctx, companyID, documentdomain.HonorariosReceived, from, to)
	if err != nil {
		a.warn("honorarios received query failed", companyID, p, err)
		received = nil
	}
	set.HonorariosReceived = received

	issued, err := a.repo.HonorariosInRange(ctx, companyID, documentdomain.HonorariosIssued, from, to)
	if err != nil {
		a.warn("honorarios issued query failed", companyID, p, err)
		issued = nil
	}
	set.HonorariosIssued = issued

	return set
}

func (a *aggregator) warn(msg string, companyID snowflake.ID, p period.Period, err error) {
	a.log.Warn(msg,
		zap.String("company_id", companyID.String()),
		zap.String("period", p.String()),
		zap.Error(err),
	)
}
