package service

import (
	"context"
	"math"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/contaflow/tributo/internal/document/domain"
	"github.com/contaflow/tributo/internal/period"
	summarydomain "github.com/contaflow/tributo/internal/summary/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type CalculatorParam struct {
	fx.In

	Log        *zap.Logger
	Aggregator documentdomain.Aggregator
}

type calculator struct {
	log        *zap.Logger
	aggregator documentdomain.Aggregator
}

func NewCalculator(p CalculatorParam) summarydomain.Calculator {
	return &calculator{
		log:        p.Log.Named("summary.calculator"),
		aggregator: p.Aggregator,
	}
}

func (c *calculator) ComputeForPeriod(ctx context.Context, companyID snowflake.ID, p period.Period) summarydomain.Summary {
	set := c.aggregator.Aggregate(ctx, companyID, p)
	return c.Compute(set)
}

// Compute resolves any internal failure to an all-zero summary instead of
// propagating, so one bad company cannot abort a batch of a thousand.
func (c *calculator) Compute(set documentdomain.DocumentSet) (s summarydomain.Summary) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("summary computation failed, degrading to zero", zap.Any("panic", r))
			s = summarydomain.Summary{}
		}
	}()
	return compute(set)
}

func compute(set documentdomain.DocumentSet) summarydomain.Summary {
	var s summarydomain.Summary

	for _, doc := range set.SalesPositive {
		s.DebitoFiscal += doc.TaxAmount
		s.OverdueIVACredit += doc.OverdueIVACredit
		// Out-of-time documents must not inflate the PPM base.
		if doc.OverdueIVACredit == 0 {
			s.NetRevenue += doc.NetAmount
		}
	}
	for _, doc := range set.SalesCredit {
		s.DebitoFiscal -= doc.TaxAmount
		s.OverdueIVACredit += doc.OverdueIVACredit
		if doc.OverdueIVACredit == 0 {
			s.NetRevenue -= doc.NetAmount
		}
	}

	for _, doc := range set.PurchasesPositive {
		s.CreditoFiscal += doc.TaxAmount
		s.OverdueIVACredit += doc.OverdueIVACredit
		s.NetExpense += doc.NetAmount
		if doc.TypeCode == documentdomain.TypeCodeReverseCharge {
			s.ReverseChargeWithholding += doc.TaxAmount
		}
	}
	for _, doc := range set.PurchasesCredit {
		s.CreditoFiscal -= doc.TaxAmount
		s.OverdueIVACredit += doc.OverdueIVACredit
		s.NetExpense -= doc.NetAmount
	}

	for _, receipt := range set.HonorariosReceived {
		s.Retencion += receipt.RecipientRetention
	}

	s.Balance = s.DebitoFiscal - s.CreditoFiscal
	s.PPM = computePPM(s.NetRevenue)
	s.SalesCount = set.SalesCount()
	s.PurchasesCount = set.PurchasesCount()

	return s
}

// computePPM applies the statutory provisional-payment rate. Rounding
// happens only here to keep stored values integer-safe.
func computePPM(netRevenue int64) int64 {
	if netRevenue <= 0 {
		return 0
	}
	ppm := float64(netRevenue) * summarydomain.PPMRate
	result := int64(math.Round(ppm))
	if result < 0 {
		return 0
	}
	return result
}
