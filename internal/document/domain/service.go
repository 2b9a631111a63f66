package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/contaflow/tributo/internal/period"
)

// DocumentSet holds the period's documents bucketed by family and sign,
// ready for summary computation.
type DocumentSet struct {
	SalesPositive      []SalesDocument
	SalesCredit        []SalesDocument
	PurchasesPositive  []PurchaseDocument
	PurchasesCredit    []PurchaseDocument
	HonorariosReceived []HonorariosReceipt
	HonorariosIssued   []HonorariosReceipt
}

// SalesCount returns the number of sales documents in the set.
func (s DocumentSet) SalesCount() int {
	return len(s.SalesPositive) + len(s.SalesCredit)
}

// PurchasesCount returns the number of purchase documents in the set.
func (s DocumentSet) PurchasesCount() int {
	return len(s.PurchasesPositive) + len(s.PurchasesCredit)
}

// Aggregator retrieves and buckets a company's documents for a period.
type Aggregator interface {
	Aggregate(ctx context.Context, companyID snowflake.ID, p period.Period) DocumentSet
}
