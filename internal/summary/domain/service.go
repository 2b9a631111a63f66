package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/contaflow/tributo/internal/document/domain"
	"github.com/contaflow/tributo/internal/period"
)

// Calculator derives the monthly IVA position from bucketed documents.
type Calculator interface {
	// Compute is pure over the given set. It never fails: any internal
	// error resolves to an all-zero Summary.
	Compute(set documentdomain.DocumentSet) Summary

	// ComputeForPeriod aggregates and computes in one call.
	ComputeForPeriod(ctx context.Context, companyID snowflake.ID, p period.Period) Summary
}
