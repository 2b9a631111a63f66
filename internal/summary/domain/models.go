// Package domain contains the monthly IVA summary model.
package domain

// Statutory constants. These match current regulation; a change in law
// requires an effective-date-keyed table instead.
const (
	// PPMRate is the monthly provisional payment rate over net revenue.
	PPMRate = 0.00125

	// RemanenteCode is the F29 code holding the prior-period credit
	// carried forward (Remanente de Crédito Fiscal).
	RemanenteCode = "077"
)

// Summary is the computed IVA position for one company and period.
// It is ephemeral: the draft generator folds it into a Form29 draft.
type Summary struct {
	// Output VAT: tax collected on sales, net of credit notes.
	DebitoFiscal int64 `json:"debito_fiscal"`

	// Input VAT: tax paid on purchases, net of credit notes.
	CreditoFiscal int64 `json:"credito_fiscal"`

	// DebitoFiscal - CreditoFiscal. Carry-forward is applied later by the
	// draft generator, not here.
	Balance int64 `json:"balance"`

	PreviousMonthCredit int64 `json:"previous_month_credit"`

	// Tax declared outside the legal window, summed over every bucket.
	// Always adds to the taxpayer's burden.
	OverdueIVACredit int64 `json:"overdue_iva_credit"`

	// Net revenue used as the PPM base, excluding overdue-flagged documents.
	NetRevenue int64 `json:"net_revenue"`

	// Net expense over purchase documents.
	NetExpense int64 `json:"net_expense"`

	PPM                      int64 `json:"ppm"`
	Retencion                int64 `json:"retencion"`
	ReverseChargeWithholding int64 `json:"reverse_charge_withholding"`

	SalesCount     int `json:"sales_count"`
	PurchasesCount int `json:"purchases_count"`
}
