// Package domain contains the F29 draft model and collaborator contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DraftStatus represents F29 draft lifecycle states.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "DRAFT"
	DraftStatusSaved     DraftStatus = "SAVED"
	DraftStatusConfirmed DraftStatus = "CONFIRMED"
	DraftStatusPaid      DraftStatus = "PAID"
	DraftStatusCancelled DraftStatus = "CANCELLED"
)

// ValidationStatus marks the outcome of the pre-confirmation checks.
type ValidationStatus string

const (
	ValidationStatusUnvalidated ValidationStatus = "UNVALIDATED"
	ValidationStatusValid       ValidationStatus = "VALID"
	ValidationStatusInvalid     ValidationStatus = "INVALID"
)

// AuthorityFilingVigente is the status of the authority's current filing.
const AuthorityFilingVigente = "Vigente"

// Draft is a monthly F29 declaration draft. At most one non-cancelled
// draft exists per (company, year, month); the unique index over the
// live marker is the actual concurrency guard, the service's lookup is
// a fast path only.
type Draft struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	CompanyID   snowflake.ID `gorm:"not null;index:idx_form29_company_period;uniqueIndex:ux_form29_live_period"`
	PeriodYear  int          `gorm:"not null;index:idx_form29_company_period;uniqueIndex:ux_form29_live_period"`
	PeriodMonth int          `gorm:"not null;index:idx_form29_company_period;uniqueIndex:ux_form29_live_period"`
	Revision    int          `gorm:"not null;default:1"`

	Status           DraftStatus      `gorm:"type:text;not null;default:'DRAFT'"`
	ValidationStatus ValidationStatus `gorm:"type:text;not null;default:'UNVALIDATED'"`
	ValidationErrors datatypes.JSON   `gorm:"type:jsonb"`

	// Live is true while the draft blocks its period and NULL once
	// cancelled. Unique indexes skip NULLs on every supported engine, so
	// ux_form29_live_period admits any number of cancelled rows but only
	// one live draft per company and period, MySQL included.
	Live *bool `gorm:"uniqueIndex:ux_form29_live_period"`

	TotalSales   int64 `gorm:"not null;default:0"`
	TaxableSales int64 `gorm:"not null;default:0"`
	// Always 0 until upstream splits exempt revenue from taxable revenue.
	// Known simplification, kept deliberately.
	ExemptSales int64 `gorm:"not null;default:0"`
	SalesTax    int64 `gorm:"not null;default:0"`

	TotalPurchases   int64 `gorm:"not null;default:0"`
	TaxablePurchases int64 `gorm:"not null;default:0"`
	PurchasesTax     int64 `gorm:"not null;default:0"`

	IVAToPay  int64 `gorm:"column:iva_to_pay;not null;default:0"`
	IVACredit int64 `gorm:"column:iva_credit;not null;default:0"`
	NetIVA    int64 `gorm:"column:net_iva;not null;default:0"`

	PreviousMonthCredit      int64 `gorm:"not null;default:0"`
	OverdueIVACredit         int64 `gorm:"column:overdue_iva_credit;not null;default:0"`
	PPM                      int64 `gorm:"column:ppm;not null;default:0"`
	Retencion                int64 `gorm:"not null;default:0"`
	ReverseChargeWithholding int64 `gorm:"not null;default:0"`

	SalesCount     int `gorm:"not null;default:0"`
	PurchasesCount int `gorm:"not null;default:0"`

	// Opaque pre-filled proposal downloaded from the authority.
	SIIProposal datatypes.JSON `gorm:"column:sii_proposal;type:jsonb"`

	CreatedByUserID *snowflake.ID `gorm:""`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Draft) TableName() string { return "form29_drafts" }

// IsLive reports whether the draft blocks creation of a new one.
func (d Draft) IsLive() bool { return d.Status != DraftStatusCancelled }

// LiveMarker returns the marker value stored on non-cancelled drafts.
func LiveMarker() *bool {
	live := true
	return &live
}

// AuthorityFiling is a form downloaded from the tax authority, used to
// bootstrap carry-forward credit for periods predating the engine.
type AuthorityFiling struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	CompanyID   snowflake.ID `gorm:"not null;index:idx_authority_company_period"`
	PeriodYear  int          `gorm:"not null;index:idx_authority_company_period"`
	PeriodMonth int          `gorm:"not null;index:idx_authority_company_period"`
	FormType    string       `gorm:"type:text;not null;default:'F29'"`
	Status      string       `gorm:"type:text;not null"`
	Folio       *int64       `gorm:""`

	// Structured scrape of the filed form; holds a "codes" table keyed by
	// F29 code ("077" -> remanente).
	Extraction datatypes.JSONMap `gorm:"type:jsonb"`

	DownloadedAt time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AuthorityFiling) TableName() string { return "authority_filings" }

// ValidationError is a structured check failure, never an exception.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
