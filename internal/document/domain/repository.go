package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository is the read-only document source for a company. All range
// arguments are half-open [from, to) on the accounting date of each
// document family.
type Repository interface {
	// SalesInRange filters by issue date, for every sales type.
	SalesInRange(ctx context.Context, companyID snowflake.ID, from, to time.Time) ([]SalesDocument, error)

	// PurchasesInRange filters by reception date, except customs
	// declarations which filter by issue date.
	PurchasesInRange(ctx context.Context, companyID snowflake.ID, from, to time.Time) ([]PurchaseDocument, error)

	// HonorariosInRange filters by issue date and receipt direction.
	HonorariosInRange(ctx context.Context, companyID snowflake.ID, receiptType HonorariosReceiptType, from, to time.Time) ([]HonorariosReceipt, error)
}
