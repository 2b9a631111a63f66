// Package domain contains persistence models for tax documents.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SII DTE type codes (official document-type numbers).
// These codes are ENGINE-CONSTANTS. Do NOT rename or repurpose once stored.
const (
	// Sales / purchases
	TypeCodeInvoice           = 30  // factura
	TypeCodeInvoiceElectronic = 33  // factura electrónica
	TypeCodeExemptInvoice     = 32  // factura exenta
	TypeCodeExemptElectronic  = 34  // factura exenta electrónica
	TypeCodeBoleta            = 35  // boleta
	TypeCodeBoletaExempt      = 38  // boleta exenta
	TypeCodeBoletaElectronic  = 39  // boleta electrónica
	TypeCodeBoletaExemptElec  = 41  // boleta exenta electrónica
	TypeCodeSettlement        = 43  // liquidación factura
	TypeCodeReverseCharge     = 46  // factura de compra (retención cambio de sujeto)
	TypeCodeDebitNote         = 55  // nota de débito
	TypeCodeDebitNoteElec     = 56  // nota de débito electrónica
	TypeCodeCreditNote        = 60  // nota de crédito
	TypeCodeCreditNoteElec    = 61  // nota de crédito electrónica
	TypeCodeCustoms           = 914 // declaración de ingreso (DIN)
)

// DocumentStatus represents document registry states.
type DocumentStatus string

const (
	DocumentStatusRegistered DocumentStatus = "REGISTERED"
	DocumentStatusPending    DocumentStatus = "PENDING"
	DocumentStatusRejected   DocumentStatus = "REJECTED"
)

// IsCreditNote reports whether a type code subtracts from the ledger.
// Credit-note amounts are stored as positive magnitudes and subtracted
// during aggregation, never added.
func IsCreditNote(typeCode int) bool {
	return typeCode == TypeCodeCreditNote || typeCode == TypeCodeCreditNoteElec
}

// SalesDocument is a document issued by the company. Its accounting date
// is always the issue date.
type SalesDocument struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	CompanyID    snowflake.ID `gorm:"not null;index:idx_sales_company_issue"`
	DocumentType string       `gorm:"type:text;not null"`
	TypeCode     int          `gorm:"not null"`
	Folio        *int64       `gorm:""`
	IssueDate    time.Time    `gorm:"not null;index:idx_sales_company_issue"`

	NetAmount    int64 `gorm:"not null;default:0"`
	TaxAmount    int64 `gorm:"not null;default:0"`
	ExemptAmount int64 `gorm:"not null;default:0"`
	TotalAmount  int64 `gorm:"not null;default:0"`

	// Portion of TaxAmount declared outside the legal window. It cannot be
	// recovered and always increases the taxpayer's burden.
	OverdueIVACredit int64 `gorm:"column:overdue_iva_credit;not null;default:0"`

	CounterpartyRUT  string         `gorm:"column:counterparty_rut;type:text"`
	CounterpartyName string         `gorm:"type:text"`
	Status           DocumentStatus `gorm:"type:text;not null;default:'REGISTERED'"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SalesDocument) TableName() string { return "sales_documents" }

// PurchaseDocument is a document received by the company. Its accounting
// date is the reception date, except customs declarations which use the
// issue date.
type PurchaseDocument struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	CompanyID    snowflake.ID `gorm:"not null;index:idx_purchases_company"`
	DocumentType string       `gorm:"type:text;not null"`
	TypeCode     int          `gorm:"not null"`
	Folio        *int64       `gorm:""`
	IssueDate    time.Time    `gorm:"not null"`

	// Date the document appeared in the SII registry. Can lag IssueDate.
	ReceptionDate *time.Time `gorm:"index"`

	NetAmount    int64 `gorm:"not null;default:0"`
	TaxAmount    int64 `gorm:"not null;default:0"`
	ExemptAmount int64 `gorm:"not null;default:0"`
	TotalAmount  int64 `gorm:"not null;default:0"`

	OverdueIVACredit int64 `gorm:"column:overdue_iva_credit;not null;default:0"`

	CounterpartyRUT  string         `gorm:"column:counterparty_rut;type:text"`
	CounterpartyName string         `gorm:"type:text"`
	Status           DocumentStatus `gorm:"type:text;not null;default:'REGISTERED'"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PurchaseDocument) TableName() string { return "purchase_documents" }

// AccountingDate returns the date used for period bucketing.
func (d PurchaseDocument) AccountingDate() time.Time {
	if d.TypeCode == TypeCodeCustoms || d.ReceptionDate == nil {
		return d.IssueDate
	}
	return *d.ReceptionDate
}

// HonorariosReceiptType discriminates professional-fee receipt direction.
type HonorariosReceiptType string

const (
	// Company paid a provider; amounts act as expenses.
	HonorariosReceived HonorariosReceiptType = "received"
	// Company was paid for services rendered; amounts act as income.
	HonorariosIssued HonorariosReceiptType = "issued"
)

// HonorariosReceipt is a professional-fee receipt (boleta de honorarios).
type HonorariosReceipt struct {
	ID          snowflake.ID          `gorm:"primaryKey"`
	CompanyID   snowflake.ID          `gorm:"not null;index:idx_honorarios_company_issue"`
	ReceiptType HonorariosReceiptType `gorm:"type:text;not null"`
	Folio       *int64                `gorm:""`
	IssueDate   time.Time             `gorm:"not null;index:idx_honorarios_company_issue"`

	GrossAmount        int64 `gorm:"not null;default:0"`
	IssuerRetention    int64 `gorm:"not null;default:0"`
	RecipientRetention int64 `gorm:"not null;default:0"`
	NetAmount          int64 `gorm:"not null;default:0"`

	CounterpartyRUT  string         `gorm:"column:counterparty_rut;type:text"`
	CounterpartyName string         `gorm:"type:text"`
	Status           DocumentStatus `gorm:"type:text;not null;default:'REGISTERED'"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (HonorariosReceipt) TableName() string { return "honorarios_receipts" }
