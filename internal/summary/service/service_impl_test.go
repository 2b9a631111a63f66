package service

import (
	"testing"

	documentdomain "github.com/contaflow/tributo/internal/document/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestCalculator() *calculator {
	return &calculator{log: zap.NewNop()}
}

func TestCompute_CreditNotesSubtract(t *testing.T) {
	calc := newTestCalculator()

	set := documentdomain.DocumentSet{
		SalesPositive: []documentdomain.SalesDocument{
			{TypeCode: documentdomain.TypeCodeInvoiceElectronic, NetAmount: 526316, TaxAmount: 100},
			{TypeCode: documentdomain.TypeCodeInvoiceElectronic, NetAmount: 1052632, TaxAmount: 200},
		},
		SalesCredit: []documentdomain.SalesDocument{
			{TypeCode: documentdomain.TypeCodeCreditNoteElec, NetAmount: 263158, TaxAmount: 50},
		},
		PurchasesPositive: []documentdomain.PurchaseDocument{
			{TypeCode: documentdomain.TypeCodeInvoiceElectronic, NetAmount: 400000, TaxAmount: 76000},
		},
		PurchasesCredit: []documentdomain.PurchaseDocument{
			{TypeCode: documentdomain.TypeCodeCreditNote, NetAmount: 100000, TaxAmount: 19000},
		},
	}

	sum := calc.Compute(set)

	assert.Equal(t, int64(250), sum.DebitoFiscal)
	assert.Equal(t, int64(57000), sum.CreditoFiscal)
	assert.Equal(t, int64(250-57000), sum.Balance)
	assert.Equal(t, int64(1315790), sum.NetRevenue)
	assert.Equal(t, int64(300000), sum.NetExpense)
	assert.Equal(t, 3, sum.SalesCount)
	assert.Equal(t, 2, sum.PurchasesCount)
}

func TestCompute_OverdueIVACreditSumsAllBuckets(t *testing.T) {
	calc := newTestCalculator()

	base := documentdomain.DocumentSet{
		SalesPositive: []documentdomain.SalesDocument{
			{TypeCode: documentdomain.TypeCodeInvoiceElectronic, NetAmount: 100000, TaxAmount: 19000},
		},
	}
	baseline := calc.Compute(base)

	withOverdue := base
	withOverdue.SalesPositive = append([]documentdomain.SalesDocument{}, base.SalesPositive...)
	withOverdue.SalesCredit = []documentdomain.SalesDocument{
		{TypeCode: documentdomain.TypeCodeCreditNoteElec, TaxAmount: 1000, OverdueIVACredit: 500},
	}
	withOverdue.PurchasesPositive = []documentdomain.PurchaseDocument{
		{TypeCode: documentdomain.TypeCodeInvoiceElectronic, TaxAmount: 2000, OverdueIVACredit: 300},
	}
	withOverdue.PurchasesCredit = []documentdomain.PurchaseDocument{
		{TypeCode: documentdomain.TypeCodeCreditNote, TaxAmount: 100, OverdueIVACredit: 200},
	}

	sum := calc.Compute(withOverdue)

	// Overdue amounts never decrease the burden regardless of bucket sign.
	assert.Equal(t, int64(1000), sum.OverdueIVACredit)
	assert.GreaterOrEqual(t, sum.OverdueIVACredit, baseline.OverdueIVACredit)
}

func TestCompute_OverdueDocumentsExcludedFromPPMBase(t *testing.T) {
	calc := newTestCalculator()

	set := documentdomain.DocumentSet{
		SalesPositive: []documentdomain.SalesDocument{
			{TypeCode: documentdomain.TypeCodeInvoiceElectronic, NetAmount: 1000000, TaxAmount: 190000},
			{TypeCode: documentdomain.TypeCodeInvoiceElectronic, NetAmount: 500000, TaxAmount: 95000, OverdueIVACredit: 95000},
		},
	}

	sum := calc.Compute(set)

	assert.Equal(t, int64(1000000), sum.NetRevenue)
	assert.Equal(t, int64(1250), sum.PPM)
}

func TestComputePPM(t *testing.T) {
	assert.Equal(t, int64(1250), computePPM(1000000))
	assert.Equal(t, int64(1), computePPM(400)) // 0.5 rounds half away from zero
	assert.Equal(t, int64(0), computePPM(0))
	assert.Equal(t, int64(0), computePPM(-500000))
}

func TestCompute_ReverseChargeWithholding(t *testing.T) {
	calc := newTestCalculator()

	set := documentdomain.DocumentSet{
		PurchasesPositive: []documentdomain.PurchaseDocument{
			{TypeCode: documentdomain.TypeCodeReverseCharge, NetAmount: 200000, TaxAmount: 38000},
			{TypeCode: documentdomain.TypeCodeInvoiceElectronic, NetAmount: 100000, TaxAmount: 19000},
		},
	}

	sum := calc.Compute(set)

	assert.Equal(t, int64(38000), sum.ReverseChargeWithholding)
	assert.Equal(t, int64(57000), sum.CreditoFiscal)
}

func TestCompute_RetencionFromReceivedHonorarios(t *testing.T) {
	calc := newTestCalculator()

	set := documentdomain.DocumentSet{
		HonorariosReceived: []documentdomain.HonorariosReceipt{
			{ReceiptType: documentdomain.HonorariosReceived, GrossAmount: 500000, RecipientRetention: 72500},
			{ReceiptType: documentdomain.HonorariosReceived, GrossAmount: 200000, RecipientRetention: 29000},
		},
		HonorariosIssued: []documentdomain.HonorariosReceipt{
			{ReceiptType: documentdomain.HonorariosIssued, GrossAmount: 300000, RecipientRetention: 43500},
		},
	}

	sum := calc.Compute(set)

	// Issued receipts are income; only received ones accrue retención.
	assert.Equal(t, int64(101500), sum.Retencion)
}

func TestCompute_EmptySetIsZero(t *testing.T) {
	calc := newTestCalculator()

	sum := calc.Compute(documentdomain.DocumentSet{})

	assert.Zero(t, sum.DebitoFiscal)
	assert.Zero(t, sum.CreditoFiscal)
	assert.Zero(t, sum.PPM)
	assert.Zero(t, sum.SalesCount)
	assert.Zero(t, sum.PurchasesCount)
}
