package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/contaflow/tributo/internal/clock"
	companydomain "github.com/contaflow/tributo/internal/company/domain"
	documentdomain "github.com/contaflow/tributo/internal/document/domain"
	documentrepo "github.com/contaflow/tributo/internal/document/repository"
	documentservice "github.com/contaflow/tributo/internal/document/service"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	form29repo "github.com/contaflow/tributo/internal/form29/repository"
	"github.com/contaflow/tributo/internal/migration"
	"github.com/contaflow/tributo/internal/period"
	summarydomain "github.com/contaflow/tributo/internal/summary/domain"
	summaryservice "github.com/contaflow/tributo/internal/summary/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	calc  summarydomain.Calculator
	svc   form29domain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.RunMigrations(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))

	aggregator := documentservice.NewAggregator(documentservice.AggregatorParam{
		Log:  log,
		Repo: documentrepo.NewRepository(db),
	})
	calculator := summaryservice.NewCalculator(summaryservice.CalculatorParam{
		Log:        log,
		Aggregator: aggregator,
	})

	svc := NewService(ServiceParam{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      fake,
		Calculator: calculator,
		Repo:       form29repo.NewRepository(db),
	})

	return &testEnv{db: db, node: node, clock: fake, calc: calculator, svc: svc}
}

func (e *testEnv) seedSale(t *testing.T, companyID snowflake.ID, typeCode int, issue time.Time, net, tax, overdue int64) {
	t.Helper()
	doc := documentdomain.SalesDocument{
		ID: e.node.Generate(), CompanyID: companyID,
		DocumentType: "factura_electronica", TypeCode: typeCode,
		IssueDate: issue, NetAmount: net, TaxAmount: tax, OverdueIVACredit: overdue,
	}
	require.NoError(t, e.db.Create(&doc).Error)
}

func (e *testEnv) seedPurchase(t *testing.T, companyID snowflake.ID, typeCode int, reception time.Time, net, tax, overdue int64) {
	t.Helper()
	doc := documentdomain.PurchaseDocument{
		ID: e.node.Generate(), CompanyID: companyID,
		DocumentType: "factura_electronica", TypeCode: typeCode,
		IssueDate: reception.AddDate(0, 0, -3), ReceptionDate: &reception,
		NetAmount: net, TaxAmount: tax, OverdueIVACredit: overdue,
	}
	require.NoError(t, e.db.Create(&doc).Error)
}

func TestGenerateDraft_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()
	env.seedSale(t, companyID, documentdomain.TypeCodeInvoiceElectronic, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 1000000, 190000, 0)

	req := form29domain.GenerateRequest{
		CompanyID:     companyID,
		Period:        period.Period{Year: 2025, Month: time.January},
		AutoCalculate: true,
	}

	first, isNew, err := env.svc.GenerateDraft(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, isNew)
	assert.Equal(t, 1, first.Revision)
	assert.Equal(t, form29domain.DraftStatusDraft, first.Status)

	second, isNew, err := env.svc.GenerateDraft(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.False(t, isNew)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.NetIVA, second.NetIVA)
}

func TestGenerateDraft_NetIVAFormula(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	env.seedSale(t, companyID, documentdomain.TypeCodeInvoiceElectronic, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 1000000, 100000, 0)
	env.seedPurchase(t, companyID, documentdomain.TypeCodeInvoiceElectronic, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), 200000, 40000, 5000)

	// Prior December over-credited by 10000, carried forward.
	prior := form29domain.Draft{
		ID: env.node.Generate(), CompanyID: companyID,
		PeriodYear: 2024, PeriodMonth: 12, Revision: 1,
		Status: form29domain.DraftStatusSaved, ValidationStatus: form29domain.ValidationStatusValid,
		Live:   form29domain.LiveMarker(),
		NetIVA: -10000,
		CreatedAt: env.clock.Now().AddDate(0, -3, 0), UpdatedAt: env.clock.Now().AddDate(0, -3, 0),
	}
	require.NoError(t, env.db.Create(&prior).Error)

	draft, isNew, err := env.svc.GenerateDraft(context.Background(), form29domain.GenerateRequest{
		CompanyID:     companyID,
		Period:        period.Period{Year: 2025, Month: time.January},
		AutoCalculate: true,
	})
	require.NoError(t, err)
	require.True(t, isNew)

	assert.Equal(t, int64(100000), draft.SalesTax)
	assert.Equal(t, int64(100000), draft.IVAToPay)
	assert.Equal(t, int64(40000), draft.PurchasesTax)
	assert.Equal(t, int64(40000), draft.IVACredit)
	assert.Equal(t, int64(10000), draft.PreviousMonthCredit)
	assert.Equal(t, int64(5000), draft.OverdueIVACredit)
	assert.Equal(t, int64(100000-40000-10000+5000), draft.NetIVA)
	assert.Equal(t, int64(1250), draft.PPM)
	assert.Equal(t, int64(0), draft.ExemptSales)
	assert.Equal(t, draft.TaxableSales, draft.TotalSales)
	assert.Equal(t, 1, draft.SalesCount)
	assert.Equal(t, 1, draft.PurchasesCount)
}

func TestGenerateDraft_RejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.svc.GenerateDraft(context.Background(), form29domain.GenerateRequest{
		CompanyID: 0,
		Period:    period.Period{Year: 2025, Month: time.January},
	})
	assert.ErrorIs(t, err, form29domain.ErrInvalidCompany)

	_, _, err = env.svc.GenerateDraft(context.Background(), form29domain.GenerateRequest{
		CompanyID: env.node.Generate(),
		Period:    period.Period{Year: 2025, Month: 13},
	})
	assert.ErrorIs(t, err, form29domain.ErrInvalidPeriod)
}

func TestGenerateDraft_CancelledDraftFreesPeriod(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	req := form29domain.GenerateRequest{
		CompanyID: companyID,
		Period:    period.Period{Year: 2025, Month: time.February},
	}

	first, isNew, err := env.svc.GenerateDraft(context.Background(), req)
	require.NoError(t, err)
	require.True(t, isNew)

	_, err = env.svc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)

	second, isNew, err := env.svc.GenerateDraft(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Revision)
}

func TestGetDraft_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetDraft(context.Background(), env.node.Generate(), period.Period{Year: 2025, Month: time.January})
	assert.ErrorIs(t, err, form29domain.ErrDraftNotFound)
}

func TestPreviousPeriodCredit_DraftSignFlip(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	prior := form29domain.Draft{
		ID: env.node.Generate(), CompanyID: companyID,
		PeriodYear: 2024, PeriodMonth: 12, Revision: 1,
		Status: form29domain.DraftStatusSaved, ValidationStatus: form29domain.ValidationStatusValid,
		Live:   form29domain.LiveMarker(),
		NetIVA: -30000,
		CreatedAt: env.clock.Now(), UpdatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(&prior).Error)

	credit := env.svc.PreviousPeriodCredit(context.Background(), companyID, period.Period{Year: 2025, Month: time.January})
	assert.Equal(t, int64(30000), credit)
}

func TestPreviousPeriodCredit_PositiveNetIVAYieldsZero(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	prior := form29domain.Draft{
		ID: env.node.Generate(), CompanyID: companyID,
		PeriodYear: 2024, PeriodMonth: 12, Revision: 1,
		Status: form29domain.DraftStatusPaid, ValidationStatus: form29domain.ValidationStatusValid,
		Live:   form29domain.LiveMarker(),
		NetIVA: 80000,
		CreatedAt: env.clock.Now(), UpdatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(&prior).Error)

	credit := env.svc.PreviousPeriodCredit(context.Background(), companyID, period.Period{Year: 2025, Month: time.January})
	assert.Equal(t, int64(0), credit)
}

func TestPreviousPeriodCredit_AuthorityFilingFallback(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	// No settled draft exists; the scraped Vigente filing bootstraps the
	// credit. The scrape stores numbers as strings.
	filing := form29domain.AuthorityFiling{
		ID: env.node.Generate(), CompanyID: companyID,
		PeriodYear: 2024, PeriodMonth: 12,
		FormType: "F29", Status: form29domain.AuthorityFilingVigente,
		Extraction: datatypes.JSONMap{
			"codes": map[string]any{"077": "45000", "538": "120000"},
		},
		DownloadedAt: env.clock.Now(), CreatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(&filing).Error)

	credit := env.svc.PreviousPeriodCredit(context.Background(), companyID, period.Period{Year: 2025, Month: time.January})
	assert.Equal(t, int64(45000), credit)
}

func TestPreviousPeriodCredit_DraftWinsOverFiling(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	prior := form29domain.Draft{
		ID: env.node.Generate(), CompanyID: companyID,
		PeriodYear: 2024, PeriodMonth: 12, Revision: 1,
		Status: form29domain.DraftStatusSaved, ValidationStatus: form29domain.ValidationStatusValid,
		Live:   form29domain.LiveMarker(),
		NetIVA: -15000,
		CreatedAt: env.clock.Now(), UpdatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(&prior).Error)

	filing := form29domain.AuthorityFiling{
		ID: env.node.Generate(), CompanyID: companyID,
		PeriodYear: 2024, PeriodMonth: 12,
		FormType: "F29", Status: form29domain.AuthorityFilingVigente,
		Extraction:   datatypes.JSONMap{"codes": map[string]any{"077": float64(99999)}},
		DownloadedAt: env.clock.Now(), CreatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(&filing).Error)

	credit := env.svc.PreviousPeriodCredit(context.Background(), companyID, period.Period{Year: 2025, Month: time.January})
	assert.Equal(t, int64(15000), credit)
}

func TestPreviousPeriodCredit_NoHistoryYieldsZero(t *testing.T) {
	env := newTestEnv(t)

	credit := env.svc.PreviousPeriodCredit(context.Background(), env.node.Generate(), period.Period{Year: 2025, Month: time.January})
	assert.Equal(t, int64(0), credit)
}

// staleLookupRepo misses its first live-draft lookup, reproducing the
// window where a concurrent writer lands between the fast-path check and
// the insert.
type staleLookupRepo struct {
	form29domain.Repository
	misses int
}

func (r *staleLookupRepo) FindLive(ctx context.Context, companyID snowflake.ID, year, month int) (*form29domain.Draft, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.Repository.FindLive(ctx, companyID, year, month)
}

func TestGenerateDraft_ConcurrentCreateRereadsWinner(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	winner := form29domain.Draft{
		ID: env.node.Generate(), CompanyID: companyID,
		PeriodYear: 2025, PeriodMonth: 1, Revision: 1,
		Status:           form29domain.DraftStatusDraft,
		ValidationStatus: form29domain.ValidationStatusUnvalidated,
		Live:             form29domain.LiveMarker(),
		CreatedAt:        env.clock.Now(), UpdatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(&winner).Error)

	svc := NewService(ServiceParam{
		DB:         env.db,
		Log:        zap.NewNop(),
		GenID:      env.node,
		Clock:      env.clock,
		Calculator: env.calc,
		Repo:       &staleLookupRepo{Repository: form29repo.NewRepository(env.db), misses: 1},
	})

	// The insert hits the live uniqueness index and the winner is
	// re-read instead of surfacing the duplicate-key error.
	draft, isNew, err := svc.GenerateDraft(context.Background(), form29domain.GenerateRequest{
		CompanyID: companyID,
		Period:    period.Period{Year: 2025, Month: time.January},
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	require.NotNil(t, draft)
	assert.Equal(t, winner.ID, draft.ID)

	var count int64
	require.NoError(t, env.db.Model(&form29domain.Draft{}).
		Where("company_id = ? AND period_year = ? AND period_month = ? AND status <> ?",
			companyID, 2025, 1, form29domain.DraftStatusCancelled).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

type staticFetcher struct {
	payload datatypes.JSON
}

func (f staticFetcher) FetchProposal(context.Context, companydomain.Company, period.Period) (datatypes.JSON, error) {
	return f.payload, nil
}

func TestGenerateDraft_ProposalEnrichment(t *testing.T) {
	env := newTestEnv(t)
	companyID := env.node.Generate()

	company := companydomain.Company{
		ID: companyID, RUT: "76543210-K", BusinessName: "Comercial Andina SpA",
		SIIUser: "76543210-K", SIIPassword: "secret",
		CreatedAt: env.clock.Now(), UpdatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(&company).Error)

	svc := NewService(ServiceParam{
		DB:         env.db,
		Log:        zap.NewNop(),
		GenID:      env.node,
		Clock:      env.clock,
		Calculator: env.calc,
		Repo:       form29repo.NewRepository(env.db),
		Fetcher:    staticFetcher{payload: datatypes.JSON(`{"codes":{"538":"120000"}}`)},
	})

	draft, isNew, err := svc.GenerateDraft(context.Background(), form29domain.GenerateRequest{
		CompanyID:     companyID,
		Period:        period.Period{Year: 2025, Month: time.January},
		FetchProposal: true,
	})
	require.NoError(t, err)
	require.True(t, isNew)
	assert.JSONEq(t, `{"codes":{"538":"120000"}}`, string(draft.SIIProposal))
	assert.True(t, draft.UpdatedAt.Equal(env.clock.Now()))

	var stored form29domain.Draft
	require.NoError(t, env.db.First(&stored, "id = ?", draft.ID).Error)
	assert.JSONEq(t, `{"codes":{"538":"120000"}}`, string(stored.SIIProposal))
}

func TestExtractionCode_Coercion(t *testing.T) {
	codes := map[string]any{"codes": map[string]any{
		"077": "45000",
		"091": float64(1200),
		"538": int64(7),
	}}

	assert.Equal(t, int64(45000), extractionCode(codes, "077"))
	assert.Equal(t, int64(1200), extractionCode(codes, "091"))
	assert.Equal(t, int64(7), extractionCode(codes, "538"))
	assert.Equal(t, int64(0), extractionCode(codes, "999"))
	assert.Equal(t, int64(0), extractionCode(nil, "077"))
	assert.Equal(t, int64(0), extractionCode(map[string]any{"codes": "garbage"}, "077"))
}
