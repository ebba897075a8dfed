package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/atelierhq/procura/internal/catalog"
	"github.com/atelierhq/procura/internal/config"
	"github.com/atelierhq/procura/internal/core/extraction"
	"github.com/atelierhq/procura/internal/core/model"
)

const sampleQuoteJSON = `{
	"supplier": {"company_name": "Nordlys Living", "quote_number": "Q-2041", "total": 1265},
	"items": [
		{"product_name": "Sofa", "sku": "abc-123", "quantity": 3, "unit_price": 500},
		{"product_name": "Ceramic Vase", "quantity": 1, "unit_price": 65}
	]
}`

func fptr(v float64) *float64 { return &v }

func testRequested() []model.RequestedItem {
	return []model.RequestedItem{
		{ID: "r1", CatalogItemID: "cat-1", ItemName: "Sofa", Quantity: 2, SKU: "ABC123", TargetUnitPrice: fptr(400)},
		{ID: "r2", CatalogItemID: "cat-2", ItemName: "Floor Lamp", Quantity: 1},
	}
}

func testDoc() extraction.Document {
	return extraction.Document{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}
}

func newTestReconciler(store catalog.Store, vision *MockVision) *Reconciler {
	if vision == nil {
		return NewReconciler(store, nil, config.Default())
	}
	return NewReconciler(store, vision, config.Default())
}

func TestAnalyzeQuote(t *testing.T) {
	store := NewMockStore()
	r := newTestReconciler(store, &MockVision{Response: sampleQuoteJSON})

	report, err := r.AnalyzeQuote(context.Background(), "q1", testDoc(), testRequested())

	require.NoError(t, err)
	assert.Equal(t, "Nordlys Living", report.Supplier.CompanyName)
	require.Len(t, report.Results, 3)

	sofa := report.Results[0]
	assert.Equal(t, model.StatusMatched, sofa.Status)
	assert.Equal(t, "r1", sofa.Requested.ID)
	assert.NotEmpty(t, sofa.ID)
	// Quantity deviation and the 25%-over-target price both get flagged.
	assert.Equal(t, []string{
		"Quantity: requested 2, quoted 3",
		"25% above target ($400.00 target vs $500.00 quoted)",
	}, sofa.Discrepancies)

	assert.Equal(t, model.StatusExtra, report.Results[1].Status)
	assert.Equal(t, model.StatusMissing, report.Results[2].Status)

	assert.Equal(t, 1, report.Summary.Matched)
	assert.Equal(t, 1, report.Summary.Extra)
	assert.Equal(t, 2, report.Summary.TotalRequested)

	// The report was persisted, replacing any prior analysis.
	stored, err := store.GetReport(context.Background(), "q1")
	require.NoError(t, err)
	assert.Len(t, stored.Results, 3)
}

func TestAnalyzeQuote_NotConfigured(t *testing.T) {
	r := newTestReconciler(NewMockStore(), nil)

	_, err := r.AnalyzeQuote(context.Background(), "q1", testDoc(), testRequested())
	assert.ErrorIs(t, err, extraction.ErrNotConfigured)
}

func TestApplyDecision_ApproveFromStoredResults(t *testing.T) {
	store := NewMockStore()
	r := newTestReconciler(store, &MockVision{Response: sampleQuoteJSON})

	_, err := r.AnalyzeQuote(context.Background(), "q1", testDoc(), testRequested())
	require.NoError(t, err)

	result, err := r.ApplyDecision(context.Background(), "q1", model.DecisionApprove, "u1")

	require.NoError(t, err)
	require.Len(t, result.Mutations, 1)
	m := result.Mutations[0]
	assert.Equal(t, "cat-1", m.CatalogItemID)
	assert.Equal(t, 500.0, *m.TradePrice)
	assert.Equal(t, 625.0, *m.RetailPrice) // default 25% markup
	assert.Len(t, store.Applied, 1)
	assert.Len(t, store.AuditLog, 1)
	assert.Empty(t, result.Skipped)
}

func TestApplyDecision_SupplierMarkupOverridesDefault(t *testing.T) {
	store := NewMockStore()
	store.Quotes["q1"] = &catalog.Quote{ID: "q1", MarkupPercent: fptr(40), Currency: "EUR"}
	r := newTestReconciler(store, &MockVision{Response: sampleQuoteJSON})

	_, err := r.AnalyzeQuote(context.Background(), "q1", testDoc(), testRequested())
	require.NoError(t, err)

	result, err := r.ApplyDecision(context.Background(), "q1", model.DecisionApprove, "u1")

	require.NoError(t, err)
	require.Len(t, result.Mutations, 1)
	assert.Equal(t, 700.0, *result.Mutations[0].RetailPrice)
	assert.Equal(t, "EUR", result.Mutations[0].Currency)
}

func TestApplyDecision_FallbackToLineItems(t *testing.T) {
	store := NewMockStore()
	store.Lines["q1"] = []model.QuoteLineItem{
		{ID: "l1", CatalogItemID: "cat-1", Description: "Sofa", Quantity: 1, UnitPrice: 100},
	}
	r := newTestReconciler(store, nil)

	result, err := r.ApplyDecision(context.Background(), "q1", model.DecisionApprove, "u1")

	require.NoError(t, err)
	require.Len(t, result.Mutations, 1)
	assert.Equal(t, 125.0, *result.Mutations[0].RetailPrice)
}

func TestApplyDecision_NothingToActOn(t *testing.T) {
	r := newTestReconciler(NewMockStore(), nil)

	_, err := r.ApplyDecision(context.Background(), "q1", model.DecisionApprove, "u1")
	assert.Error(t, err)
}

func TestApplyDecision_InvalidDecision(t *testing.T) {
	r := newTestReconciler(NewMockStore(), nil)

	_, err := r.ApplyDecision(context.Background(), "q1", model.ApprovalDecision("shrug"), "u1")
	assert.Error(t, err)
}

func TestResolveExtra(t *testing.T) {
	store := NewMockStore()
	r := newTestReconciler(store, &MockVision{Response: sampleQuoteJSON})

	report, err := r.AnalyzeQuote(context.Background(), "q1", testDoc(), testRequested())
	require.NoError(t, err)
	extraID := report.Results[1].ID
	require.Equal(t, model.StatusExtra, report.Results[1].Status)

	updated, err := r.ResolveExtra(context.Background(), "q1", extraID, "cat-9")

	require.NoError(t, err)
	assert.Equal(t, 0, updated.Summary.Extra)
	assert.Equal(t, 1, updated.Summary.ResolvedExtras)
	assert.Equal(t, 2, updated.Summary.Matched)
	// The underlying result keeps its status; only the overlay changed.
	assert.Equal(t, model.StatusExtra, updated.Results[1].Status)
}
