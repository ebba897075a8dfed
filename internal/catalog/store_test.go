package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/atelierhq/procura/internal/config"
	"github.com/atelierhq/procura/internal/core/model"
)

func openTestStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fptr(v float64) *float64 { return &v }

func sampleReport(quoteID string) *model.MatchReport {
	return &model.MatchReport{
		QuoteID:  quoteID,
		Supplier: model.SupplierInfo{CompanyName: "Nordlys Living", QuoteNumber: "Q-2041"},
		Results: []model.MatchResult{
			{ID: "m1", Status: model.StatusMatched, Confidence: 85,
				Requested: &model.RequestedItem{ID: "r1", CatalogItemID: "cat-1", ItemName: "Sofa", Quantity: 2},
				Extracted: &model.ExtractedItem{ProductName: "Sofa", UnitPrice: fptr(500)}},
			{ID: "m2", Status: model.StatusExtra, Confidence: 0,
				Extracted: &model.ExtractedItem{ProductName: "Vase"}},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestSaveAndGetReport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReport(ctx, sampleReport("q1")))

	report, err := s.GetReport(ctx, "q1")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "Nordlys Living", report.Supplier.CompanyName)
	assert.Len(t, report.Results, 2)
	assert.Equal(t, 1, report.Summary.Matched)
	assert.Equal(t, 1, report.Summary.Extra)
	assert.Equal(t, 1, report.Summary.TotalRequested)
}

func TestGetReport_Absent(t *testing.T) {
	s := openTestStore(t)
	report, err := s.GetReport(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, report)
}

func TestSaveReport_ReplacesPriorResults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReport(ctx, sampleReport("q1")))

	second := &model.MatchReport{
		QuoteID: "q1",
		Results: []model.MatchResult{
			{ID: "m9", Status: model.StatusMissing,
				Requested: &model.RequestedItem{ID: "r1", ItemName: "Sofa", Quantity: 2}},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveReport(ctx, second))

	report, err := s.GetReport(ctx, "q1")
	require.NoError(t, err)
	assert.Len(t, report.Results, 1)
	assert.Equal(t, "m9", report.Results[0].ID)
}

func TestMarkExtraResolved(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReport(ctx, sampleReport("q1")))
	require.NoError(t, s.MarkExtraResolved(ctx, "q1", "m2", "cat-9"))

	report, err := s.GetReport(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, report.Resolved["m2"])
	assert.Equal(t, 0, report.Summary.Extra)
	assert.Equal(t, 1, report.Summary.ResolvedExtras)
	assert.Equal(t, 2, report.Summary.Matched)

	assert.Error(t, s.MarkExtraResolved(ctx, "q1", "no-such-result", ""))
}

func TestApplyMutations_TransactionalWithAudit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCatalogItem(ctx, CatalogItem{
		ID: "cat-1", Name: "Sofa", Status: model.CatalogStatusSelected, TradePrice: fptr(450),
	}))

	mutations := []model.CatalogMutation{
		{CatalogItemID: "cat-1", Status: model.CatalogStatusQuoteApproved,
			TradePrice: fptr(500), RetailPrice: fptr(625), Currency: "USD", LeadTime: "6 weeks"},
		{CatalogItemID: "cat-gone", Status: model.CatalogStatusQuoteApproved, TradePrice: fptr(10)},
	}
	audit := []model.AuditEntry{
		{CatalogItemID: "cat-1", Action: "quote_approved", PriceAfter: fptr(500), ActorID: "u1"},
		{CatalogItemID: "cat-gone", Action: "quote_approved", PriceAfter: fptr(10), ActorID: "u1"},
	}

	require.NoError(t, s.ApplyMutations(ctx, "q1", mutations, audit))

	item, err := s.GetCatalogItem(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, model.CatalogStatusQuoteApproved, item.Status)
	assert.Equal(t, 500.0, *item.TradePrice)
	assert.Equal(t, 625.0, *item.RetailPrice)
	assert.Equal(t, "6 weeks", item.LeadTime)

	entries, err := s.Activity(ctx, "q1")
	require.NoError(t, err)
	// The dangling mutation was skipped, so only one audit row landed.
	require.Len(t, entries, 1)
	assert.Equal(t, "cat-1", entries[0].CatalogItemID)
	assert.Equal(t, 450.0, *entries[0].PriceBefore)
	assert.Equal(t, 500.0, *entries[0].PriceAfter)
	assert.Equal(t, "u1", entries[0].ActorID)
}

func TestQuoteLinesAndQuoteHeader(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveQuote(ctx, Quote{
		ID: "q1", SupplierName: "Nordlys Living", MarkupPercent: fptr(30), Currency: "EUR", Status: "received",
	}))
	require.NoError(t, s.SaveQuoteLines(ctx, "q1", []model.QuoteLineItem{
		{ID: "l1", CatalogItemID: "cat-1", Description: "Sofa", Quantity: 1, UnitPrice: 500},
	}))

	q, err := s.GetQuote(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 30.0, *q.MarkupPercent)
	assert.Equal(t, "EUR", q.Currency)

	lines, err := s.QuoteLines(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "cat-1", lines[0].CatalogItemID)
}
