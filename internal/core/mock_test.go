package core

import (
	"context"

	"github.com/atelierhq/procura/internal/catalog"
	"github.com/atelierhq/procura/internal/core/model"
	"github.com/atelierhq/procura/internal/core/summary"
	"github.com/atelierhq/procura/internal/llm"
)

type MockStore struct {
	Reports  map[string]*model.MatchReport
	Lines    map[string][]model.QuoteLineItem
	Quotes   map[string]*catalog.Quote
	Applied  []model.CatalogMutation
	AuditLog []model.AuditEntry
	SaveErr  error
	ApplyErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		Reports: map[string]*model.MatchReport{},
		Lines:   map[string][]model.QuoteLineItem{},
		Quotes:  map[string]*catalog.Quote{},
	}
}

func (m *MockStore) SaveReport(ctx context.Context, report *model.MatchReport) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Reports[report.QuoteID] = report
	return nil
}

func (m *MockStore) GetReport(ctx context.Context, quoteID string) (*model.MatchReport, error) {
	report, ok := m.Reports[quoteID]
	if !ok {
		return nil, nil
	}
	report.Summary = summary.Summarize(report.Results, report.Resolved)
	return report, nil
}

func (m *MockStore) MarkExtraResolved(ctx context.Context, quoteID, resultID, catalogItemID string) error {
	report := m.Reports[quoteID]
	if report.Resolved == nil {
		report.Resolved = map[string]bool{}
	}
	report.Resolved[resultID] = true
	return nil
}

func (m *MockStore) QuoteLines(ctx context.Context, quoteID string) ([]model.QuoteLineItem, error) {
	return m.Lines[quoteID], nil
}

func (m *MockStore) GetQuote(ctx context.Context, quoteID string) (*catalog.Quote, error) {
	return m.Quotes[quoteID], nil
}

func (m *MockStore) ApplyMutations(ctx context.Context, quoteID string, mutations []model.CatalogMutation, audit []model.AuditEntry) error {
	if m.ApplyErr != nil {
		return m.ApplyErr
	}
	m.Applied = append(m.Applied, mutations...)
	m.AuditLog = append(m.AuditLog, audit...)
	return nil
}

func (m *MockStore) Close() error { return nil }

type MockVision struct {
	Response string
	Err      error
}

func (m *MockVision) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Response, m.Err
}

func (m *MockVision) GenerateVision(ctx context.Context, prompt string, img llm.Image) (string, error) {
	return m.Response, m.Err
}
