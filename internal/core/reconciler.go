package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/atelierhq/procura/internal/catalog"
	"github.com/atelierhq/procura/internal/config"
	"github.com/atelierhq/procura/internal/core/approval"
	"github.com/atelierhq/procura/internal/core/discrepancy"
	"github.com/atelierhq/procura/internal/core/extraction"
	"github.com/atelierhq/procura/internal/core/match"
	"github.com/atelierhq/procura/internal/core/model"
	"github.com/atelierhq/procura/internal/core/summary"
	"github.com/atelierhq/procura/internal/llm"
)

// Reconciler wires the read path (extract, match, analyze, summarize) and
// the write path (approval decisions) over one catalog store.
type Reconciler struct {
	Store     catalog.Store
	Extractor *extraction.Extractor
	Analyzer  *discrepancy.Analyzer

	defaultMarkup   float64
	defaultCurrency string
}

func NewReconciler(store catalog.Store, visionClient llm.VisionClient, cfg *config.Config) *Reconciler {
	var extractor *extraction.Extractor
	if visionClient != nil {
		extractor = extraction.NewExtractor(visionClient, cfg.Extraction)
	}

	analyzer := discrepancy.NewAnalyzer()
	if cfg.Analysis.PriceTolerance > 0 {
		analyzer.PriceTolerance = cfg.Analysis.PriceTolerance
	}

	return &Reconciler{
		Store:           store,
		Extractor:       extractor,
		Analyzer:        analyzer,
		defaultMarkup:   cfg.Pricing.DefaultMarkupPercent,
		defaultCurrency: cfg.Pricing.Currency,
	}
}

// AnalyzeQuote runs one extraction-and-match pass over a quote document and
// persists the resulting report, replacing any prior analysis of the quote.
// Extraction failures abort before matching; the caller maps the typed
// extraction errors onto user-facing fallbacks.
func (r *Reconciler) AnalyzeQuote(ctx context.Context, quoteID string, doc extraction.Document, requested []model.RequestedItem) (*model.MatchReport, error) {
	quote, err := r.Extractor.ExtractQuote(ctx, doc)
	if err != nil {
		return nil, err
	}

	results := match.Match(requested, quote.Items)
	for i := range results {
		results[i].ID = uuid.New().String()
		results[i].Discrepancies = r.Analyzer.Analyze(results[i])
	}

	report := &model.MatchReport{
		QuoteID:   quoteID,
		Supplier:  quote.Supplier,
		Results:   results,
		Summary:   summary.Summarize(results, nil),
		Notes:     quote.Notes,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.Store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save match report: %w", err)
	}
	return report, nil
}

// ApplyDecision resolves a human decision into catalog mutations and applies
// them. It prefers the stored match results; a quote with no analysis falls
// back to its own line items, which carry explicit catalog links.
func (r *Reconciler) ApplyDecision(ctx context.Context, quoteID string, decision model.ApprovalDecision, actorID string) (*model.ApprovalResult, error) {
	if !decision.Valid() {
		return nil, fmt.Errorf("invalid approval decision %q", decision)
	}

	input, err := r.approvalInput(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	opts := approval.Options{
		MarkupPercent: r.defaultMarkup,
		Currency:      r.defaultCurrency,
		ActorID:       actorID,
	}
	if quote, err := r.Store.GetQuote(ctx, quoteID); err != nil {
		return nil, err
	} else if quote != nil {
		if quote.MarkupPercent != nil {
			opts.MarkupPercent = *quote.MarkupPercent
		}
		if quote.Currency != "" {
			opts.Currency = quote.Currency
		}
	}

	result, err := approval.Resolve(decision, input, opts)
	if err != nil {
		return nil, err
	}

	if len(result.Mutations) > 0 || len(result.Audit) > 0 {
		if err := r.Store.ApplyMutations(ctx, quoteID, result.Mutations, result.Audit); err != nil {
			return nil, fmt.Errorf("failed to apply catalog mutations: %w", err)
		}
	}
	return result, nil
}

func (r *Reconciler) approvalInput(ctx context.Context, quoteID string) (approval.Input, error) {
	report, err := r.Store.GetReport(ctx, quoteID)
	if err != nil {
		return approval.Input{}, err
	}
	if report != nil && len(report.Results) > 0 {
		return approval.FromMatchResults(report.Results), nil
	}

	lines, err := r.Store.QuoteLines(ctx, quoteID)
	if err != nil {
		return approval.Input{}, err
	}
	if len(lines) == 0 {
		return approval.Input{}, fmt.Errorf("quote %s has neither an analysis nor line items", quoteID)
	}
	return approval.FromLineItems(lines), nil
}

// ResolveExtra marks an extra result as manually reconciled, either linked
// to a catalog item or dismissed, and returns the report with its summary
// recomputed.
func (r *Reconciler) ResolveExtra(ctx context.Context, quoteID, resultID, catalogItemID string) (*model.MatchReport, error) {
	if err := r.Store.MarkExtraResolved(ctx, quoteID, resultID, catalogItemID); err != nil {
		return nil, err
	}
	return r.Report(ctx, quoteID)
}

// Report returns the stored report for a quote, summary freshly derived.
func (r *Reconciler) Report(ctx context.Context, quoteID string) (*model.MatchReport, error) {
	report, err := r.Store.GetReport(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("no match report for quote %s", quoteID)
	}
	return report, nil
}
