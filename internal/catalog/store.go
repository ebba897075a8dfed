// Package catalog persists what the reconciliation engine owns: the catalog
// rows approval mutates, stored match reports with their resolved-extra
// overlay, manually entered quote lines, and the activity log.
package catalog

import (
	"context"

	"github.com/atelierhq/procura/internal/core/model"
)

// Store is the persistence boundary of the engine. The gorm implementation
// below is the real one; tests swap in a mock.
type Store interface {
	// SaveReport replaces any previous report for the same quote. A fresh
	// analysis always supersedes the prior result set.
	SaveReport(ctx context.Context, report *model.MatchReport) error

	// GetReport returns the stored report with its summary recomputed from
	// the current results and overlay, or nil when none exists.
	GetReport(ctx context.Context, quoteID string) (*model.MatchReport, error)

	// MarkExtraResolved flags an extra result as manually reconciled. When
	// catalogItemID is non-empty the extra was linked to a catalog record;
	// empty means it was dismissed. Either way it counts as resolved.
	MarkExtraResolved(ctx context.Context, quoteID, resultID, catalogItemID string) error

	// QuoteLines returns the manually entered line items of a quote, the
	// approval fallback when no analysis exists.
	QuoteLines(ctx context.Context, quoteID string) ([]model.QuoteLineItem, error)

	// GetQuote returns header data for a quote (supplier markup, currency).
	GetQuote(ctx context.Context, quoteID string) (*Quote, error)

	// ApplyMutations applies a mutation batch and its audit entries in one
	// transaction. Each audit row is written atomically with the catalog
	// update it describes, with PriceBefore filled from the row's prior
	// state.
	ApplyMutations(ctx context.Context, quoteID string, mutations []model.CatalogMutation, audit []model.AuditEntry) error

	Close() error
}

// Quote is the header record of a supplier quote as this engine sees it.
type Quote struct {
	ID            string   `json:"id"`
	SupplierName  string   `json:"supplier_name"`
	MarkupPercent *float64 `json:"markup_percent,omitempty"`
	Currency      string   `json:"currency"`
	Status        string   `json:"status"`
}
