// Package approval turns a human decision on a quote into the catalog
// mutations and audit entries to apply downstream. It never writes anything
// itself; the catalog store applies the returned batch.
package approval

import (
	"fmt"
	"log"
	"math"

	"github.com/atelierhq/procura/internal/core/model"
)

// DefaultMarkupPercent is applied when neither the supplier nor the caller
// configures a markup.
const DefaultMarkupPercent = 25.0

const (
	actionApproved          = "quote_approved"
	actionDeclined          = "quote_declined"
	actionRevisionRequested = "revision_requested"
)

// Options carries per-decision context. A zero MarkupPercent falls back to
// DefaultMarkupPercent.
type Options struct {
	MarkupPercent float64
	Currency      string
	ActorID       string
}

// Input is the tagged union of the two sources approval can work from:
// match results of a prior analysis (preferred), or the quote's own line
// items when no analysis exists. Both normalize to pricing rows before the
// resolver's core loop, which only ever sees the one shape.
type Input struct {
	results []model.MatchResult
	lines   []model.QuoteLineItem
}

func FromMatchResults(results []model.MatchResult) Input {
	return Input{results: results}
}

func FromLineItems(lines []model.QuoteLineItem) Input {
	return Input{lines: lines}
}

// pricingRow is the uniform shape both input modes reduce to.
type pricingRow struct {
	itemID        string // requested-item or line id, for skip diagnostics
	catalogItemID string
	unitPrice     float64
	hasPrice      bool
	leadTime      string
	priceable     bool // matched/partial on the analysis path; always true on the fallback path
}

// Resolve computes the mutation batch for one decision over one quote.
//
// It never fails on a single bad row: rows without a resolvable catalog link
// (or, on approve, without a usable price) are skipped with a diagnostic and
// a logged warning while the rest of the batch proceeds. An unknown decision
// is rejected before any row is touched.
func Resolve(decision model.ApprovalDecision, input Input, opts Options) (*model.ApprovalResult, error) {
	if !decision.Valid() {
		return nil, fmt.Errorf("invalid approval decision %q", decision)
	}

	res := &model.ApprovalResult{
		Decision:  decision,
		Mutations: []model.CatalogMutation{},
		Skipped:   []model.SkippedItem{},
		Audit:     []model.AuditEntry{},
	}

	if decision == model.DecisionRequestRevision {
		// The quote's own status transition is the caller's job; only the
		// activity log records that a revision was asked for.
		res.Audit = append(res.Audit, model.AuditEntry{
			Action:  actionRevisionRequested,
			ActorID: opts.ActorID,
		})
		return res, nil
	}

	markup := opts.MarkupPercent
	if markup == 0 {
		markup = DefaultMarkupPercent
	}

	for _, row := range input.rows() {
		switch decision {
		case model.DecisionApprove:
			if !row.priceable {
				continue
			}
			if row.catalogItemID == "" {
				log.Printf("approval: skipping item %s: no resolvable catalog link", row.itemID)
				res.Skipped = append(res.Skipped, model.SkippedItem{
					ItemID: row.itemID,
					Reason: "no resolvable catalog link",
				})
				continue
			}
			if !row.hasPrice || row.unitPrice <= 0 {
				log.Printf("approval: skipping item %s: no usable unit price", row.itemID)
				res.Skipped = append(res.Skipped, model.SkippedItem{
					ItemID: row.itemID,
					Reason: "no usable unit price",
				})
				continue
			}

			trade := row.unitPrice
			retail := round2(trade * (1 + markup/100))
			res.Mutations = append(res.Mutations, model.CatalogMutation{
				CatalogItemID: row.catalogItemID,
				Status:        model.CatalogStatusQuoteApproved,
				TradePrice:    &trade,
				RetailPrice:   &retail,
				Currency:      opts.Currency,
				LeadTime:      row.leadTime,
			})
			res.Audit = append(res.Audit, model.AuditEntry{
				CatalogItemID: row.catalogItemID,
				Action:        actionApproved,
				PriceAfter:    &trade,
				ActorID:       opts.ActorID,
			})

		case model.DecisionDecline:
			// Only rows this quote actually advanced roll back; a missing
			// item was never moved off "selected" in the first place.
			if !row.priceable || row.catalogItemID == "" {
				continue
			}
			res.Mutations = append(res.Mutations, model.CatalogMutation{
				CatalogItemID: row.catalogItemID,
				Status:        model.CatalogStatusSelected,
			})
			res.Audit = append(res.Audit, model.AuditEntry{
				CatalogItemID: row.catalogItemID,
				Action:        actionDeclined,
				ActorID:       opts.ActorID,
			})
		}
	}

	return res, nil
}

func (in Input) rows() []pricingRow {
	if in.results != nil {
		rows := make([]pricingRow, 0, len(in.results))
		for _, r := range in.results {
			if r.Requested == nil {
				continue // extras have nothing to link to
			}
			row := pricingRow{
				itemID:        r.Requested.ID,
				catalogItemID: r.Requested.CatalogItemID,
				priceable:     r.Status == model.StatusMatched || r.Status == model.StatusPartial,
			}
			if r.Extracted != nil {
				if r.Extracted.UnitPrice != nil {
					row.unitPrice = *r.Extracted.UnitPrice
					row.hasPrice = true
				}
				row.leadTime = r.Extracted.LeadTime
			}
			rows = append(rows, row)
		}
		return rows
	}

	rows := make([]pricingRow, 0, len(in.lines))
	for _, l := range in.lines {
		rows = append(rows, pricingRow{
			itemID:        l.ID,
			catalogItemID: l.CatalogItemID,
			unitPrice:     l.UnitPrice,
			hasPrice:      l.UnitPrice != 0,
			leadTime:      l.LeadTime,
			priceable:     true,
		})
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
