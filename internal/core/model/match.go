package model

import "time"

type MatchStatus string

const (
	StatusMatched MatchStatus = "matched"
	StatusPartial MatchStatus = "partial"
	StatusMissing MatchStatus = "missing"
	StatusExtra   MatchStatus = "extra"
)

// MatchResult pairs one requested item with one extracted item, or records a
// one-sided leftover. Results are created fresh on every analysis run and are
// never mutated in place; human corrections live in the report's overlay.
//
// Requested is nil only for status=extra, Extracted only for status=missing.
type MatchResult struct {
	ID            string         `json:"id"`
	Status        MatchStatus    `json:"status"`
	Confidence    int            `json:"confidence"`
	Requested     *RequestedItem `json:"requested,omitempty"`
	Extracted     *ExtractedItem `json:"extracted,omitempty"`
	Discrepancies []string       `json:"discrepancies,omitempty"`
}

// ReconciliationSummary is derived from a result set on demand; it is never
// stored as independent truth.
type ReconciliationSummary struct {
	Matched        int `json:"matched"`
	Partial        int `json:"partial"`
	Missing        int `json:"missing"`
	Extra          int `json:"extra"`
	ResolvedExtras int `json:"resolved_extras"`
	TotalRequested int `json:"total_requested"`
}

// MatchReport is the read-path output for one quote: the extracted header,
// the full result set, and the resolved-extra overlay keyed by result ID.
type MatchReport struct {
	QuoteID   string                `json:"quote_id"`
	Supplier  SupplierInfo          `json:"supplier"`
	Results   []MatchResult         `json:"match_results"`
	Resolved  map[string]bool       `json:"resolved,omitempty"`
	Summary   ReconciliationSummary `json:"summary"`
	Notes     string                `json:"notes,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}
