package model

type ApprovalDecision string

const (
	DecisionApprove         ApprovalDecision = "approve"
	DecisionDecline         ApprovalDecision = "decline"
	DecisionRequestRevision ApprovalDecision = "request_revision"
)

func (d ApprovalDecision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionDecline, DecisionRequestRevision:
		return true
	}
	return false
}

// Catalog item statuses touched by the approval flow. "selected" is the
// pre-quote state an item returns to when a quote is declined.
const (
	CatalogStatusSelected      = "selected"
	CatalogStatusQuoteApproved = "quote_approved"
)

// CatalogMutation is one pending write against a catalog record. Mutations
// are computed by the resolver and applied by the store.
type CatalogMutation struct {
	CatalogItemID string   `json:"catalog_item_id"`
	Status        string   `json:"status"`
	TradePrice    *float64 `json:"trade_price,omitempty"`
	RetailPrice   *float64 `json:"retail_price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	LeadTime      string   `json:"lead_time,omitempty"`
}

// SkippedItem records a row the resolver could not act on, so a human can
// finish it manually instead of the whole batch failing.
type SkippedItem struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// AuditEntry is appended to the activity log alongside each catalog update.
// PriceBefore is filled in by the store at apply time, inside the same
// transaction as the update it describes.
type AuditEntry struct {
	CatalogItemID string   `json:"catalog_item_id"`
	Action        string   `json:"action"`
	PriceBefore   *float64 `json:"price_before,omitempty"`
	PriceAfter    *float64 `json:"price_after,omitempty"`
	ActorID       string   `json:"actor_id"`
}

// ApprovalResult is everything one decision produced: the mutations to apply,
// the rows that could not be resolved, and the audit trail to append.
type ApprovalResult struct {
	Decision  ApprovalDecision  `json:"decision"`
	Mutations []CatalogMutation `json:"mutations"`
	Skipped   []SkippedItem     `json:"skipped"`
	Audit     []AuditEntry      `json:"audit"`
}
