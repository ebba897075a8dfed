package model

// RequestedItem is one line of the buyer's RFQ. Immutable once the RFQ is sent.
// CatalogItemID links the line back to the catalog record that approval
// mutations target; it may be empty for free-text lines.
type RequestedItem struct {
	ID              string   `json:"id"`
	CatalogItemID   string   `json:"catalog_item_id,omitempty"`
	ItemName        string   `json:"item_name"`
	Quantity        int      `json:"quantity"`
	SKU             string   `json:"sku,omitempty"`
	Brand           string   `json:"brand,omitempty"`
	ModelNumber     string   `json:"model_number,omitempty"`
	TargetUnitPrice *float64 `json:"target_unit_price,omitempty"`
}

// ExtractedItem is one line item pulled out of a supplier quote document by
// the vision model. It has no stable identity across re-extractions.
type ExtractedItem struct {
	ProductName string   `json:"product_name"`
	SKU         string   `json:"sku,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	TotalPrice  *float64 `json:"total_price,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Description string   `json:"description,omitempty"`
	LeadTime    string   `json:"lead_time,omitempty"`
	IsAlternate bool     `json:"is_alternate,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// SupplierInfo is the header block of an extracted quote document.
type SupplierInfo struct {
	CompanyName string   `json:"company_name,omitempty"`
	QuoteNumber string   `json:"quote_number,omitempty"`
	QuoteDate   string   `json:"quote_date,omitempty"`
	ValidUntil  string   `json:"valid_until,omitempty"`
	Subtotal    *float64 `json:"subtotal,omitempty"`
	Taxes       *float64 `json:"taxes,omitempty"`
	Total       *float64 `json:"total,omitempty"`
}

// QuoteDocument is the full structured output of one extraction run.
type QuoteDocument struct {
	Supplier SupplierInfo    `json:"supplier"`
	Items    []ExtractedItem `json:"items"`
	Notes    string          `json:"notes,omitempty"`
}

// QuoteLineItem is a manually entered quote line. It carries an explicit
// catalog link, which is what makes the no-analysis approval fallback possible.
type QuoteLineItem struct {
	ID            string  `json:"id"`
	CatalogItemID string  `json:"catalog_item_id"`
	Description   string  `json:"description"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	LeadTime      string  `json:"lead_time,omitempty"`
}
