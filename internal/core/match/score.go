package match

import (
	"strings"

	"github.com/atelierhq/procura/internal/core/model"
)

// Rule weights. Total possible is 130 but reported confidence is clamped to 100.
const (
	skuExactWeight   = 50.0
	skuPartialWeight = 30.0
	brandWeight      = 15.0
	nameWeight       = 35.0

	// Raw-score thresholds for accepting a pairing and for calling it a full
	// match rather than a partial one. Tuned around the greedy scan below;
	// retune if the assignment strategy ever changes.
	acceptThreshold  = 30.0
	matchedThreshold = 50.0
)

// ScoreBreakdown is the per-rule contribution of one candidate pairing.
// Keeping the rules separate makes each one testable on its own and lets
// thresholds move without touching control flow.
type ScoreBreakdown struct {
	SKUExact    float64 `json:"sku_exact"`
	SKUPartial  float64 `json:"sku_partial"`
	Brand       float64 `json:"brand"`
	NameOverlap float64 `json:"name_overlap"`
}

func (b ScoreBreakdown) Total() float64 {
	return b.SKUExact + b.SKUPartial + b.Brand + b.NameOverlap
}

// Score rates how well an extracted quote line fits a requested RFQ line.
// Pure; safe for concurrent use.
func Score(req model.RequestedItem, ext model.ExtractedItem) ScoreBreakdown {
	var b ScoreBreakdown

	reqSKU := normalizeSKU(req.SKU)
	extSKU := normalizeSKU(ext.SKU)
	if reqSKU != "" && extSKU != "" {
		if reqSKU == extSKU {
			b.SKUExact = skuExactWeight
		} else if strings.Contains(reqSKU, extSKU) || strings.Contains(extSKU, reqSKU) {
			b.SKUPartial = skuPartialWeight
		}
	}

	reqBrand := strings.ToLower(strings.TrimSpace(req.Brand))
	extBrand := strings.ToLower(strings.TrimSpace(ext.Brand))
	if reqBrand != "" && extBrand != "" {
		if strings.Contains(reqBrand, extBrand) || strings.Contains(extBrand, reqBrand) {
			b.Brand = brandWeight
		}
	}

	b.NameOverlap = nameOverlap(req.ItemName, ext.ProductName)

	return b
}

// nameOverlap compares the two names token-wise. Tokens of length <= 2 are
// noise (articles, unit abbreviations) and are dropped before comparison.
func nameOverlap(reqName, extName string) float64 {
	reqTokens := tokenize(reqName)
	extTokens := tokenize(extName)
	if len(reqTokens) == 0 || len(extTokens) == 0 {
		return 0
	}

	matching := 0
	for _, et := range extTokens {
		for _, rt := range reqTokens {
			if strings.Contains(rt, et) || strings.Contains(et, rt) {
				matching++
				break
			}
		}
	}

	denom := len(extTokens)
	if len(reqTokens) > denom {
		denom = len(reqTokens)
	}
	return float64(matching) / float64(denom) * nameWeight
}

func tokenize(name string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// normalizeSKU lowercases and strips everything that is not a letter or
// digit, so "ABC-123" and "abc 123" compare equal.
func normalizeSKU(sku string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(sku) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
