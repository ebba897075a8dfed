// Package discrepancy turns matched quote lines into human-readable deviation
// notes. Missing and extra results need no notes here; their status alone
// tells the presentation layer what to say.
package discrepancy

import (
	"fmt"
	"math"

	"github.com/atelierhq/procura/internal/core/model"
)

// DefaultPriceTolerance is the fraction a quoted unit price may exceed the
// target before it is flagged. Project-level reviews use the wider
// ProjectPriceTolerance instead; a call site picks one and sticks with it.
const (
	DefaultPriceTolerance = 0.10
	ProjectPriceTolerance = 0.15
)

type Analyzer struct {
	PriceTolerance float64
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{PriceTolerance: DefaultPriceTolerance}
}

// Analyze returns deviation notes for a matched or partial result, ordered
// for presentation: quantity first, then substitution, then price. Pure; it
// never mutates the result.
func (a *Analyzer) Analyze(r model.MatchResult) []string {
	if r.Status != model.StatusMatched && r.Status != model.StatusPartial {
		return nil
	}
	if r.Requested == nil || r.Extracted == nil {
		return nil
	}

	var notes []string

	if r.Extracted.Quantity != nil && *r.Extracted.Quantity != r.Requested.Quantity {
		notes = append(notes, fmt.Sprintf("Quantity: requested %d, quoted %d",
			r.Requested.Quantity, *r.Extracted.Quantity))
	}

	if r.Extracted.IsAlternate {
		note := "Alternate product suggested"
		if r.Extracted.Notes != "" {
			note += ": " + r.Extracted.Notes
		}
		notes = append(notes, note)
	}

	if r.Requested.TargetUnitPrice != nil && r.Extracted.UnitPrice != nil {
		target := *r.Requested.TargetUnitPrice
		quoted := *r.Extracted.UnitPrice
		if target > 0 && quoted > target*(1+a.PriceTolerance) {
			pct := int(math.Round((quoted - target) / target * 100))
			notes = append(notes, fmt.Sprintf("%d%% above target ($%.2f target vs $%.2f quoted)",
				pct, target, quoted))
		}
	}

	return notes
}
