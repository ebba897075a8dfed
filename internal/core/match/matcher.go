// Package match pairs extracted supplier-quote lines with the RFQ lines they
// answer, scoring each candidate pairing with a weighted rule set.
package match

import (
	"math"

	"github.com/atelierhq/procura/internal/core/model"
)

// Match produces one MatchResult per extracted item plus one per leftover
// requested item. Deterministic for a fixed input, O(len(requested) *
// len(extracted)).
//
// Assignment is greedy: each extracted item, in list order, takes the
// best-scoring requested item still in the pool. An early extracted item can
// therefore consume a requested item that would have scored higher against a
// later one. This is a deliberate approximation of optimal assignment; the
// thresholds are tuned around it and the lists stay small enough that the
// occasional steal is cheaper to review than a full assignment solve is to
// audit.
func Match(requested []model.RequestedItem, extracted []model.ExtractedItem) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(requested)+len(extracted))
	consumed := make([]bool, len(requested))

	for ei := range extracted {
		ext := extracted[ei]

		bestIdx := -1
		bestScore := 0.0
		for ri := range requested {
			if consumed[ri] {
				continue
			}
			score := Score(requested[ri], ext).Total()
			// Ties keep the earlier requested item.
			if score > bestScore {
				bestScore = score
				bestIdx = ri
			}
		}

		if bestIdx == -1 || bestScore < acceptThreshold {
			results = append(results, model.MatchResult{
				Status:     model.StatusExtra,
				Confidence: 0,
				Extracted:  &extracted[ei],
			})
			continue
		}

		consumed[bestIdx] = true
		status := model.StatusPartial
		if bestScore >= matchedThreshold {
			status = model.StatusMatched
		}
		results = append(results, model.MatchResult{
			Status:     status,
			Confidence: clampConfidence(bestScore),
			Requested:  &requested[bestIdx],
			Extracted:  &extracted[ei],
		})
	}

	for ri := range requested {
		if consumed[ri] {
			continue
		}
		results = append(results, model.MatchResult{
			Status:     model.StatusMissing,
			Confidence: 0,
			Requested:  &requested[ri],
		})
	}

	return results
}

func clampConfidence(score float64) int {
	c := int(math.Round(score))
	if c > 100 {
		return 100
	}
	if c < 0 {
		return 0
	}
	return c
}
