// Package summary aggregates match results into the counts the review UI
// shows. The summary is always recomputed from the current result set plus
// the resolved-extra overlay; it is never stored on its own.
package summary

import "github.com/atelierhq/procura/internal/core/model"

// Summarize counts results by status. An extra result whose ID appears true
// in resolved was manually reconciled by a human: it leaves the extra count,
// joins the matched count, and is reported separately so the UI can show the
// correction without a re-run of the matcher.
func Summarize(results []model.MatchResult, resolved map[string]bool) model.ReconciliationSummary {
	var s model.ReconciliationSummary
	for _, r := range results {
		if r.Requested != nil {
			s.TotalRequested++
		}
		switch r.Status {
		case model.StatusMatched:
			s.Matched++
		case model.StatusPartial:
			s.Partial++
		case model.StatusMissing:
			s.Missing++
		case model.StatusExtra:
			if resolved[r.ID] {
				s.ResolvedExtras++
				s.Matched++
			} else {
				s.Extra++
			}
		}
	}
	return s
}
