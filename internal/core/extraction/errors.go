package extraction

import "errors"

// The extraction error taxonomy. Callers branch on these to pick the
// user-visible fallback: disable AI assist, suggest a retry, or ask for a
// clearer image. The matcher is never run after any of them.
var (
	ErrNotConfigured      = errors.New("quote extraction is not configured")
	ErrRateLimited        = errors.New("extraction provider rate limited, retry shortly")
	ErrUnreadableDocument = errors.New("could not read quote document")
	ErrMalformedResponse  = errors.New("extraction returned malformed data")
)
