// Package extraction calls a vision-capable model to turn a supplier quote
// document into structured line items. The model is a best-effort external
// collaborator: its output is occasionally incomplete or wrong, which is the
// matcher's problem, but structurally invalid output never leaves this
// package.
package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/atelierhq/procura/internal/config"
	"github.com/atelierhq/procura/internal/core/common"
	"github.com/atelierhq/procura/internal/core/model"
	"github.com/atelierhq/procura/internal/llm"
)

// Document is one uploaded quote image awaiting extraction.
type Document struct {
	MIMEType string
	Data     []byte
}

type Extractor struct {
	LLM     llm.VisionClient
	Prompts config.ExtractionPrompts
}

func NewExtractor(client llm.VisionClient, prompts config.ExtractionPrompts) *Extractor {
	return &Extractor{
		LLM:     client,
		Prompts: prompts,
	}
}

// ExtractQuote runs one extraction pass over the document. It is cancellable
// via ctx and is never retried here; a failed pass is surfaced to the human
// instead.
func (e *Extractor) ExtractQuote(ctx context.Context, doc Document) (*model.QuoteDocument, error) {
	if e == nil || e.LLM == nil {
		return nil, ErrNotConfigured
	}
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnreadableDocument)
	}

	response, err := e.LLM.GenerateVision(ctx, e.Prompts.Quote, llm.Image{
		MIMEType: doc.MIMEType,
		Data:     doc.Data,
	})
	if err != nil {
		if errors.Is(err, llm.ErrRateLimited) {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	quote, err := common.ParseJSON[model.QuoteDocument](response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// The model sometimes emits filler rows with no product name; they carry
	// no matchable signal, so they are dropped rather than fed downstream.
	items := quote.Items[:0]
	for _, it := range quote.Items {
		if it.ProductName != "" {
			items = append(items, it)
		}
	}
	quote.Items = items

	if len(quote.Items) == 0 {
		return nil, fmt.Errorf("%w: no line items extracted", ErrMalformedResponse)
	}

	return &quote, nil
}
