package llm

import (
	"context"
	"errors"
)

// ErrRateLimited is returned by clients when the provider throttled the
// request. Callers surface it with a retry hint; nothing in this codebase
// retries automatically, since repeated vision calls are costly and
// non-idempotent in content.
var ErrRateLimited = errors.New("llm provider rate limited")

// Image is an inline document image sent alongside a prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionClient generates from a prompt plus a document image. All provider
// clients in this package implement it.
type VisionClient interface {
	LLMClient
	GenerateVision(ctx context.Context, prompt string, img Image) (string, error)
}
