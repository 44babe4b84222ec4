package domain

import (
	"context"
	"errors"
)

// ErrNoDocument is returned when a query matched no document.
var ErrNoDocument = errors.New("content: no document")

// ContentStore runs read-only queries against the headless CMS and decodes the result into out.
type ContentStore interface {
	Query(ctx context.Context, query string, out any) error
}

// MediaURLs turns asset references into display URLs. Implementations must be pure.
type MediaURLs interface {
	URLFor(ref AssetRef) (string, error)
}

// RelayResult is what the form intake endpoint reported.
type RelayResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// FormRelay forwards one submission to the external intake endpoint.
// A non-nil error means the request did not complete; endpoint refusals come back as Success=false.
type FormRelay interface {
	Submit(ctx context.Context, fields map[string]string) (RelayResult, error)
}

// SubmissionLimiter throttles form submissions per client key.
type SubmissionLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
