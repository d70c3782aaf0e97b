// ABOUTME: Domain-level sentinel errors for the summary pipeline
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

// Content errors
var (
	// ErrContentNotFound indicates the requested content document does not
	// exist in the content store. Terminal for the run, never retried.
	ErrContentNotFound = errors.New("content not found")

	// ErrUnsupportedContentType indicates an unknown content kind. Upstream
	// validation should make this unreachable.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrMalformedContent indicates the fetched document does not match the
	// expected shape (e.g. body present but not block-structured).
	ErrMalformedContent = errors.New("malformed content document")
)

// Summarization errors
var (
	// ErrInvalidSummary indicates the model output does not satisfy the
	// summary schema. Retried a bounded number of times at the summarize step.
	ErrInvalidSummary = errors.New("summary does not match output contract")

	// ErrSummarizerUnavailable indicates the summarizer service is not reachable.
	ErrSummarizerUnavailable = errors.New("summarizer service unavailable")
)

// Validation errors
var (
	// ErrInvalidRequest indicates the trigger payload format is invalid
	ErrInvalidRequest = errors.New("invalid request format")

	// ErrMissingContentID indicates content_id is required but missing
	ErrMissingContentID = errors.New("content ID is required")

	// ErrMissingSlug indicates slug is required but missing
	ErrMissingSlug = errors.New("slug is required")
)

// Workflow errors
var (
	// ErrRunNotFound indicates the requested workflow run does not exist
	ErrRunNotFound = errors.New("workflow run not found")
)
