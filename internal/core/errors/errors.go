// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Validation errors.
var (
	// ErrInvalidASIN indicates an identifier that is not a 10-character
	// uppercase alphanumeric token. Rejected before any network or storage access.
	ErrInvalidASIN = errors.New("invalid ASIN")

	// ErrInvalidFeedback indicates a malformed feedback payload, such as a
	// rating outside the 1-5 range.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrBatchTooLarge indicates a batch request exceeding the allowed size.
	ErrBatchTooLarge = errors.New("batch too large")

	// ErrInvalidRequest indicates a malformed request body or query parameter.
	ErrInvalidRequest = errors.New("invalid request")
)

// Upstream fetch errors.
var (
	// ErrProductNotFound indicates the identifier does not exist at the source.
	ErrProductNotFound = errors.New("product not found")

	// ErrUpstreamUnreachable indicates a network-level failure reaching the source.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrUpstreamTimeout indicates the source did not respond in time.
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// ErrBlocked indicates the source answered but refused to serve the page.
	ErrBlocked = errors.New("blocked by upstream")

	// ErrExtractionFailed indicates a fetched document from which the required
	// fields could not be extracted.
	ErrExtractionFailed = errors.New("extraction failed")
)

// Generation errors.
var (
	// ErrGenerationFailed indicates the generative service returned an error
	// or exhausted its quota. Callers should retry later.
	ErrGenerationFailed = errors.New("generation failed")
)

// Storage errors.
var (
	// ErrOptimizationNotFound indicates a referenced optimization does not exist.
	ErrOptimizationNotFound = errors.New("optimization not found")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
