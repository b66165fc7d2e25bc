package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrNotConfigured is returned when the provider API key required for an
	// asset kind has not been stored in the system configuration
	ErrNotConfigured = errors.New("provider API key not configured")

	// ErrGenerationFailed is returned when the provider rejects or fails a
	// generation request for any general reason
	ErrGenerationFailed = errors.New("failed to generate asset")

	// ErrInvalidResponse is returned when the provider response cannot be
	// parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from provider")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
