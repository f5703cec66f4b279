package domain

import "errors"

var (
	// ErrDataUnavailable signals that the catalog source is missing or unreadable.
	ErrDataUnavailable = errors.New("catalog data unavailable")
	// ErrInvalidCategory signals an unknown category label.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidRequest signals a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrProviderError signals a failure reported by an external provider.
	ErrProviderError = errors.New("external provider error")
	// ErrProviderUnavailable signals that calls to a provider are suspended (circuit open).
	ErrProviderUnavailable = errors.New("external provider unavailable")
	// ErrTokenBudgetExceeded signals an exhausted generative model token budget.
	ErrTokenBudgetExceeded = errors.New("token budget exceeded")
	// ErrNotConfigured signals a feature whose backing provider is not configured.
	ErrNotConfigured = errors.New("feature not configured")
)
