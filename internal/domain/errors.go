package domain

import "errors"

var (
	// ErrUpstreamUnavailable indicates a rate provider could not be reached
	// or returned a malformed payload. Terminal for the request; no retry.
	ErrUpstreamUnavailable = errors.New("upstream rate provider unavailable")

	// ErrUnsupportedCurrency indicates the requested currency is not in the
	// supported set or was absent from an FX provider response
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrPurchaseNotFound indicates the requested purchase does not exist
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrInvalidPurchase indicates a purchase failed domain validation
	ErrInvalidPurchase = errors.New("invalid purchase")
)
