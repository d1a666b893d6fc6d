package models

import "errors"

var (
	// ErrInvalidSymbol is returned when a request carries no usable symbol.
	ErrInvalidSymbol = errors.New("symbol required")
	// ErrPriceUnavailable is returned when the ticker cannot be acquired.
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrNarrativeProvider marks a failed text-generation call. It is
	// recovered by the template fallback and never reaches clients.
	ErrNarrativeProvider = errors.New("narrative provider failure")
	// ErrInvalidInput is returned by the synthesizers on precondition violations.
	ErrInvalidInput = errors.New("invalid input")
)
