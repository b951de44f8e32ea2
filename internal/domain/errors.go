package domain

import "errors"

var (
	// ErrTokenNotFound is returned when a token is not found
	ErrTokenNotFound = errors.New("token not found")

	// ErrCollectionNotFound is returned when no collection matches an event
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCurrencyNotFound is returned when a currency address is not registered for a network
	ErrCurrencyNotFound = errors.New("currency not found")

	// ErrMalformedEvent is returned when a raw event cannot be parsed into its canonical record
	ErrMalformedEvent = errors.New("malformed event")

	// ErrUnsupportedChainFamily is returned for a chain family without an implementation
	ErrUnsupportedChainFamily = errors.New("unsupported chain family")

	// ErrUnsupportedCategory is returned when a scanner is asked for an unknown event category
	ErrUnsupportedCategory = errors.New("unsupported event category")

	// ErrInvalidAddress is returned when an address cannot be normalized
	ErrInvalidAddress = errors.New("invalid address")
)
