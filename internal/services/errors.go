package services

import "errors"

// Service errors
var (
	// Trader errors
	ErrTraderNotFound = errors.New("trader not found")
	ErrNoTrades       = errors.New("no trades in range")
	ErrNoGroups       = errors.New("no trade groups in range")

	// Filter errors
	ErrInvalidRange  = errors.New("invalid date range")
	ErrUnknownPreset = errors.New("unknown date range preset")

	// Navigation errors
	ErrInvalidAction = errors.New("invalid navigation action")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
