package domain

import "errors"

// Sentinel errors shared by the member registry and the admission ledger.
// Callers match them with errors.Is; services wrap them with context.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrHandleAlreadySet  = errors.New("handle already set")
	ErrHandleTaken       = errors.New("handle already taken")
	ErrCapacityExceeded  = errors.New("event capacity exceeded")
	ErrPaymentRequired   = errors.New("payment required")
	ErrCheckInDisabled   = errors.New("check-in disabled")
	ErrInvalidTransition = errors.New("invalid attendance transition")
	ErrTokenUnavailable  = errors.New("identity token unavailable")
	ErrInvalidToken      = errors.New("invalid identity token")
)
