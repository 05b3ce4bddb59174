package ledger

import "errors"

// Sentinel errors for session preconditions and the override gate.
// Handlers map these to HTTP statuses; services never wrap them beyond
// fmt.Errorf("%w: …") so errors.Is keeps working.
var (
	ErrInvalidAmount      = errors.New("amount must be a non-negative number")
	ErrSessionAlreadyOpen = errors.New("register already has an open session")
	ErrSessionNotOpen     = errors.New("session is not open")
	ErrRegisterInactive   = errors.New("register is inactive")
	ErrNotAssigned        = errors.New("register is assigned to another user")
	ErrOverrideRequired   = errors.New("override code is required")
	ErrOverrideTooShort   = errors.New("override code must be at least 4 characters")
	ErrOverrideRejected   = errors.New("override code rejected")
)
