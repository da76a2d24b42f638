package funding

import "errors"

// Rejection reasons for a funding attempt. Every one of them leaves both the
// account and the request untouched; handlers match with errors.Is.
var (
	// ErrActorNotFound means the session's username no longer resolves to an account.
	ErrActorNotFound = errors.New("funding account not found")
	// ErrRequestNotFound means the target RTI request does not exist.
	ErrRequestNotFound = errors.New("rti request not found")
	// ErrMissingAmount means no amount was supplied.
	ErrMissingAmount = errors.New("funding amount is required")
	// ErrInvalidAmount means the supplied amount is not a whole number.
	ErrInvalidAmount = errors.New("funding amount must be a whole number")
	// ErrBelowMinimum means the amount is under the minimum pledge.
	ErrBelowMinimum = errors.New("funding amount is below the minimum pledge")
	// ErrInsufficientCredits means the actor's balance cannot cover the amount.
	ErrInsufficientCredits = errors.New("not enough credits to fund this amount")
	// ErrTransientConflict means concurrent writers kept winning the
	// conditional saves; the caller may simply retry.
	ErrTransientConflict = errors.New("funding conflicted with a concurrent update")
	// ErrStoreUnavailable wraps store I/O failures.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)
