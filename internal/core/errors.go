package core

import "errors"

// Failure taxonomy shared by the Ledger and the Workflow Engine. Every failed
// operation returns one of these (usually wrapped with context); callers match
// with errors.Is. A failure never leaves a partial state change behind — the
// relink compensation in the engine exists to uphold that.
var (
	// ErrNotFound: a referenced warehouse item, service, or user does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrOutOfStock: a reservation was attempted against an item with no
	// available stock. Creation/relink aborts with no state change.
	ErrOutOfStock = errors.New("item out of stock")

	// ErrNegativeStock: a stock adjustment would drive the count below zero.
	// Rejected unconditionally, never clamped.
	ErrNegativeStock = errors.New("stock cannot go negative")

	// ErrInvalidStatus: a status value outside pending/in_progress/completed.
	ErrInvalidStatus = errors.New("invalid service status")

	// ErrUserNotApproved: the referenced user is missing from the roster or
	// not approved for assignments.
	ErrUserNotApproved = errors.New("user not approved")

	// ErrInvalidCredentials: login failed (bad credentials or unknown user).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden: the acting user may not perform this operation.
	ErrForbidden = errors.New("operation not permitted")
)
