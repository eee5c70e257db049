// Package corerr defines the sentinel error kinds shared by every core
// package: malformed notation, invariant breaks, actions illegal in the
// current state, and replies outside the legal-move set.
package corerr

import "errors"

// Sentinel kinds. Wrap these with fmt.Errorf("%w: ...", Kind) at call
// sites: one sentinel per failure mode instead of a single generic
// error, so callers can classify a failure with errors.Is.
var (
	// ErrInvalidNotation marks a malformed tile or meld token.
	ErrInvalidNotation = errors.New("invalid notation")

	// ErrInvariantViolation marks an operation that would leave a tile
	// count negative, a tile count above four, or a hand at the wrong
	// size.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrIllegalAction marks an operation not permitted in the current
	// state (draw from a closed wall, riichi on an open hand, pon after
	// riichi, ...).
	ErrIllegalAction = errors.New("illegal action")

	// ErrInvalidReply marks an agent reply outside the legal-move set
	// offered for the current state.
	ErrInvalidReply = errors.New("invalid reply")
)
