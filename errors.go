package bfcc

import "errors"

// Sentinel errors returned by Parse. Wrapped with fmt.Errorf ("%w") rather
// than relying on a bare fmt.Errorf fatal string, so callers can errors.Is
// instead of string-matching.
var (
	// ErrUnmatchedOpen is returned when a '[' has no matching ']' by
	// end-of-input.
	ErrUnmatchedOpen = errors.New("unmatched '['")

	// ErrUnmatchedClose is returned when a ']' appears with no open loop on
	// the parse stack.
	ErrUnmatchedClose = errors.New("unmatched ']'")
)
