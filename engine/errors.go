package engine

import "errors"

// Sentinel errors returned by the engine package (spec.md §7 error-handling
// design): callers match with errors.Is rather than string comparison.
var (
	// ErrInvalidFen is wrapped by PositionFromFEN when the input cannot be
	// parsed as Forsyth-Edwards Notation.
	ErrInvalidFen = errors.New("invalid FEN")

	// ErrInvalidMove is returned when a move string (UCI or SAN) does not
	// parse. SANToMove also returns it when no legal move in the given
	// position matches; UCIToMove does not check legality.
	ErrInvalidMove = errors.New("invalid move")

	// ErrConfiguration is returned by setOption-style configuration calls
	// given an unknown option name or an out-of-range value.
	ErrConfiguration = errors.New("invalid configuration")
)
