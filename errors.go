package muda

import "errors"

var (
	// ErrNoTraders is returned by the mechanism drivers if they're handed
	// an empty set of traders. An empty market is a caller error, while a
	// market that legitimately doesn't trade yields a zero outcome.
	ErrNoTraders = errors.New("empty trader set supplied where a " +
		"non-empty set was required")
)
