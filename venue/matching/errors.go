package matching

import "fmt"

var (
	// ErrLosersExhausted is returned by WinnerPayment if the loser list
	// runs out before the winner's units are backed out. A list ending in
	// a reserve loser can never trigger it.
	ErrLosersExhausted = fmt.Errorf("loser list exhausted before all " +
		"winning units were priced")
)
