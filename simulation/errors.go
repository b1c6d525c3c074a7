package simulation

import (
	"errors"
)

var (
	// ErrEmptyAuction is returned if an auction without any traders is
	// handed to the simulator.
	ErrEmptyAuction = errors.New("auction has no traders")

	// ErrInvalidRandomConfig is returned if a random auction config can't
	// produce any valuation.
	ErrInvalidRandomConfig = errors.New("invalid random auction config")

	// ErrInvalidOrder is returned if a row of an order-book file can't be
	// turned into an order.
	ErrInvalidOrder = errors.New("invalid order")
)
