package trader

import "errors"

var (
	// ErrInvalidBlock is returned by ParseBlocks if a raw valuation pair
	// can't be turned into a block.
	ErrInvalidBlock = errors.New("invalid valuation block")
)
