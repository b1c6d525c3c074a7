package trader

import (
	"fmt"
	"math"
)

// Block is a bundle of identical units inside a trader's valuation schedule.
// A buyer is willing to buy Units more units at Value per unit, given that all
// of its more valuable blocks were already consumed. For a seller, Value is
// the per-unit cost of releasing Units more units.
type Block struct {
	// Units is the number of units in the block. It must be positive.
	Units int64

	// Value is the marginal value (or cost) of a single unit.
	Value float64
}

// Worth returns the total value of all units in the block.
func (b Block) Worth() float64 {
	return float64(b.Units) * b.Value
}

// String returns the block as a (units,value) pair.
func (b Block) String() string {
	return fmt.Sprintf("(%d,%v)", b.Units, b.Value)
}

// OwnedBlock is a block that remembers which owner it was extracted from. The
// owner is a position inside the collection the block was flattened from.
type OwnedBlock struct {
	Block

	// Owner is the index of the trader the block belongs to.
	Owner int
}

// WithUnits returns a copy of the block carrying the given number of units.
// The value and the owner are preserved.
func (o OwnedBlock) WithUnits(units int64) OwnedBlock {
	return OwnedBlock{
		Block: Block{Units: units, Value: o.Value},
		Owner: o.Owner,
	}
}

// String returns the block as a (units,value,owner) triple.
func (o OwnedBlock) String() string {
	return fmt.Sprintf("(%d,%v,%d)", o.Units, o.Value, o.Owner)
}

// TotalUnits sums the units of the given blocks.
func TotalUnits(blocks []OwnedBlock) int64 {
	var total int64
	for _, b := range blocks {
		total += b.Units
	}

	return total
}

// GainAgainst returns the surplus the given blocks realize when traded at
// price. For buyers this is the sum of units*(value-price), for sellers the
// sum of units*(price-value).
func GainAgainst(side Side, blocks []OwnedBlock, price float64) float64 {
	var gain float64
	for _, b := range blocks {
		// A block with no units contributes nothing, even when the
		// price is an infinite no-trade sentinel.
		if b.Units == 0 {
			continue
		}

		switch side {
		case Buyer:
			gain += float64(b.Units) * (b.Value - price)
		case Seller:
			gain += float64(b.Units) * (price - b.Value)
		}
	}

	return gain
}

// ParseBlocks converts raw (quantity, value) pairs coming from outside the
// process into blocks. Unlike the trader constructors it validates its input:
// quantities must be positive integers and values must be finite.
func ParseBlocks(pairs [][2]float64) ([]Block, error) {
	blocks := make([]Block, 0, len(pairs))
	for i, p := range pairs {
		units, value := p[0], p[1]

		switch {
		case units <= 0 || units != math.Trunc(units):
			return nil, fmt.Errorf("%w: block %d has quantity %v, "+
				"want a positive integer", ErrInvalidBlock, i,
				units)

		case math.IsNaN(value) || math.IsInf(value, 0):
			return nil, fmt.Errorf("%w: block %d has value %v",
				ErrInvalidBlock, i, value)
		}

		blocks = append(blocks, Block{
			Units: int64(units),
			Value: value,
		})
	}

	return blocks, nil
}
