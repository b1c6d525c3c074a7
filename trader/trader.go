package trader

import (
	"sort"
	"strings"
)

// Side tells whether a trader wants to buy or sell units of the good.
type Side uint8

const (
	// Buyer is a trader that pays for units.
	Buyer Side = iota

	// Seller is a trader that gets paid for releasing units.
	Seller
)

// String returns a human readable version of the side.
func (s Side) String() string {
	switch s {
	case Buyer:
		return "buyer"
	case Seller:
		return "seller"
	default:
		return "unknown"
	}
}

// Option is a functional option that modifies a trader during construction.
type Option func(*Trader)

// WithIndex attaches a stable identity index to the trader.
func WithIndex(index int) Option {
	return func(t *Trader) {
		t.index = index
		t.indexed = true
	}
}

// Trader is a multi-unit market participant whose valuation has decreasing
// marginal returns: every additional unit is worth less to a buyer, and costs
// more to a seller, than the previous one.
//
// A trader is immutable once constructed. All queries are read-only.
type Trader struct {
	side Side

	// blocks is ordered by decreasing value for a buyer and by increasing
	// value for a seller, so that the most attractive unit always comes
	// first.
	blocks []Block

	index   int
	indexed bool
}

// New creates a trader on the given side. The blocks are copied and sorted so
// that the decreasing marginal returns ordering holds regardless of the order
// they were passed in.
func New(side Side, blocks []Block, opts ...Option) *Trader {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		if side == Buyer {
			return sorted[i].Value > sorted[j].Value
		}

		return sorted[i].Value < sorted[j].Value
	})

	t := &Trader{
		side:   side,
		blocks: sorted,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// NewBuyer is a helper that creates a buyer.
func NewBuyer(blocks []Block, opts ...Option) *Trader {
	return New(Buyer, blocks, opts...)
}

// NewSeller is a helper that creates a seller.
func NewSeller(blocks []Block, opts ...Option) *Trader {
	return New(Seller, blocks, opts...)
}

// Side returns the side of the market the trader is on.
func (t *Trader) Side() Side {
	return t.side
}

// IsBuyer returns true if the trader is a buyer.
func (t *Trader) IsBuyer() bool {
	return t.side == Buyer
}

// Index returns the identity index of the trader, if one was attached.
func (t *Trader) Index() (int, bool) {
	return t.index, t.indexed
}

// Blocks returns a copy of the trader's blocks in their DMR order.
func (t *Trader) Blocks() []Block {
	blocks := make([]Block, len(t.blocks))
	copy(blocks, t.blocks)

	return blocks
}

// TotalUnits returns the total number of units the trader demands or offers.
func (t *Trader) TotalUnits() int64 {
	var total int64
	for _, b := range t.blocks {
		total += b.Units
	}

	return total
}

// ValueOf returns the total value of the first n blocks. n is clamped to
// the number of blocks the trader has.
func (t *Trader) ValueOf(n int) float64 {
	switch {
	case n < 0:
		n = 0
	case n > len(t.blocks):
		n = len(t.blocks)
	}

	var value float64
	for _, b := range t.blocks[:n] {
		value += b.Worth()
	}

	return value
}

// AbovePrice returns the blocks whose value is strictly above price. Blocks
// valued exactly at the price are excluded.
func (t *Trader) AbovePrice(price float64) []Block {
	var blocks []Block
	for _, b := range t.blocks {
		if b.Value > price {
			blocks = append(blocks, b)
		}
	}

	return blocks
}

// BelowPrice returns the blocks whose value is strictly below price. Blocks
// valued exactly at the price are excluded.
func (t *Trader) BelowPrice(price float64) []Block {
	var blocks []Block
	for _, b := range t.blocks {
		if b.Value < price {
			blocks = append(blocks, b)
		}
	}

	return blocks
}

// Demand returns the number of units the trader wants to buy at price.
func (t *Trader) Demand(price float64) int64 {
	return sumUnits(t.AbovePrice(price))
}

// DemandValue returns the total value of the units demanded at price.
func (t *Trader) DemandValue(price float64) float64 {
	return sumWorth(t.AbovePrice(price))
}

// Supply returns the number of units the trader wants to sell at price.
func (t *Trader) Supply(price float64) int64 {
	return sumUnits(t.BelowPrice(price))
}

// SupplyValue returns the total cost of the units supplied at price.
func (t *Trader) SupplyValue(price float64) float64 {
	return sumWorth(t.BelowPrice(price))
}

// ActiveAt returns the blocks that want to trade at the given exogenous
// price: blocks above the price for a buyer, below the price for a seller.
func (t *Trader) ActiveAt(price float64) []Block {
	if t.side == Buyer {
		return t.AbovePrice(price)
	}

	return t.BelowPrice(price)
}

// String returns a compact representation such as B[(3,200) (4,150)].
func (t *Trader) String() string {
	var b strings.Builder
	if t.side == Buyer {
		b.WriteString("B[")
	} else {
		b.WriteString("S[")
	}
	for i, block := range t.blocks {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(block.String())
	}
	b.WriteString("]")

	return b.String()
}

func sumUnits(blocks []Block) int64 {
	var total int64
	for _, b := range blocks {
		total += b.Units
	}

	return total
}

func sumWorth(blocks []Block) float64 {
	var total float64
	for _, b := range blocks {
		total += b.Worth()
	}

	return total
}
