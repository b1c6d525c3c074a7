package matching

import (
	"fmt"

	"github.com/lightninglabs/muda/trader"
)

// Rule identifies an exogenous-price clearing rule.
type Rule uint8

const (
	// LotteryRule rations the long side of the market at random.
	LotteryRule Rule = iota

	// VickreyRule auctions the long side of the market and charges each
	// winner the externality it imposes on the losers.
	VickreyRule
)

// String returns a human readable name of the rule.
func (r Rule) String() string {
	switch r {
	case LotteryRule:
		return "lottery"

	case VickreyRule:
		return "vickrey"

	default:
		return fmt.Sprintf("Rule(%d)", r)
	}
}

// Payment is the settlement of a single winning owner under the Vickrey rule.
type Payment struct {
	// Side is the side of the market the winner trades on.
	Side trader.Side

	// Owner is the position of the winner among the traders of its side,
	// in input order.
	Owner int

	// Units is the number of units the winner trades.
	Units int64

	// Proceeds is what the winner would pay or receive at the exogenous
	// price.
	Proceeds float64

	// Amount is what the winner actually pays (buyer) or receives
	// (seller).
	Amount float64
}

// Clearing is the outcome of clearing a market at an exogenous price.
type Clearing struct {
	// Rule is the rule that produced the outcome.
	Rule Rule

	// Units is the number of units traded. It always equals the size of
	// the short side of the market.
	Units int64

	// TradersGain is the gain collected by the traders.
	TradersGain float64

	// ManagerGain is the gain kept by the market manager. It is always
	// zero under the lottery rule.
	ManagerGain float64

	// TotalGain is the sum of TradersGain and ManagerGain.
	TotalGain float64

	// Payments lists the Vickrey settlement of every winning owner in the
	// order in which the winners appear. It is empty for the lottery
	// rule.
	Payments []Payment
}

// ExogenousClearer is an interface that allows a mechanism to clear a market
// at a price that was computed from somewhere else. Only blocks that strictly
// want to trade at the price take part.
type ExogenousClearer interface {
	// Rule returns the rule implemented by the clearer.
	Rule() Rule

	// Clear clears the given traders at the given price.
	Clear(traders []*trader.Trader, price float64) (*Clearing, error)
}

// PriceSource is an interfaces that allows a mechanism to determine the
// price that one sub-market imposes on another.
type PriceSource interface {
	// Price returns a single uniform price for the given traders.
	Price(traders []*trader.Trader) float64
}

// Shuffler is the subset of a random source the lottery rule needs.
// *rand.Rand satisfies it.
type Shuffler interface {
	// Shuffle pseudo-randomizes the order of n elements through the swap
	// function.
	Shuffle(n int, swap func(i, j int))
}

// activeValuations returns, for each side, the per-trader lists of blocks
// that want to trade at the given price. Traders without active blocks are
// kept as empty lists so that list positions match input positions.
func activeValuations(traders []*trader.Trader,
	price float64) ([][]trader.Block, [][]trader.Block) {

	var buyers, sellers [][]trader.Block
	for _, t := range traders {
		active := t.ActiveAt(price)
		if t.IsBuyer() {
			buyers = append(buyers, active)
		} else {
			sellers = append(sellers, active)
		}
	}

	return buyers, sellers
}
