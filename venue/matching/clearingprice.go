package matching

import "github.com/lightninglabs/muda/trader"

// WalrasianPrice is a price source that selects the competitive equilibrium
// price of the given traders.
type WalrasianPrice struct {
	solver *WalrasianSolver
}

// NewWalrasianPrice creates a price source backed by the given solver. A nil
// solver means a default one.
func NewWalrasianPrice(solver *WalrasianSolver) *WalrasianPrice {
	if solver == nil {
		solver = NewWalrasianSolver()
	}

	return &WalrasianPrice{
		solver: solver,
	}
}

// Price returns the Walrasian equilibrium price of the traders, which is
// NoPrice if the market has no supply.
//
// NOTE: This is a part of the PriceSource interface.
func (w *WalrasianPrice) Price(traders []*trader.Trader) float64 {
	return w.solver.Solve(traders).Price
}

// A compile-time assertion to ensure that the WalrasianPrice meets the
// PriceSource interface.
var _ PriceSource = (*WalrasianPrice)(nil)

// FixedPrice is a price source that always returns the same price. It is
// mostly useful to clear a market at a price chosen by an operator.
type FixedPrice float64

// Price returns the fixed price.
//
// NOTE: This is a part of the PriceSource interface.
func (f FixedPrice) Price([]*trader.Trader) float64 {
	return float64(f)
}

// A compile-time assertion to ensure that the FixedPrice meets the
// PriceSource interface.
var _ PriceSource = FixedPrice(0)
