package matching

import (
	"math"

	"github.com/btcsuite/btclog"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightninglabs/muda/trader"
)

// NoPrice is the price reported by the Walrasian solver when the price never
// left its starting point, which happens if the market has no supply to
// descend through. A market with sellers but no buyers is priced at the cost
// of the last seller block to leave.
var NoPrice = math.Inf(1)

// Allocation is the share of an equilibrium trade held by a single owner.
type Allocation struct {
	// Owner is the position of the trader in the solver's input.
	Owner int

	// Units is the number of units the owner trades.
	Units int64

	// Value is the realized value (for a buyer) or cost (for a seller) of
	// the traded units.
	Value float64
}

// Equilibrium is the outcome of the Walrasian (competitive) equilibrium
// computation.
type Equilibrium struct {
	// Price is the equilibrium price. It is NoPrice if the market has
	// no supply.
	Price float64

	// NumBuyers is the number of buyers that trade a positive amount.
	NumBuyers int

	// NumSellers is the number of sellers that trade a positive amount.
	NumSellers int

	// Units is the total number of units traded.
	Units int64

	// Gain is the gain from trade: the buyers' realized value minus the
	// sellers' realized cost.
	Gain float64

	// BuyerAllocations lists every buyer that trades, in the order in
	// which they entered the market.
	BuyerAllocations []Allocation

	// SellerAllocations lists every seller that trades, in input order.
	SellerAllocations []Allocation
}

// HasTrade returns true if the equilibrium found a finite price at which a
// positive amount of units is traded.
func (e *Equilibrium) HasTrade() bool {
	return e.Units > 0 && !math.IsInf(e.Price, 0)
}

// WalrasianSolver computes competitive equilibria by descending the price
// from infinity: at every step either the most valuable remaining buyer block
// enters the market or the most expensive remaining seller block leaves it,
// until demand meets supply.
type WalrasianSolver struct {
	log btclog.Logger
}

// NewWalrasianSolver creates a new solver.
func NewWalrasianSolver(opts ...Option) *WalrasianSolver {
	o := applyOptions(opts)

	return &WalrasianSolver{
		log: o.log,
	}
}

// Solve computes the Walrasian equilibrium of the given traders. An empty
// market yields an equilibrium with NoPrice and no trade.
func (w *WalrasianSolver) Solve(traders []*trader.Trader) *Equilibrium {
	buyerBlocks, sellerBlocks := trader.SplitBySideOwned(traders)

	buyers := trader.NewStack(
		trader.SortByValue(buyerBlocks, trader.Ascending),
	)
	sellers := trader.NewStack(
		trader.SortByValue(sellerBlocks, trader.Ascending),
	)

	w.log.Tracef("Solving equilibrium for buyers=%v sellers=%v",
		newLogClosure(func() string {
			return spew.Sdump(buyerBlocks)
		}), newLogClosure(func() string {
			return spew.Sdump(sellerBlocks)
		}))

	var demand int64
	price := NoPrice

	// supply starts out as everything the sellers have to offer and
	// shrinks as the expensive seller blocks drop out.
	supply := trader.TotalUnits(sellerBlocks)

	bought := newAllocationBook()
	sold := newAllocationBook()
	for _, s := range sellerBlocks {
		sold.add(s.Owner, s.Units, s.Value)
	}

	for demand < supply {
		seller, ok := sellers.Peek()
		if !ok {
			// The seller stack always backs the current supply,
			// so this only happens on malformed (non-positive)
			// quantities.
			break
		}

		buyerValue := math.Inf(-1)
		buyer, haveBuyer := buyers.Peek()
		if haveBuyer {
			buyerValue = buyer.Value
		}

		// On a tie the buyer enters first.
		if buyerValue >= seller.Value {
			price = buyer.Value

			units := buyer.Units
			if demand+units > supply {
				units = supply - demand
			}

			demand += units
			bought.add(buyer.Owner, units, buyer.Value)
			buyers.Pop()

			w.log.Tracef("Buyer %d enters with %d units at %v "+
				"(demand=%d, supply=%d)", buyer.Owner, units,
				buyer.Value, demand, supply)

			continue
		}

		// The most expensive seller block leaves the market. It leaves
		// entirely, unless that would push supply below demand, in
		// which case only the excess is withdrawn.
		price = seller.Value

		units := seller.Units
		if demand > supply-seller.Units {
			units = supply - demand
		}

		supply -= units
		sold.add(seller.Owner, -units, seller.Value)
		sellers.Pop()

		w.log.Tracef("Seller %d exits with %d units at %v "+
			"(demand=%d, supply=%d)", seller.Owner, units,
			seller.Value, demand, supply)
	}

	eq := &Equilibrium{
		Price:             price,
		Units:             demand,
		BuyerAllocations:  bought.positive(),
		SellerAllocations: sold.positive(),
	}
	eq.NumBuyers = len(eq.BuyerAllocations)
	eq.NumSellers = len(eq.SellerAllocations)

	for _, a := range eq.BuyerAllocations {
		eq.Gain += a.Value
	}
	for _, a := range eq.SellerAllocations {
		eq.Gain -= a.Value
	}

	w.log.Debugf("Equilibrium price=%v buyers=%d sellers=%d units=%d "+
		"gain=%v", eq.Price, eq.NumBuyers, eq.NumSellers, eq.Units,
		eq.Gain)

	return eq
}

// WalrasianEquilibrium computes the Walrasian equilibrium of the given
// traders with a default solver.
func WalrasianEquilibrium(traders []*trader.Trader) *Equilibrium {
	return NewWalrasianSolver().Solve(traders)
}

// allocationBook accumulates units and value per owner while remembering the
// order in which owners were first seen.
type allocationBook struct {
	entries []Allocation
	pos     map[int]int
}

func newAllocationBook() *allocationBook {
	return &allocationBook{
		pos: make(map[int]int),
	}
}

// add books units at the given per-unit value to the owner. Negative units
// take units away.
func (a *allocationBook) add(owner int, units int64, value float64) {
	if units == 0 {
		return
	}

	i, ok := a.pos[owner]
	if !ok {
		i = len(a.entries)
		a.pos[owner] = i
		a.entries = append(a.entries, Allocation{Owner: owner})
	}

	a.entries[i].Units += units
	a.entries[i].Value += float64(units) * value
}

// positive returns the allocations that hold a positive number of units.
func (a *allocationBook) positive() []Allocation {
	var result []Allocation
	for _, e := range a.entries {
		if e.Units > 0 {
			result = append(result, e)
		}
	}

	return result
}
