package matching

import (
	"github.com/btcsuite/btclog"
	"github.com/lightninglabs/muda/trader"
)

// Loser is a block that did not win in a Vickrey auction. It is either a
// block owned by a trader or the reserve: the market manager standing in at
// the exogenous price with an unlimited number of units.
type Loser struct {
	block   trader.OwnedBlock
	reserve bool
}

// OwnerLoser wraps a losing block owned by a trader.
func OwnerLoser(block trader.OwnedBlock) Loser {
	return Loser{block: block}
}

// ReserveLoser returns the reserve loser at the given price.
func ReserveLoser(price float64) Loser {
	return Loser{
		block:   trader.OwnedBlock{Block: trader.Block{Value: price}},
		reserve: true,
	}
}

// IsReserve returns true if the loser is the reserve.
func (l Loser) IsReserve() bool {
	return l.reserve
}

// Owner returns the owner of the losing block. The second return value is
// false for the reserve, which has no owner.
func (l Loser) Owner() (int, bool) {
	if l.reserve {
		return 0, false
	}

	return l.block.Owner, true
}

// Value returns the per-unit value of the losing block.
func (l Loser) Value() float64 {
	return l.block.Value
}

// Units returns the units of the losing block. The second return value is
// false for the reserve, whose supply is unlimited.
func (l Loser) Units() (int64, bool) {
	if l.reserve {
		return 0, false
	}

	return l.block.Units, true
}

// covers returns true if the loser alone can back out the given units.
func (l Loser) covers(units int64) bool {
	return l.reserve || units <= l.block.Units
}

// WinnerPayment computes what a winner owes (or is owed) in a Vickrey
// auction: the value of the units the losers would have traded had the
// winner not been there. Losers are walked in order and those owned by the
// winner itself are skipped.
func WinnerPayment(winner int, units int64, losers []Loser) (float64, error) {
	var payment float64
	for _, l := range losers {
		if units == 0 {
			return payment, nil
		}

		if owner, ok := l.Owner(); ok && owner == winner {
			continue
		}

		if l.covers(units) {
			return payment + float64(units)*l.Value(), nil
		}

		payment += l.block.Worth()
		units -= l.block.Units
	}

	if units == 0 {
		return payment, nil
	}

	return payment, ErrLosersExhausted
}

// VickreyClearer clears a market at an exogenous price by letting every
// block on the short side trade and running a Vickrey-Clarke-Groves auction
// on the long side.
type VickreyClearer struct {
	log btclog.Logger
}

// NewVickreyClearer creates a new Vickrey clearer.
func NewVickreyClearer(opts ...Option) *VickreyClearer {
	o := applyOptions(opts)

	return &VickreyClearer{
		log: o.log,
	}
}

// Rule returns VickreyRule.
//
// NOTE: This is a part of the ExogenousClearer interface.
func (v *VickreyClearer) Rule() Rule {
	return VickreyRule
}

// Clear lets the short side trade entirely at the price and sells (or buys)
// its units to the best blocks of the long side. Winners settle at their
// Vickrey payment and the difference to the price goes to the manager.
//
// NOTE: This is a part of the ExogenousClearer interface.
func (v *VickreyClearer) Clear(traders []*trader.Trader,
	price float64) (*Clearing, error) {

	activeBuyers, activeSellers := activeValuations(traders, price)
	buyers := trader.FlattenWithIndex(activeBuyers)
	sellers := trader.FlattenWithIndex(activeSellers)

	totalDemand := trader.TotalUnits(buyers)
	totalSupply := trader.TotalUnits(sellers)

	var (
		units               int64
		shortSide, longSide trader.Side
		short, long         []trader.OwnedBlock
		ordering            trader.Ordering
	)
	if totalDemand < totalSupply {
		// Buyers are short, so the cheapest sellers win.
		units = totalDemand
		shortSide, longSide = trader.Buyer, trader.Seller
		short, long = buyers, sellers
		ordering = trader.Ascending
	} else {
		units = totalSupply
		shortSide, longSide = trader.Seller, trader.Buyer
		short, long = sellers, buyers
		ordering = trader.Descending
	}

	winners, losers := trader.SortByValue(long, ordering).Partition(units)

	loserList := make([]Loser, 0, losers.Len()+1)
	for _, b := range losers.Blocks() {
		loserList = append(loserList, OwnerLoser(b))
	}
	loserList = append(loserList, ReserveLoser(price))

	winningBlocks := winners.Blocks()
	result := &Clearing{
		Rule:  VickreyRule,
		Units: units,
	}
	for _, w := range trader.UnitsByOwner(winningBlocks) {
		amount, err := WinnerPayment(w.Owner, w.Units, loserList)
		if err != nil {
			return nil, err
		}

		proceeds := price * float64(w.Units)
		if longSide == trader.Seller {
			result.ManagerGain += proceeds - amount
		} else {
			result.ManagerGain += amount - proceeds
		}

		result.Payments = append(result.Payments, Payment{
			Side:     longSide,
			Owner:    w.Owner,
			Units:    w.Units,
			Proceeds: proceeds,
			Amount:   amount,
		})

		v.log.Tracef("Vickrey %v %d wins %d units, pays %v instead "+
			"of %v", longSide, w.Owner, w.Units, amount, proceeds)
	}

	result.TotalGain = trader.GainAgainst(shortSide, short, price) +
		trader.GainAgainst(longSide, winningBlocks, price)
	result.TradersGain = result.TotalGain - result.ManagerGain

	v.log.Debugf("Vickrey at price=%v: demand=%d supply=%d units=%d "+
		"traders_gain=%v manager_gain=%v", price, totalDemand,
		totalSupply, units, result.TradersGain, result.ManagerGain)

	return result, nil
}

// A compile-time assertion to ensure that the VickreyClearer meets the
// ExogenousClearer interface.
var _ ExogenousClearer = (*VickreyClearer)(nil)
