package matching

import (
	"github.com/btcsuite/btclog"
	"github.com/lightninglabs/muda/trader"
)

// LotteryClearer clears a market at an exogenous price by letting every
// block on the short side trade and drawing the winners of the long side in
// a random trader order.
type LotteryClearer struct {
	rng Shuffler
	log btclog.Logger
}

// NewLotteryClearer creates a lottery clearer that draws its trader order from
// the given source.
func NewLotteryClearer(rng Shuffler, opts ...Option) *LotteryClearer {
	o := applyOptions(opts)

	return &LotteryClearer{
		rng: rng,
		log: o.log,
	}
}

// Rule returns LotteryRule.
//
// NOTE: This is a part of the ExogenousClearer interface.
func (l *LotteryClearer) Rule() Rule {
	return LotteryRule
}

// Clear shuffles the active buyers, then the active sellers, and fills the
// short side's demand (or supply) from the long side in shuffled order. The
// whole gain is kept by the traders.
//
// NOTE: This is a part of the ExogenousClearer interface.
func (l *LotteryClearer) Clear(traders []*trader.Trader,
	price float64) (*Clearing, error) {

	activeBuyers, activeSellers := activeValuations(traders, price)

	l.rng.Shuffle(len(activeBuyers), func(i, j int) {
		activeBuyers[i], activeBuyers[j] = activeBuyers[j], activeBuyers[i]
	})
	l.rng.Shuffle(len(activeSellers), func(i, j int) {
		activeSellers[i], activeSellers[j] = activeSellers[j],
			activeSellers[i]
	})

	buyers := trader.FlattenWithIndex(activeBuyers)
	sellers := trader.FlattenWithIndex(activeSellers)

	totalDemand := trader.TotalUnits(buyers)
	totalSupply := trader.TotalUnits(sellers)

	var (
		units                   int64
		buyersGain, sellersGain float64
	)
	if totalDemand < totalSupply {
		// Buyers are short: all of them trade and the sellers are
		// rationed.
		units = totalDemand
		buyersGain = trader.GainAgainst(trader.Buyer, buyers, price)

		winners, _ := trader.Partition(sellers, units)
		sellersGain = trader.GainAgainst(trader.Seller, winners, price)
	} else {
		units = totalSupply
		sellersGain = trader.GainAgainst(trader.Seller, sellers, price)

		winners, _ := trader.Partition(buyers, units)
		buyersGain = trader.GainAgainst(trader.Buyer, winners, price)
	}

	gain := buyersGain + sellersGain

	l.log.Debugf("Lottery at price=%v: demand=%d supply=%d units=%d "+
		"gain=%v", price, totalDemand, totalSupply, units, gain)

	return &Clearing{
		Rule:        LotteryRule,
		Units:       units,
		TradersGain: gain,
		TotalGain:   gain,
	}, nil
}

// A compile-time assertion to ensure that the LotteryClearer meets the
// ExogenousClearer interface.
var _ ExogenousClearer = (*LotteryClearer)(nil)
