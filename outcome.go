package muda

import (
	"github.com/lightninglabs/muda/trader"
	"github.com/lightninglabs/muda/venue/matching"
)

// LotteryOutcome is the aggregate MUDA outcome under the lottery rule.
type LotteryOutcome struct {
	// Units is the number of units traded across both sub-markets.
	Units int64

	// Gain is the gain from trade across both sub-markets, all of which
	// is kept by the traders.
	Gain float64
}

// VickreyOutcome is the aggregate MUDA outcome under the Vickrey rule.
type VickreyOutcome struct {
	// Units is the number of units traded across both sub-markets.
	Units int64

	// TradersGain is the gain kept by the traders.
	TradersGain float64

	// ManagerGain is the signed gain kept by the market manager.
	ManagerGain float64

	// TotalGain is TradersGain plus ManagerGain.
	TotalGain float64
}

// SubMarket is one half of a MUDA partition.
type SubMarket struct {
	// Traders are the traders assigned to this sub-market, in input
	// order.
	Traders []*trader.Trader

	// Price is the Walrasian price of this sub-market. The other
	// sub-market is cleared at it.
	Price float64

	// Lottery is the lottery clearing of this sub-market at the other
	// sub-market's price. It is nil if the lottery rule is disabled.
	Lottery *matching.Clearing

	// Vickrey is the Vickrey clearing of this sub-market at the other
	// sub-market's price. It is nil if the Vickrey rule is disabled.
	Vickrey *matching.Clearing
}

// MUDAOutcome is the result of running the MUDA mechanism.
type MUDAOutcome struct {
	// Left and Right are the two sub-markets.
	Left, Right SubMarket

	// Lottery sums the lottery clearings of both sub-markets. It is nil
	// if the lottery rule is disabled.
	Lottery *LotteryOutcome

	// Vickrey sums the Vickrey clearings of both sub-markets. It is nil
	// if the Vickrey rule is disabled.
	Vickrey *VickreyOutcome
}

func sumLottery(clearings ...*matching.Clearing) *LotteryOutcome {
	outcome := &LotteryOutcome{}
	for _, c := range clearings {
		outcome.Units += c.Units
		outcome.Gain += c.TotalGain
	}

	return outcome
}

func sumVickrey(clearings ...*matching.Clearing) *VickreyOutcome {
	outcome := &VickreyOutcome{}
	for _, c := range clearings {
		outcome.Units += c.Units
		outcome.TradersGain += c.TradersGain
		outcome.ManagerGain += c.ManagerGain
		outcome.TotalGain += c.TotalGain
	}

	return outcome
}
