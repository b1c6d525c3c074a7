package simulation

import (
	"math"

	"github.com/lightninglabs/muda"
	"github.com/lightninglabs/muda/venue/matching"
)

// Row is one line of the simulation result table.
type Row struct {
	ID string

	TotalBuyers     int
	TotalSellers    int
	TotalTraders    int
	MinTotalTraders int
	TotalUnits      int64

	MaxUnitsPerTrader  int64
	MinUnitsPerTrader  int64
	NormalizedMaxUnits float64

	// StdDev is the square root of the sum of the squared per-trader
	// units.
	StdDev float64

	OptimalBuyers  int
	OptimalSellers int
	OptimalUnits   int64
	OptimalGain    float64

	LotteryUnits int64
	LotteryGain  float64

	VickreyUnits       int64
	VickreyTradersGain float64
	VickreyTotalGain   float64
}

// NewRow summarizes an auction and the outcomes of running WALRAS and MUDA
// on it. A nil MUDA rule outcome leaves its columns at zero.
func NewRow(auction *Auction, optimal *matching.Equilibrium,
	outcome *muda.MUDAOutcome) *Row {

	row := &Row{
		ID:             auction.ID,
		TotalTraders:   len(auction.Traders),
		OptimalBuyers:  optimal.NumBuyers,
		OptimalSellers: optimal.NumSellers,
		OptimalUnits:   optimal.Units,
		OptimalGain:    optimal.Gain,
	}

	var squares float64
	for i, t := range auction.Traders {
		if t.IsBuyer() {
			row.TotalBuyers++
		} else {
			row.TotalSellers++
		}

		units := t.TotalUnits()
		row.TotalUnits += units
		squares += float64(units) * float64(units)

		if i == 0 || units > row.MaxUnitsPerTrader {
			row.MaxUnitsPerTrader = units
		}
		if i == 0 || units < row.MinUnitsPerTrader {
			row.MinUnitsPerTrader = units
		}
	}

	row.MinTotalTraders = row.TotalBuyers
	if row.TotalSellers < row.MinTotalTraders {
		row.MinTotalTraders = row.TotalSellers
	}

	minUnits := row.MinUnitsPerTrader
	if minUnits < 1 {
		minUnits = 1
	}
	row.NormalizedMaxUnits = float64(row.MaxUnitsPerTrader) /
		float64(minUnits)
	row.StdDev = math.Sqrt(squares)

	if outcome == nil {
		return row
	}
	if outcome.Lottery != nil {
		row.LotteryUnits = outcome.Lottery.Units
		row.LotteryGain = outcome.Lottery.Gain
	}
	if outcome.Vickrey != nil {
		row.VickreyUnits = outcome.Vickrey.Units
		row.VickreyTradersGain = outcome.Vickrey.TradersGain
		row.VickreyTotalGain = outcome.Vickrey.TotalGain
	}

	return row
}

// Simulate runs WALRAS and MUDA on the auction and returns its result row.
func Simulate(mechanism *muda.Mechanism, auction *Auction,
	rng muda.Source) (*Row, error) {

	if len(auction.Traders) == 0 {
		return nil, ErrEmptyAuction
	}

	optimal, err := mechanism.Walras(auction.Traders)
	if err != nil {
		return nil, err
	}

	outcome, err := mechanism.MUDA(auction.Traders, rng)
	if err != nil {
		return nil, err
	}

	return NewRow(auction, optimal, outcome), nil
}

