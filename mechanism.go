package muda

import (
	"fmt"

	"github.com/btcsuite/btclog"
	"github.com/lightninglabs/muda/trader"
	"github.com/lightninglabs/muda/venue/matching"
)

// Source is the random source consumed by MUDA. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a pseudo-random number in [0.0,1.0).
	Float64() float64

	matching.Shuffler
}

// RandomPartition assigns every trader, in input order, to the left
// sub-market with probability one half and to the right one otherwise. It
// draws exactly one number per trader.
func RandomPartition(rng Source, traders []*trader.Trader) ([]*trader.Trader,
	[]*trader.Trader) {

	var left, right []*trader.Trader
	for _, t := range traders {
		if rng.Float64() < 0.5 {
			left = append(left, t)
		} else {
			right = append(right, t)
		}
	}

	return left, right
}

// Mechanism runs the WALRAS and MUDA mechanisms.
type Mechanism struct {
	cfg *Config
	log btclog.Logger

	prices  matching.PriceSource
	vickrey *matching.VickreyClearer
	solver  *matching.WalrasianSolver
}

// New creates a new mechanism from the given config. A nil config means the
// default one.
func New(cfg *Config) *Mechanism {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := log
	var opts []matching.Option
	if cfg.Logger != nil {
		logger = cfg.Logger
		opts = append(opts, matching.WithLogger(cfg.Logger))
	}

	solver := matching.NewWalrasianSolver(opts...)

	return &Mechanism{
		cfg:     cfg,
		log:     logger,
		prices:  matching.NewWalrasianPrice(solver),
		vickrey: matching.NewVickreyClearer(opts...),
		solver:  solver,
	}
}

// Walras computes the competitive equilibrium of the whole market.
func (m *Mechanism) Walras(traders []*trader.Trader) (*matching.Equilibrium,
	error) {

	if len(traders) == 0 {
		return nil, ErrNoTraders
	}

	return m.solver.Solve(traders), nil
}

// MUDA splits the traders into two random sub-markets, prices each one at
// its Walrasian price and clears each one at the price of the other, first
// the left sub-market, then the right one.
//
// The random source is consumed in a fixed order: one number per trader for
// the partition, then the lottery draws of the left sub-market, then those of
// the right one. The Vickrey rule consumes nothing.
func (m *Mechanism) MUDA(traders []*trader.Trader, rng Source) (*MUDAOutcome,
	error) {

	if len(traders) == 0 {
		return nil, ErrNoTraders
	}

	leftTraders, rightTraders := RandomPartition(rng, traders)

	outcome := &MUDAOutcome{
		Left: SubMarket{
			Traders: leftTraders,
			Price:   m.prices.Price(leftTraders),
		},
		Right: SubMarket{
			Traders: rightTraders,
			Price:   m.prices.Price(rightTraders),
		},
	}

	m.log.Debugf("MUDA partition: %d traders left at price=%v, %d "+
		"traders right at price=%v", len(leftTraders),
		outcome.Left.Price, len(rightTraders), outcome.Right.Price)

	var clearers []matching.ExogenousClearer
	if m.cfg.Lottery {
		var opts []matching.Option
		if m.cfg.Logger != nil {
			opts = append(opts, matching.WithLogger(m.cfg.Logger))
		}
		clearers = append(clearers, matching.NewLotteryClearer(
			rng, opts...,
		))
	}
	if m.cfg.Vickrey {
		clearers = append(clearers, m.vickrey)
	}

	for _, sub := range []struct {
		market *SubMarket
		price  float64
	}{
		{market: &outcome.Left, price: outcome.Right.Price},
		{market: &outcome.Right, price: outcome.Left.Price},
	} {
		for _, clearer := range clearers {
			clearing, err := clearer.Clear(
				sub.market.Traders, sub.price,
			)
			if err != nil {
				return nil, fmt.Errorf("unable to clear "+
					"sub-market with %v rule: %w",
					clearer.Rule(), err)
			}

			switch clearer.Rule() {
			case matching.LotteryRule:
				sub.market.Lottery = clearing

			case matching.VickreyRule:
				sub.market.Vickrey = clearing
			}
		}
	}

	if m.cfg.Lottery {
		outcome.Lottery = sumLottery(
			outcome.Left.Lottery, outcome.Right.Lottery,
		)
	}
	if m.cfg.Vickrey {
		outcome.Vickrey = sumVickrey(
			outcome.Left.Vickrey, outcome.Right.Vickrey,
		)
	}

	return outcome, nil
}

// Walras computes the competitive equilibrium of the whole market with a
// default mechanism.
func Walras(traders []*trader.Trader) (*matching.Equilibrium, error) {
	return New(nil).Walras(traders)
}

// MUDA runs the MUDA mechanism with the given rules enabled.
func MUDA(traders []*trader.Trader, rng Source, lottery,
	vickrey bool) (*MUDAOutcome, error) {

	return New(&Config{Lottery: lottery, Vickrey: vickrey}).MUDA(
		traders, rng,
	)
}
