package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lightninglabs/muda/trader"
)

// RandomConfig describes the random auctions to generate.
type RandomConfig struct {
	Traders   int     `long:"traders" description:"Number of buyers (and of sellers) per auction, or number of units per side if fixedvirtualunits is set"`
	MinUnits  int64   `long:"minunits" description:"Number of units that share the same marginal value"`
	MaxUnits  int64   `long:"maxunits" description:"Number of units per trader"`
	MeanValue float64 `long:"meanvalue" description:"Mean marginal value per unit"`
	MaxNoise  float64 `long:"maxnoise" description:"Maximum deviation of a marginal value from the mean"`
	Round     bool    `long:"round" description:"Round marginal values to integers"`

	FixedVirtualUnits bool `long:"fixedvirtualunits" description:"Fix the total number of units per side instead of the number of traders"`
}

// DefaultRandomConfig returns the default random auction config.
func DefaultRandomConfig() *RandomConfig {
	return &RandomConfig{
		Traders:   10,
		MinUnits:  10,
		MaxUnits:  30,
		MeanValue: 100,
		MaxNoise:  40,
	}
}

// Validate makes sure the config describes at least one valuation block per
// trader.
func (c *RandomConfig) Validate() error {
	switch {
	case c.Traders <= 0:
		return fmt.Errorf("%w: need a positive number of traders, "+
			"got %d", ErrInvalidRandomConfig, c.Traders)

	case c.MinUnits <= 0:
		return fmt.Errorf("%w: need a positive min units, got %d",
			ErrInvalidRandomConfig, c.MinUnits)

	case c.MaxUnits < c.MinUnits:
		return fmt.Errorf("%w: max units %d below min units %d",
			ErrInvalidRandomConfig, c.MaxUnits, c.MinUnits)

	case c.MaxNoise < 0:
		return fmt.Errorf("%w: negative noise %v",
			ErrInvalidRandomConfig, c.MaxNoise)
	}

	return nil
}

// String returns the key that identifies auctions generated from this config.
func (c *RandomConfig) String() string {
	return fmt.Sprintf("traders=%d,minunits=%d,maxunits=%d,noise=%v",
		c.Traders, c.MinUnits, c.MaxUnits, c.MaxNoise)
}

// RandomValuations creates a multi-unit valuation of maxUnits units, in
// bundles of minUnits units. Every bundle's marginal value is drawn uniformly
// from meanValue +- maxNoise. Leftover units that don't fill a bundle are
// dropped.
func RandomValuations(r *rand.Rand, minUnits, maxUnits int64, meanValue,
	maxNoise float64, round bool) []trader.Block {

	if minUnits <= 0 {
		return nil
	}

	numBundles := maxUnits / minUnits
	blocks := make([]trader.Block, 0, numBundles)
	for i := int64(0); i < numBundles; i++ {
		value := meanValue + (2*r.Float64()-1)*maxNoise
		if round {
			value = math.RoundToEven(value)
		}

		blocks = append(blocks, trader.Block{
			Units: minUnits,
			Value: value,
		})
	}

	return blocks
}

// RandomAuction creates buyers and sellers with random valuations. Unless
// FixedVirtualUnits is set, it creates cfg.Traders buyers and as many
// sellers, each holding cfg.MaxUnits units. Otherwise cfg.Traders is the
// number of units per side, spread over traders of cfg.MaxUnits units plus
// one smaller trader per side if the remainder fills at least one bundle.
func RandomAuction(r *rand.Rand, cfg *RandomConfig) ([]*trader.Trader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var traders []*trader.Trader
	addPair := func(units int64) {
		traders = append(traders,
			trader.NewBuyer(RandomValuations(
				r, cfg.MinUnits, units, cfg.MeanValue,
				cfg.MaxNoise, cfg.Round,
			)),
			trader.NewSeller(RandomValuations(
				r, cfg.MinUnits, units, cfg.MeanValue,
				cfg.MaxNoise, cfg.Round,
			)),
		)
	}

	if !cfg.FixedVirtualUnits {
		for i := 0; i < cfg.Traders; i++ {
			addPair(cfg.MaxUnits)
		}

		return traders, nil
	}

	units := int64(cfg.Traders)
	for i := int64(0); i < units/cfg.MaxUnits; i++ {
		addPair(cfg.MaxUnits)
	}
	if remainder := units % cfg.MaxUnits; remainder >= cfg.MinUnits {
		addPair(remainder)
	}

	return traders, nil
}

// RandomAuctions creates num random auctions from the same config.
func RandomAuctions(r *rand.Rand, num int, cfg *RandomConfig) ([]*Auction,
	error) {

	auctions := make([]*Auction, 0, num)
	for i := 0; i < num; i++ {
		traders, err := RandomAuction(r, cfg)
		if err != nil {
			return nil, err
		}

		auctions = append(auctions, &Auction{
			ID:      fmt.Sprintf("%v#%d", cfg, i),
			Traders: traders,
		})
	}

	return auctions, nil
}
