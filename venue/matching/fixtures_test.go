package matching

import (
	"math"
	"math/rand"
	"reflect"

	"github.com/lightninglabs/muda/trader"
)

// reverseShuffler is a deterministic stand-in for a random source that always
// reverses the order of the shuffled elements.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

// identityShuffler leaves the order of the shuffled elements untouched.
type identityShuffler struct{}

func (identityShuffler) Shuffle(int, func(i, j int)) {}

func blocks(pairs ...[2]float64) []trader.Block {
	result := make([]trader.Block, 0, len(pairs))
	for _, p := range pairs {
		result = append(result, trader.Block{
			Units: int64(p[0]),
			Value: p[1],
		})
	}

	return result
}

// The four traders used throughout the tests. Their full market clears 8
// units at 200 with a gain of 1100.
func newB1() *trader.Trader {
	return trader.NewBuyer(blocks([2]float64{5, 250}))
}

func newB2() *trader.Trader {
	return trader.NewBuyer(blocks(
		[2]float64{4, 150}, [2]float64{3, 350},
	))
}

func newS1() *trader.Trader {
	return trader.NewSeller(blocks([2]float64{5, 200}))
}

func newS2() *trader.Trader {
	return trader.NewSeller(blocks(
		[2]float64{4, 100}, [2]float64{3, 300},
	))
}

func fullMarket() []*trader.Trader {
	return []*trader.Trader{newB1(), newB2(), newS1(), newS2()}
}

// market is a randomly generated set of traders.
type market struct {
	Traders []*trader.Trader
	Price   float64
}

// Generate creates a random market with integer valuations.
//
// NOTE: This is part of the quick.Generator interface.
func (market) Generate(r *rand.Rand, size int) reflect.Value {
	numTraders := r.Intn(8)
	traders := make([]*trader.Trader, 0, numTraders)
	for i := 0; i < numTraders; i++ {
		numBlocks := 1 + r.Intn(3)
		bs := make([]trader.Block, 0, numBlocks)
		for j := 0; j < numBlocks; j++ {
			bs = append(bs, trader.Block{
				Units: 1 + r.Int63n(10),
				Value: float64(1 + r.Intn(500)),
			})
		}

		side := trader.Buyer
		if r.Intn(2) == 0 {
			side = trader.Seller
		}
		traders = append(traders, trader.New(side, bs))
	}

	return reflect.ValueOf(market{
		Traders: traders,
		Price:   float64(r.Intn(500)) + 0.5,
	})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
