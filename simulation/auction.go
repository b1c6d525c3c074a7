package simulation

import (
	"fmt"
	"math/rand"

	"github.com/lightninglabs/muda/trader"
)

// Auction is a set of traders to simulate, identified by an ID that ends up
// in the result table.
type Auction struct {
	// ID identifies the auction.
	ID string

	// Traders are the buyers and sellers of the auction.
	Traders []*trader.Trader
}

// ReplicateAuction returns an auction in which the whole trader list appears
// replicas times.
func ReplicateAuction(auction *Auction, replicas int) *Auction {
	traders := make([]*trader.Trader, 0, replicas*len(auction.Traders))
	for i := 0; i < replicas; i++ {
		traders = append(traders, auction.Traders...)
	}

	return &Auction{
		ID:      fmt.Sprintf("%s x%d", auction.ID, replicas),
		Traders: traders,
	}
}

// SampleAuction returns an auction of numTraders traders drawn with
// replacement from the given auction, treating it as an empirical
// distribution of traders.
func SampleAuction(r *rand.Rand, auction *Auction, numTraders int) *Auction {
	sampled := &Auction{
		ID: fmt.Sprintf("%s s%d", auction.ID, numTraders),
	}
	if len(auction.Traders) == 0 {
		return sampled
	}

	sampled.Traders = make([]*trader.Trader, 0, numTraders)
	for i := 0; i < numTraders; i++ {
		sampled.Traders = append(
			sampled.Traders,
			auction.Traders[r.Intn(len(auction.Traders))],
		)
	}

	return sampled
}
