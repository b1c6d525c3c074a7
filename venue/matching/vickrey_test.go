package matching

import (
	"testing"
	"testing/quick"

	"github.com/davecgh/go-spew/spew"
	"github.com/lightninglabs/muda/trader"
	"github.com/stretchr/testify/require"
)

// TestVickreyClear checks the Vickrey outcome of the full market at several
// exogenous prices.
func TestVickreyClear(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		price       float64
		units       int64
		tradersGain float64
		managerGain float64
		totalGain   float64
	}{
		{price: 51},
		{price: 101, units: 4, tradersGain: 404, managerGain: 496, totalGain: 900},
		{price: 151, units: 4, tradersGain: 603, managerGain: 297, totalGain: 900},
		{price: 201, units: 8, tradersGain: 1099, managerGain: 1, totalGain: 1100},
	}

	for _, testCase := range testCases {
		outcome, err := NewVickreyClearer().Clear(
			fullMarket(), testCase.price,
		)
		require.NoError(t, err)
		require.Equal(t, VickreyRule, outcome.Rule)
		require.Equal(t, testCase.units, outcome.Units)
		require.InDelta(t, testCase.tradersGain, outcome.TradersGain, 1e-9)
		require.InDelta(t, testCase.managerGain, outcome.ManagerGain, 1e-9)
		require.InDelta(t, testCase.totalGain, outcome.TotalGain, 1e-9)
	}
}

// TestVickreyPayments checks the per-winner settlement on both sides of the
// market.
func TestVickreyPayments(t *testing.T) {
	t.Parallel()

	// Sellers are short at 101, so the buyers are auctioned.
	outcome, err := NewVickreyClearer().Clear(fullMarket(), 101)
	require.NoError(t, err)
	require.Equal(t, []Payment{{
		Side:     trader.Buyer,
		Owner:    1,
		Units:    3,
		Proceeds: 303,
		Amount:   750,
	}, {
		Side:     trader.Buyer,
		Owner:    0,
		Units:    1,
		Proceeds: 101,
		Amount:   150,
	}}, outcome.Payments)

	// Buyers are short at 201, so the sellers are auctioned.
	outcome, err = NewVickreyClearer().Clear(fullMarket(), 201)
	require.NoError(t, err)
	require.Equal(t, []Payment{{
		Side:     trader.Seller,
		Owner:    1,
		Units:    4,
		Proceeds: 804,
		Amount:   803,
	}, {
		Side:     trader.Seller,
		Owner:    0,
		Units:    4,
		Proceeds: 804,
		Amount:   804,
	}}, outcome.Payments)
}

// TestWinnerPayment checks the payment computation against a fixed loser
// list.
func TestWinnerPayment(t *testing.T) {
	t.Parallel()

	losers := []Loser{
		OwnerLoser(trader.OwnedBlock{
			Block: trader.Block{Units: 2, Value: 200},
			Owner: 0,
		}),
		OwnerLoser(trader.OwnedBlock{
			Block: trader.Block{Units: 6, Value: 400},
			Owner: 1,
		}),
		ReserveLoser(500),
	}

	payment, err := WinnerPayment(0, 5, losers)
	require.NoError(t, err)
	require.Equal(t, 2000.0, payment)

	payment, err = WinnerPayment(1, 5, losers)
	require.NoError(t, err)
	require.Equal(t, 1900.0, payment)

	// Nothing to back out costs nothing.
	payment, err = WinnerPayment(1, 0, losers)
	require.NoError(t, err)
	require.Zero(t, payment)

	// Without the reserve, the list can run dry.
	_, err = WinnerPayment(1, 5, losers[:2])
	require.ErrorIs(t, err, ErrLosersExhausted)

	_, err = WinnerPayment(0, 2, losers[:1])
	require.ErrorIs(t, err, ErrLosersExhausted)

	payment, err = WinnerPayment(1, 2, losers[:1])
	require.NoError(t, err)
	require.Equal(t, 400.0, payment)
}

// TestLoser checks the accessors of both loser variants.
func TestLoser(t *testing.T) {
	t.Parallel()

	owned := OwnerLoser(trader.OwnedBlock{
		Block: trader.Block{Units: 3, Value: 10},
		Owner: 7,
	})
	require.False(t, owned.IsReserve())

	owner, ok := owned.Owner()
	require.True(t, ok)
	require.Equal(t, 7, owner)

	units, ok := owned.Units()
	require.True(t, ok)
	require.EqualValues(t, 3, units)
	require.Equal(t, 10.0, owned.Value())

	reserve := ReserveLoser(99)
	require.True(t, reserve.IsReserve())
	require.Equal(t, 99.0, reserve.Value())

	_, ok = reserve.Owner()
	require.False(t, ok)

	_, ok = reserve.Units()
	require.False(t, ok)
}

// TestExogenousClearingProperties compares both rules on random markets.
func TestExogenousClearingProperties(t *testing.T) {
	t.Parallel()

	scenario := func(m market) bool {
		lottery, err := NewLotteryClearer(reverseShuffler{}).Clear(
			m.Traders, m.Price,
		)
		if err != nil {
			return false
		}

		vickrey, err := NewVickreyClearer().Clear(m.Traders, m.Price)
		if err != nil {
			t.Logf("vickrey failed: %v", err)
			return false
		}

		// Both rules trade the short side of the market.
		if lottery.Units != vickrey.Units {
			return false
		}

		// The manager keeps the signed difference between every
		// winner's payment and its proceeds at the price.
		var managerGain float64
		for _, p := range vickrey.Payments {
			if p.Side == trader.Seller {
				managerGain += p.Proceeds - p.Amount
			} else {
				managerGain += p.Amount - p.Proceeds
			}
		}
		if !almostEqual(managerGain, vickrey.ManagerGain) {
			t.Logf("manager gain does not reconcile: %v",
				spew.Sdump(vickrey))
			return false
		}
		if !almostEqual(vickrey.TotalGain,
			vickrey.TradersGain+vickrey.ManagerGain) {

			return false
		}

		// The auction picks the best blocks of the long side, so it
		// can never do worse than any lottery draw.
		if vickrey.TotalGain < lottery.TotalGain-1e-9 {
			t.Logf("vickrey %v below lottery %v",
				vickrey.TotalGain, lottery.TotalGain)
			return false
		}

		// Winning buyers never pay less than the price and winning
		// sellers never receive more, so the manager's share of every
		// single winner is non-negative.
		for _, p := range vickrey.Payments {
			if p.Side == trader.Buyer && p.Amount < p.Proceeds-1e-9 {
				return false
			}
			if p.Side == trader.Seller && p.Amount > p.Proceeds+1e-9 {
				return false
			}
		}

		// Every winner is individually rational: a buyer never pays
		// more than the units it won are worth to it and a seller
		// never receives less than they cost it. All valuations are
		// positive, so no payment is negative either.
		longSide, worth := wonWorth(m.Traders, m.Price)
		for _, p := range vickrey.Payments {
			if p.Side != longSide {
				return false
			}
			if p.Amount < -1e-9 {
				t.Logf("negative payment: %v", spew.Sdump(p))
				return false
			}

			won := worth[p.Owner]
			if p.Side == trader.Buyer && p.Amount > won+1e-9 {
				t.Logf("buyer pays %v for units worth %v",
					p.Amount, won)
				return false
			}
			if p.Side == trader.Seller && p.Amount < won-1e-9 {
				t.Logf("seller receives %v for units costing %v",
					p.Amount, won)
				return false
			}
		}

		// Clearing is deterministic.
		again, err := NewVickreyClearer().Clear(m.Traders, m.Price)
		if err != nil {
			return false
		}

		return again.TotalGain == vickrey.TotalGain &&
			again.ManagerGain == vickrey.ManagerGain
	}

	require.NoError(t, quick.Check(scenario, nil))
}

// wonWorth returns the long side of the market at the price together with
// the worth of the units every long side owner wins there, keyed by the
// owner's position among the traders of its side.
func wonWorth(traders []*trader.Trader, price float64) (trader.Side,
	map[int]float64) {

	activeBuyers, activeSellers := activeValuations(traders, price)
	buyers := trader.FlattenWithIndex(activeBuyers)
	sellers := trader.FlattenWithIndex(activeSellers)

	demand := trader.TotalUnits(buyers)
	supply := trader.TotalUnits(sellers)

	side, long, ordering, units := trader.Buyer, buyers,
		trader.Descending, supply
	if demand < supply {
		side, long, ordering, units = trader.Seller, sellers,
			trader.Ascending, demand
	}

	winners, _ := trader.SortByValue(long, ordering).Partition(units)

	worth := make(map[int]float64)
	for _, b := range winners.Blocks() {
		worth[b.Owner] += b.Worth()
	}

	return side, worth
}

// TestVickreyIndividuallyRational checks the per-winner bounds on the full
// market at every price that trades.
func TestVickreyIndividuallyRational(t *testing.T) {
	t.Parallel()

	for _, price := range []float64{101, 151, 201} {
		outcome, err := NewVickreyClearer().Clear(fullMarket(), price)
		require.NoError(t, err)
		require.NotEmpty(t, outcome.Payments)

		side, worth := wonWorth(fullMarket(), price)
		for _, p := range outcome.Payments {
			require.Equal(t, side, p.Side)
			require.GreaterOrEqual(t, p.Amount, 0.0)

			if side == trader.Buyer {
				require.LessOrEqual(t, p.Amount, worth[p.Owner])
			} else {
				require.GreaterOrEqual(
					t, p.Amount, worth[p.Owner],
				)
			}
		}
	}
}
