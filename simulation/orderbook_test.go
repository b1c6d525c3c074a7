package simulation

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lightninglabs/muda/trader"
	"github.com/lightninglabs/muda/venue/matching"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// orderBookCSV holds the four reference traders as IBM orders of one day,
// plus a small AA market and an IBM day without supply. The unnamed leading
// column is the index normalized files carry.
const orderBookCSV = `,Symbol,Date,Side,Quantity,Price,Order date
0,IBM,910121,BUY,5,250,93000
1,IBM,910121,BUY,3,350,93100
2,IBM,910121,BUY,4,150,93100
3,IBM,910121,SEL,5,200,94000
4,IBM,910121,SEL,4,100,94500
5,IBM,910121,SEL,3,300,94500
6,AA,910122,SEL,2,50,100000
7,AA,910122,BUY,2,60,100000
8,IBM,910122,BUY,1,99,93000
`

func readTestOrders(t *testing.T) []Order {
	orders, err := ReadOrders(strings.NewReader(orderBookCSV))
	require.NoError(t, err)
	require.Len(t, orders, 9)

	return orders
}

func traderStrings(traders []*trader.Trader) []string {
	result := make([]string, 0, len(traders))
	for _, tr := range traders {
		result = append(result, tr.String())
	}

	return result
}

func TestReadOrders(t *testing.T) {
	t.Parallel()

	orders := readTestOrders(t)

	first := orders[0]
	require.Equal(t, "IBM", first.Symbol)
	require.Equal(t, "910121", first.Date)
	require.Equal(t, trader.Buyer, first.Side)
	require.EqualValues(t, 5, first.Quantity)
	require.True(t, first.Price.Equal(decimal.New(250, 0)))
	require.Equal(t, "93000", first.OrderDate)

	require.Equal(t, trader.Seller, orders[3].Side)
}

func TestReadOrdersInvalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
	}{{
		name:  "missing column",
		input: "Symbol,Date,Side,Quantity\nIBM,910121,BUY,5\n",
	}, {
		name: "unknown side",
		input: "Symbol,Date,Side,Quantity,Price\n" +
			"IBM,910121,HOLD,5,100\n",
	}, {
		name: "fractional quantity",
		input: "Symbol,Date,Side,Quantity,Price\n" +
			"IBM,910121,BUY,1.5,100\n",
	}, {
		name: "zero quantity",
		input: "Symbol,Date,Side,Quantity,Price\n" +
			"IBM,910121,SEL,0,100\n",
	}, {
		name: "bad price",
		input: "Symbol,Date,Side,Quantity,Price\n" +
			"IBM,910121,SEL,3,cheap\n",
	}}

	for _, testCase := range testCases {
		_, err := ReadOrders(strings.NewReader(testCase.input))
		require.ErrorIs(t, err, ErrInvalidOrder, testCase.name)
	}
}

// TestOrderBookAuctions checks both ways of turning orders into traders and
// both groupings.
func TestOrderBookAuctions(t *testing.T) {
	t.Parallel()

	orders := readTestOrders(t)

	// Every order is a trader of its own.
	auctions := OrderBookAuctions(orders, false, false)
	require.Len(t, auctions, 3)
	require.Equal(t, "AA 910122", auctions[0].ID)
	require.Equal(t, "IBM 910121", auctions[1].ID)
	require.Equal(t, "IBM 910122", auctions[2].ID)
	require.Equal(t, []string{
		"B[(5,250)]", "B[(3,350)]", "B[(4,150)]",
		"S[(5,200)]", "S[(4,100)]", "S[(3,300)]",
	}, traderStrings(auctions[1].Traders))

	eq := matching.WalrasianEquilibrium(auctions[1].Traders)
	require.Equal(t, 200.0, eq.Price)
	require.EqualValues(t, 8, eq.Units)
	require.InDelta(t, 1100, eq.Gain, 1e-9)

	// Orders of one side placed at the same time form one trader.
	auctions = OrderBookAuctions(orders, false, true)
	require.Len(t, auctions, 3)
	require.Equal(t, []string{
		"B[(5,250)]", "B[(3,350) (4,150)]",
		"S[(5,200)]", "S[(4,100) (3,300)]",
	}, traderStrings(auctions[1].Traders))

	eq = matching.WalrasianEquilibrium(auctions[1].Traders)
	require.Equal(t, 200.0, eq.Price)
	require.Equal(t, 2, eq.NumBuyers)
	require.Equal(t, 2, eq.NumSellers)

	// One auction per symbol spanning all dates.
	auctions = OrderBookAuctions(orders, true, false)
	require.Len(t, auctions, 2)
	require.Equal(t, "AA", auctions[0].ID)
	require.Equal(t, "IBM", auctions[1].ID)
	require.Len(t, auctions[1].Traders, 7)
}

// TestNormalizeOrders makes sure every symbol and date is rescaled to a
// Walrasian price of 100 and days without a price are dropped.
func TestNormalizeOrders(t *testing.T) {
	t.Parallel()

	normalized := NormalizeOrders(readTestOrders(t))
	require.Len(t, normalized, 8)

	for _, o := range normalized {
		require.False(t, o.Symbol == "IBM" && o.Date == "910122")
	}

	auctions := OrderBookAuctions(normalized, false, false)
	require.Len(t, auctions, 2)
	for _, auction := range auctions {
		eq := matching.WalrasianEquilibrium(auction.Traders)
		require.InDelta(t, 100, eq.Price, 1e-9, auction.ID)
	}

	// The IBM prices are halved exactly.
	require.Equal(t, []string{
		"B[(5,125)]", "B[(3,175)]", "B[(4,75)]",
		"S[(5,100)]", "S[(4,50)]", "S[(3,150)]",
	}, traderStrings(auctions[1].Traders))
}

func TestLoadOrderBook(t *testing.T) {
	t.Parallel()

	dir, err := ioutil.TempDir("", "orderbook")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sod.csv")
	require.NoError(t, ioutil.WriteFile(path, []byte(orderBookCSV), 0600))

	auctions, err := LoadOrderBook(&OrderBookConfig{
		File:               path,
		CombineByOrderDate: true,
		Normalize:          true,
	})
	require.NoError(t, err)
	require.Len(t, auctions, 2)
	require.Equal(t, "IBM 910121", auctions[1].ID)
	require.Len(t, auctions[1].Traders, 4)

	_, err = LoadOrderBook(&OrderBookConfig{
		File: filepath.Join(dir, "missing.csv"),
	})
	require.Error(t, err)
}
