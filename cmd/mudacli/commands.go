package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lightninglabs/muda"
	"github.com/lightninglabs/muda/trader"
	"github.com/lightninglabs/muda/venue/matching"
	"github.com/urfave/cli"
)

var (
	tradersFlag = cli.StringFlag{
		Name: "traders",
		Usage: "JSON file holding the traders, such as " +
			`[{"side":"buyer","blocks":[[5,250]]}]; "-" reads ` +
			"from stdin",
	}
	seedFlag = cli.Int64Flag{
		Name:  "seed",
		Value: 1,
		Usage: "seed of the random source",
	}
)

// allocationResp is the JSON form of a matching.Allocation.
type allocationResp struct {
	Trader int     `json:"trader"`
	Units  int64   `json:"units"`
	Value  float64 `json:"value"`
}

// walrasResp is the JSON form of a matching.Equilibrium.
type walrasResp struct {
	// Price is omitted if the market has no supply.
	Price      *float64         `json:"price,omitempty"`
	NumBuyers  int              `json:"num_buyers"`
	NumSellers int              `json:"num_sellers"`
	Units      int64            `json:"units"`
	Gain       float64          `json:"gain"`
	Buyers     []allocationResp `json:"buyers"`
	Sellers    []allocationResp `json:"sellers"`
}

// finite returns a pointer to the price or nil if it's not a finite number,
// which JSON can't represent.
func finite(price float64) *float64 {
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return nil
	}

	return &price
}

// allocations maps solver allocations back to the traders' file positions.
func allocations(traders []*trader.Trader,
	allocs []matching.Allocation) []allocationResp {

	resp := make([]allocationResp, 0, len(allocs))
	for _, a := range allocs {
		index, _ := traders[a.Owner].Index()
		resp = append(resp, allocationResp{
			Trader: index,
			Units:  a.Units,
			Value:  a.Value,
		})
	}

	return resp
}

var walrasCommand = cli.Command{
	Name:      "walras",
	ShortName: "w",
	Usage:     "compute the Walrasian equilibrium of a market",
	Flags:     []cli.Flag{tradersFlag},
	Action:    walras,
}

func walras(ctx *cli.Context) error {
	traders, err := readTradersFile(ctx.String(tradersFlag.Name))
	if err != nil {
		return err
	}

	eq, err := muda.Walras(traders)
	if err != nil {
		return err
	}

	printJSON(&walrasResp{
		Price:      finite(eq.Price),
		NumBuyers:  eq.NumBuyers,
		NumSellers: eq.NumSellers,
		Units:      eq.Units,
		Gain:       eq.Gain,
		Buyers:     allocations(traders, eq.BuyerAllocations),
		Sellers:    allocations(traders, eq.SellerAllocations),
	})

	return nil
}

// paymentResp is the JSON form of a matching.Payment.
type paymentResp struct {
	Side     string  `json:"side"`
	Trader   int     `json:"trader"`
	Units    int64   `json:"units"`
	Proceeds float64 `json:"proceeds"`
	Amount   float64 `json:"amount"`
}

// clearingResp is the JSON form of a matching.Clearing.
type clearingResp struct {
	Rule        string        `json:"rule"`
	Units       int64         `json:"units"`
	TradersGain float64       `json:"traders_gain"`
	ManagerGain float64       `json:"manager_gain"`
	TotalGain   float64       `json:"total_gain"`
	Payments    []paymentResp `json:"payments,omitempty"`
}

// newClearingResp converts a clearing of the given traders. Payment owners
// are positions among the traders of one side, so they are mapped back to
// file positions here.
func newClearingResp(traders []*trader.Trader,
	c *matching.Clearing) *clearingResp {

	if c == nil {
		return nil
	}

	var buyers, sellers []int
	for _, t := range traders {
		index, _ := t.Index()
		if t.IsBuyer() {
			buyers = append(buyers, index)
		} else {
			sellers = append(sellers, index)
		}
	}

	resp := &clearingResp{
		Rule:        c.Rule.String(),
		Units:       c.Units,
		TradersGain: c.TradersGain,
		ManagerGain: c.ManagerGain,
		TotalGain:   c.TotalGain,
	}
	for _, p := range c.Payments {
		index := sellers[p.Owner]
		if p.Side == trader.Buyer {
			index = buyers[p.Owner]
		}

		resp.Payments = append(resp.Payments, paymentResp{
			Side:     p.Side.String(),
			Trader:   index,
			Units:    p.Units,
			Proceeds: p.Proceeds,
			Amount:   p.Amount,
		})
	}

	return resp
}

// subMarketResp is the JSON form of a muda.SubMarket.
type subMarketResp struct {
	Traders []int         `json:"traders"`
	Price   *float64      `json:"price,omitempty"`
	Lottery *clearingResp `json:"lottery,omitempty"`
	Vickrey *clearingResp `json:"vickrey,omitempty"`
}

func newSubMarketResp(sub *muda.SubMarket) *subMarketResp {
	resp := &subMarketResp{
		Traders: []int{},
		Price:   finite(sub.Price),
		Lottery: newClearingResp(sub.Traders, sub.Lottery),
		Vickrey: newClearingResp(sub.Traders, sub.Vickrey),
	}
	for _, t := range sub.Traders {
		index, _ := t.Index()
		resp.Traders = append(resp.Traders, index)
	}

	return resp
}

// lotteryResp is the JSON form of a muda.LotteryOutcome.
type lotteryResp struct {
	Units int64   `json:"units"`
	Gain  float64 `json:"gain"`
}

// vickreyResp is the JSON form of a muda.VickreyOutcome.
type vickreyResp struct {
	Units       int64   `json:"units"`
	TradersGain float64 `json:"traders_gain"`
	ManagerGain float64 `json:"manager_gain"`
	TotalGain   float64 `json:"total_gain"`
}

// mudaResp is the JSON form of a muda.MUDAOutcome.
type mudaResp struct {
	Left    *subMarketResp `json:"left"`
	Right   *subMarketResp `json:"right"`
	Lottery *lotteryResp   `json:"lottery,omitempty"`
	Vickrey *vickreyResp   `json:"vickrey,omitempty"`
}

func newMUDAResp(outcome *muda.MUDAOutcome) *mudaResp {
	resp := &mudaResp{
		Left:  newSubMarketResp(&outcome.Left),
		Right: newSubMarketResp(&outcome.Right),
	}
	if outcome.Lottery != nil {
		resp.Lottery = &lotteryResp{
			Units: outcome.Lottery.Units,
			Gain:  outcome.Lottery.Gain,
		}
	}
	if outcome.Vickrey != nil {
		resp.Vickrey = &vickreyResp{
			Units:       outcome.Vickrey.Units,
			TradersGain: outcome.Vickrey.TradersGain,
			ManagerGain: outcome.Vickrey.ManagerGain,
			TotalGain:   outcome.Vickrey.TotalGain,
		}
	}

	return resp
}

var mudaCommand = cli.Command{
	Name:      "muda",
	ShortName: "m",
	Usage:     "run the MUDA mechanism on a market",
	Description: `
	Split the traders into two random sub-markets and clear each one at
	the Walrasian price of the other one, with the lottery and/or the
	Vickrey rule.
	`,
	Flags: []cli.Flag{
		tradersFlag,
		seedFlag,
		cli.BoolTFlag{
			Name:  "lottery",
			Usage: "clear the sub-markets with the lottery rule",
		},
		cli.BoolTFlag{
			Name:  "vickrey",
			Usage: "clear the sub-markets with the Vickrey rule",
		},
	},
	Action: runMUDA,
}

func runMUDA(ctx *cli.Context) error {
	traders, err := readTradersFile(ctx.String(tradersFlag.Name))
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(ctx.Int64(seedFlag.Name)))
	outcome, err := muda.MUDA(
		traders, rng, ctx.BoolT("lottery"), ctx.BoolT("vickrey"),
	)
	if err != nil {
		return err
	}

	printJSON(newMUDAResp(outcome))

	return nil
}

var clearCommand = cli.Command{
	Name:      "clear",
	ShortName: "c",
	Usage:     "clear a market at a given price",
	Flags: []cli.Flag{
		tradersFlag,
		seedFlag,
		cli.Float64Flag{
			Name:  "price",
			Usage: "the exogenous price to clear the market at",
		},
		cli.StringFlag{
			Name:  "rule",
			Value: matching.VickreyRule.String(),
			Usage: "the clearing rule: lottery or vickrey",
		},
	},
	Action: clearMarket,
}

func clearMarket(ctx *cli.Context) error {
	if !ctx.IsSet("price") {
		return fmt.Errorf("price is required")
	}

	traders, err := readTradersFile(ctx.String(tradersFlag.Name))
	if err != nil {
		return err
	}

	clearer, err := newClearer(
		ctx.String("rule"), ctx.Int64(seedFlag.Name),
	)
	if err != nil {
		return err
	}

	clearing, err := clearer.Clear(traders, ctx.Float64("price"))
	if err != nil {
		return err
	}

	printJSON(newClearingResp(traders, clearing))

	return nil
}

// newClearer returns the clearer implementing the named rule.
func newClearer(rule string, seed int64) (matching.ExogenousClearer, error) {
	switch rule {
	case matching.LotteryRule.String():
		return matching.NewLotteryClearer(
			rand.New(rand.NewSource(seed)),
		), nil

	case matching.VickreyRule.String():
		return matching.NewVickreyClearer(), nil

	default:
		return nil, fmt.Errorf("unknown rule %q", rule)
	}
}
