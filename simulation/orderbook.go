package simulation

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/lightninglabs/muda/trader"
	"github.com/lightninglabs/muda/venue/matching"
	"github.com/shopspring/decimal"
)

const (
	columnSymbol    = "Symbol"
	columnDate      = "Date"
	columnSide      = "Side"
	columnQuantity  = "Quantity"
	columnPrice     = "Price"
	columnOrderDate = "Order date"

	sideBuy  = "BUY"
	sideSell = "SEL"

	// normalizedPrice is the Walrasian price every symbol and date is
	// rescaled to by NormalizeOrders.
	normalizedPrice = 100
)

// Order is a single row of an order-book file in the TORQ SOD format.
type Order struct {
	Symbol string
	Date   string
	Side   trader.Side

	// Quantity is the number of shares of the order.
	Quantity int64

	// Price is the limit price of the order.
	Price decimal.Decimal

	// OrderDate is the time the order was placed. Orders of one side
	// sharing it are taken to come from the same trader when combining
	// by order date.
	OrderDate string
}

// OrderBookConfig describes an order-book file to simulate instead of random
// auctions.
type OrderBookConfig struct {
	File               string `long:"file" description:"Order-book CSV file (TORQ SOD format) to simulate instead of random auctions"`
	BySymbol           bool   `long:"bysymbol" description:"Run one auction per symbol over all dates instead of one per symbol and date"`
	CombineByOrderDate bool   `long:"combinebyorderdate" description:"Treat orders of one side sharing an order date as a single multi-unit trader"`
	Normalize          bool   `long:"normalize" description:"Rescale the prices of every symbol and date so that its Walrasian price is 100"`
}

// ReadOrders parses an order-book CSV with a header line. Columns are found
// by name and unknown columns are ignored. The order date column is optional;
// without it, combining by order date merges all orders of a side.
func ReadOrders(r io.Reader) ([]Order, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{
		columnSymbol, columnDate, columnSide, columnQuantity,
		columnPrice,
	} {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q",
				ErrInvalidOrder, name)
		}
	}
	orderDate, hasOrderDate := columns[columnOrderDate]

	var orders []Order
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(column string) string {
			i := columns[column]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		order, err := parseOrder(
			field(columnSymbol), field(columnDate),
			field(columnSide), field(columnQuantity),
			field(columnPrice),
		)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if hasOrderDate && orderDate < len(record) {
			order.OrderDate = strings.TrimSpace(record[orderDate])
		}

		orders = append(orders, *order)
	}

	return orders, nil
}

func parseOrder(symbol, date, side, quantity, price string) (*Order,
	error) {

	order := &Order{
		Symbol: symbol,
		Date:   date,
	}

	switch side {
	case sideBuy:
		order.Side = trader.Buyer

	case sideSell:
		order.Side = trader.Seller

	default:
		return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder,
			side)
	}

	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: quantity %q: %v", ErrInvalidOrder,
			quantity, err)
	}
	if !qty.Equal(qty.Truncate(0)) || !qty.IsPositive() {
		return nil, fmt.Errorf("%w: quantity %v is not a positive "+
			"integer", ErrInvalidOrder, qty)
	}
	order.Quantity = qty.IntPart()

	order.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q: %v", ErrInvalidOrder,
			price, err)
	}

	return order, nil
}

// block returns the order as a valuation block.
func (o *Order) block() trader.Block {
	value, _ := o.Price.Float64()

	return trader.Block{
		Units: o.Quantity,
		Value: value,
	}
}

// ordersToTraders turns the orders of one auction into traders. Every order
// is its own single-block trader unless combineByOrderDate is set, in which
// case the orders of one side are grouped by order date into multi-block
// traders, buyers first, each side in order of first appearance.
func ordersToTraders(orders []Order,
	combineByOrderDate bool) []*trader.Trader {

	var traders []*trader.Trader
	if !combineByOrderDate {
		for _, o := range orders {
			traders = append(traders, trader.New(
				o.Side, []trader.Block{o.block()},
			))
		}

		return traders
	}

	for _, side := range []trader.Side{trader.Buyer, trader.Seller} {
		var (
			dates  []string
			blocks = make(map[string][]trader.Block)
		)
		for _, o := range orders {
			if o.Side != side {
				continue
			}

			if _, ok := blocks[o.OrderDate]; !ok {
				dates = append(dates, o.OrderDate)
			}
			blocks[o.OrderDate] = append(
				blocks[o.OrderDate], o.block(),
			)
		}

		for _, date := range dates {
			traders = append(traders, trader.New(side, blocks[date]))
		}
	}

	return traders
}

// orderGroup is the set of orders sharing a grouping key.
type orderGroup struct {
	symbol string
	date   string
	orders []Order
}

// id returns the auction ID of the group.
func (g *orderGroup) id() string {
	if g.date == "" {
		return g.symbol
	}

	return g.symbol + " " + g.date
}

// groupOrders groups the orders by symbol, and by date too unless bySymbol
// is set. Groups are sorted by their key, orders keep their file order.
func groupOrders(orders []Order, bySymbol bool) []*orderGroup {
	type key struct {
		symbol, date string
	}

	var (
		groups []*orderGroup
		index  = make(map[key]*orderGroup)
	)
	for _, o := range orders {
		k := key{symbol: o.Symbol}
		if !bySymbol {
			k.date = o.Date
		}

		g, ok := index[k]
		if !ok {
			g = &orderGroup{symbol: k.symbol, date: k.date}
			index[k] = g
			groups = append(groups, g)
		}
		g.orders = append(g.orders, o)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].symbol != groups[j].symbol {
			return groups[i].symbol < groups[j].symbol
		}
		return groups[i].date < groups[j].date
	})

	return groups
}

// OrderBookAuctions turns the orders into auctions, one per symbol and date,
// or one per symbol if bySymbol is set.
func OrderBookAuctions(orders []Order, bySymbol,
	combineByOrderDate bool) []*Auction {

	groups := groupOrders(orders, bySymbol)

	auctions := make([]*Auction, 0, len(groups))
	for _, g := range groups {
		auctions = append(auctions, &Auction{
			ID:      g.id(),
			Traders: ordersToTraders(g.orders, combineByOrderDate),
		})
	}

	return auctions
}

// NormalizeOrders rescales the prices of every symbol and date so that the
// Walrasian price of its auction, with every order as a trader of its own,
// is 100. Groups without a positive finite Walrasian price can't be rescaled
// and are dropped.
func NormalizeOrders(orders []Order) []Order {
	var normalized []Order
	for _, g := range groupOrders(orders, false) {
		eq := matching.WalrasianEquilibrium(
			ordersToTraders(g.orders, false),
		)
		if math.IsInf(eq.Price, 0) || eq.Price <= 0 {
			log.Warnf("Dropping %v: no positive Walrasian price "+
				"(%v)", g.id(), eq.Price)
			continue
		}

		scale := decimal.New(normalizedPrice, 0).Div(
			decimal.NewFromFloat(eq.Price),
		)
		for _, o := range g.orders {
			o.Price = o.Price.Mul(scale)
			normalized = append(normalized, o)
		}

		log.Debugf("Normalized %v by Walrasian price %v", g.id(),
			eq.Price)
	}

	return normalized
}

// LoadOrderBook reads the configured order-book file and returns its
// auctions.
func LoadOrderBook(cfg *OrderBookConfig) ([]*Auction, error) {
	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	orders, err := ReadOrders(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read %v: %w", cfg.File, err)
	}

	if cfg.Normalize {
		orders = NormalizeOrders(orders)
	}

	auctions := OrderBookAuctions(
		orders, cfg.BySymbol, cfg.CombineByOrderDate,
	)

	log.Infof("Read %d orders in %d auctions from %v", len(orders),
		len(auctions), cfg.File)

	return auctions, nil
}
