package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/lightninglabs/muda/trader"
)

// traderJSON is the on-disk representation of a trader: a side and a list
// of [units, value] pairs in any order.
type traderJSON struct {
	Side   string       `json:"side"`
	Blocks [][2]float64 `json:"blocks"`
}

// readTraders parses a JSON trader list from the given reader.
func readTraders(r io.Reader) ([]*trader.Trader, error) {
	content, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw []traderJSON
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("unable to decode traders: %v", err)
	}

	traders := make([]*trader.Trader, 0, len(raw))
	for i, t := range raw {
		var side trader.Side
		switch t.Side {
		case "buyer", "b":
			side = trader.Buyer

		case "seller", "s":
			side = trader.Seller

		default:
			return nil, fmt.Errorf("trader %d: unknown side %q", i,
				t.Side)
		}

		blocks, err := trader.ParseBlocks(t.Blocks)
		if err != nil {
			return nil, fmt.Errorf("trader %d: %w", i, err)
		}

		traders = append(traders, trader.New(
			side, blocks, trader.WithIndex(i),
		))
	}

	return traders, nil
}

// readTradersFile parses the JSON trader list stored in the given file. A
// path of "-" reads from stdin.
func readTradersFile(path string) ([]*trader.Trader, error) {
	if path == "" {
		return nil, fmt.Errorf("no trader file given, use --traders")
	}

	if path == "-" {
		return readTraders(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readTraders(f)
}
