package trader

// SplitBySide flattens the given traders into two block lists, one holding
// the blocks of every buyer and one holding the blocks of every seller. The
// per-trader block order is preserved, the trader grouping is not.
func SplitBySide(traders []*Trader) ([]Block, []Block) {
	var buyers, sellers []Block
	for _, t := range traders {
		if t.IsBuyer() {
			buyers = append(buyers, t.blocks...)
		} else {
			sellers = append(sellers, t.blocks...)
		}
	}

	return buyers, sellers
}

// SplitBySideOwned is like SplitBySide but tags every block with the position
// of its trader inside the traders slice.
func SplitBySideOwned(traders []*Trader) ([]OwnedBlock, []OwnedBlock) {
	var buyers, sellers []OwnedBlock
	for i, t := range traders {
		for _, b := range t.blocks {
			owned := OwnedBlock{Block: b, Owner: i}
			if t.IsBuyer() {
				buyers = append(buyers, owned)
			} else {
				sellers = append(sellers, owned)
			}
		}
	}

	return buyers, sellers
}

// FlattenWithIndex flattens a list of per-owner block lists into a single
// list of owned blocks. The owner of a block is the position of its list in
// the input.
func FlattenWithIndex(valuations [][]Block) []OwnedBlock {
	var flat []OwnedBlock
	for owner, blocks := range valuations {
		for _, b := range blocks {
			flat = append(flat, OwnedBlock{Block: b, Owner: owner})
		}
	}

	return flat
}
