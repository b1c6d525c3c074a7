package trader

// Partition splits the candidates into winners and losers. Winners are taken
// from the front of the list until their units sum to the quota; the block
// that crosses the quota is split in two, its winning part closing the
// winners list and its losing part opening the losers list. Relative order is
// preserved on both sides.
func Partition(candidates []OwnedBlock, quota int64) ([]OwnedBlock,
	[]OwnedBlock) {

	var winners, losers []OwnedBlock
	for _, c := range candidates {
		switch {
		case quota >= c.Units:
			winners = append(winners, c)
			quota -= c.Units

		case quota > 0:
			winners = append(winners, c.WithUnits(quota))
			losers = append(losers, c.WithUnits(c.Units-quota))
			quota = 0

		default:
			losers = append(losers, c)
		}
	}

	return winners, losers
}

// OwnerUnits is the number of units a single owner holds within a list of
// blocks.
type OwnerUnits struct {
	Owner int
	Units int64
}

// UnitsByOwner aggregates the units of the given blocks per owner. Owners are
// reported in the order in which they first appear.
func UnitsByOwner(blocks []OwnedBlock) []OwnerUnits {
	var (
		result []OwnerUnits
		pos    = make(map[int]int)
	)
	for _, b := range blocks {
		i, ok := pos[b.Owner]
		if !ok {
			i = len(result)
			pos[b.Owner] = i
			result = append(result, OwnerUnits{Owner: b.Owner})
		}
		result[i].Units += b.Units
	}

	return result
}
