package trader

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	t.Parallel()

	candidates := []OwnedBlock{
		{Block: Block{Units: 5, Value: 100}, Owner: 0},
		{Block: Block{Units: 3, Value: 300}, Owner: 0},
		{Block: Block{Units: 4, Value: 200}, Owner: 1},
		{Block: Block{Units: 6, Value: 400}, Owner: 1},
	}

	winners, losers := Partition(candidates, 10)
	require.Equal(t, []OwnedBlock{
		{Block: Block{Units: 5, Value: 100}, Owner: 0},
		{Block: Block{Units: 3, Value: 300}, Owner: 0},
		{Block: Block{Units: 2, Value: 200}, Owner: 1},
	}, winners)
	require.Equal(t, []OwnedBlock{
		{Block: Block{Units: 2, Value: 200}, Owner: 1},
		{Block: Block{Units: 6, Value: 400}, Owner: 1},
	}, losers)

	winners, losers = Partition(candidates, 0)
	require.Empty(t, winners)
	require.Equal(t, candidates, losers)

	winners, losers = Partition(candidates, 100)
	require.Equal(t, candidates, winners)
	require.Empty(t, losers)
}

type partitionCase struct {
	Candidates []OwnedBlock
	Quota      int64
}

// TestPartitionProperties checks that the winners always fill
// min(quota, total) units and that winners and losers together account for
// every unit of every candidate.
func TestPartitionProperties(t *testing.T) {
	t.Parallel()

	scenario := func(c partitionCase) bool {
		winners, losers := Partition(c.Candidates, c.Quota)

		total := TotalUnits(c.Candidates)
		want := c.Quota
		if total < want {
			want = total
		}
		if TotalUnits(winners) != want {
			t.Logf("winners hold %d units, want %d: %v",
				TotalUnits(winners), want, spew.Sdump(c))
			return false
		}

		// Winners followed by losers must give back the candidates,
		// once the block that crossed the quota is glued together.
		merged := append(append([]OwnedBlock{}, winners...), losers...)
		if len(merged) == len(c.Candidates)+1 {
			k := len(winners) - 1
			head, tail := merged[k], merged[k+1]
			if head.Owner != tail.Owner || head.Value != tail.Value {
				return false
			}
			merged[k] = head.WithUnits(head.Units + tail.Units)
			merged = append(merged[:k+1], merged[k+2:]...)
		}

		if len(merged) == 0 && len(c.Candidates) == 0 {
			return true
		}

		return reflect.DeepEqual(merged, c.Candidates)
	}

	quickCfg := quick.Config{
		Values: func(v []reflect.Value, r *rand.Rand) {
			n := r.Intn(10)
			candidates := make([]OwnedBlock, 0, n)
			var total int64
			for i := 0; i < n; i++ {
				units := int64(r.Intn(20) + 1)
				total += units
				candidates = append(candidates, OwnedBlock{
					Block: Block{
						Units: units,
						Value: float64(r.Intn(500)),
					},
					Owner: r.Intn(4),
				})
			}

			v[0] = reflect.ValueOf(partitionCase{
				Candidates: candidates,
				Quota:      r.Int63n(total + 10),
			})
		},
	}
	if err := quick.Check(scenario, &quickCfg); err != nil {
		t.Fatalf("partition property violated: %v", err)
	}
}

func TestUnitsByOwner(t *testing.T) {
	t.Parallel()

	units := UnitsByOwner([]OwnedBlock{
		{Block: Block{Units: 3, Value: 350}, Owner: 1},
		{Block: Block{Units: 1, Value: 250}, Owner: 0},
		{Block: Block{Units: 2, Value: 150}, Owner: 1},
	})
	require.Equal(t, []OwnerUnits{
		{Owner: 1, Units: 5},
		{Owner: 0, Units: 1},
	}, units)
}

func TestSequenceAndStack(t *testing.T) {
	t.Parallel()

	raw := []OwnedBlock{
		{Block: Block{Units: 1, Value: 200}, Owner: 0},
		{Block: Block{Units: 2, Value: 100}, Owner: 1},
		{Block: Block{Units: 3, Value: 200}, Owner: 2},
		{Block: Block{Units: 4, Value: 300}, Owner: 3},
	}

	asc := SortByValue(raw, Ascending)
	require.Equal(t, Ascending, asc.Ordering())
	require.Equal(t, []int{1, 0, 2, 3}, owners(asc.Blocks()))

	// Equal values keep their input order in both directions.
	desc := SortByValue(raw, Descending)
	require.Equal(t, []int{3, 0, 2, 1}, owners(desc.Blocks()))

	winners, losers := desc.Partition(5)
	require.Equal(t, Descending, winners.Ordering())
	require.Equal(t, int64(5), TotalUnits(winners.Blocks()))
	require.Equal(t, []int{3, 0}, owners(winners.Blocks()))
	require.Equal(t, []int{2, 1}, owners(losers.Blocks()))
	require.Equal(t, 2, losers.Len())

	for _, seq := range []Sequence{asc, desc} {
		stack := NewStack(seq)
		require.Equal(t, 4, stack.Len())

		top, ok := stack.Peek()
		require.True(t, ok)
		require.Equal(t, 300.0, top.Value)

		var values []float64
		for stack.Len() > 0 {
			b, _ := stack.Pop()
			values = append(values, b.Value)
		}
		require.Equal(t, []float64{300, 200, 200, 100}, values)

		_, ok = stack.Pop()
		require.False(t, ok)
	}
}

func TestGainAgainst(t *testing.T) {
	t.Parallel()

	blocks := []OwnedBlock{
		{Block: Block{Units: 3, Value: 350}},
		{Block: Block{Units: 1, Value: 150}},
	}
	require.Equal(t, 3*249.0+49.0, GainAgainst(Buyer, blocks, 101))
	require.Equal(t, 3*-249.0-49.0, GainAgainst(Seller, blocks, 101))
	require.Zero(t, GainAgainst(Buyer, nil, 101))
}
