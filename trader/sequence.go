package trader

import "sort"

// Ordering is the direction a Sequence is sorted in.
type Ordering uint8

const (
	// Ascending puts the cheapest block first.
	Ascending Ordering = iota

	// Descending puts the most valuable block first.
	Descending
)

// Sequence is a list of owned blocks that is guaranteed to be sorted by
// value in a known direction. Blocks with equal values keep the relative
// order they had before sorting.
type Sequence struct {
	blocks   []OwnedBlock
	ordering Ordering
}

// SortByValue returns a sorted copy of the given blocks.
func SortByValue(blocks []OwnedBlock, ordering Ordering) Sequence {
	sorted := make([]OwnedBlock, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		if ordering == Descending {
			return sorted[i].Value > sorted[j].Value
		}

		return sorted[i].Value < sorted[j].Value
	})

	return Sequence{
		blocks:   sorted,
		ordering: ordering,
	}
}

// Ordering returns the direction the sequence is sorted in.
func (s Sequence) Ordering() Ordering {
	return s.ordering
}

// Len returns the number of blocks in the sequence.
func (s Sequence) Len() int {
	return len(s.blocks)
}

// Blocks returns a copy of the blocks in sequence order.
func (s Sequence) Blocks() []OwnedBlock {
	blocks := make([]OwnedBlock, len(s.blocks))
	copy(blocks, s.blocks)

	return blocks
}

// Partition splits the sequence into winners and losers, filling the quota
// from the front of the sequence. Both halves stay sorted in the sequence's
// ordering.
func (s Sequence) Partition(quota int64) (Sequence, Sequence) {
	winners, losers := Partition(s.blocks, quota)

	return Sequence{blocks: winners, ordering: s.ordering},
		Sequence{blocks: losers, ordering: s.ordering}
}

// Stack is a value ordered stack of blocks whose top is always the most
// valuable remaining block.
type Stack struct {
	// blocks is sorted by ascending value so the top of the stack is the
	// last element.
	blocks []OwnedBlock
}

// NewStack creates a stack out of a sequence.
func NewStack(s Sequence) *Stack {
	blocks := s.Blocks()
	if s.ordering == Descending {
		for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
			blocks[i], blocks[j] = blocks[j], blocks[i]
		}
	}

	return &Stack{blocks: blocks}
}

// Len returns the number of blocks left on the stack.
func (s *Stack) Len() int {
	return len(s.blocks)
}

// Peek returns the most valuable block without removing it. The second
// return value is false if the stack is empty.
func (s *Stack) Peek() (OwnedBlock, bool) {
	if len(s.blocks) == 0 {
		return OwnedBlock{}, false
	}

	return s.blocks[len(s.blocks)-1], true
}

// Pop removes the most valuable block from the stack.
func (s *Stack) Pop() (OwnedBlock, bool) {
	top, ok := s.Peek()
	if ok {
		s.blocks = s.blocks[:len(s.blocks)-1]
	}

	return top, ok
}
