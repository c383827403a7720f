// Package lruset implements the fixed-capacity, recency-ordered collection
// of resident line addresses that backs each (bank, set) partition of a
// cache level.
//
// The recency order lives in an arena of doubly-linked list nodes addressed
// by integer index, with a map from line address to node index. Probing,
// promoting to MRU, and evicting the LRU victim are all O(1), and no
// pointers are aliased between the map and the list.
package lruset

import "fmt"

const nilIndex = -1

// A Result reports what a Touch did to the set.
type Result struct {
	Hit     bool
	Evicted bool
	Victim  uint64
}

// A Set holds up to ways resident line addresses, ordered by recency with
// the least-recently-used line at the front.
type Set struct {
	ways  int
	nodes []node
	index map[uint64]int

	head int
	tail int
	free int
}

type node struct {
	line uint64
	prev int
	next int
}

// New creates a Set with the given number of ways. It panics if ways is
// less than one.
func New(ways int) *Set {
	if ways < 1 {
		panic(fmt.Sprintf("a set must have at least one way, got %d", ways))
	}

	s := &Set{
		ways:  ways,
		nodes: make([]node, ways),
		index: make(map[uint64]int, ways),
		head:  nilIndex,
		tail:  nilIndex,
	}

	for i := range s.nodes {
		s.nodes[i].next = i + 1
	}
	s.nodes[ways-1].next = nilIndex

	return s
}

// Touch probes the set for line and refreshes its recency. A resident line
// is moved to the MRU position regardless of allocate. A missing line is
// inserted at the MRU position when allocate is true, evicting the LRU
// victim if the set is full. The victim, if any, is reported in the result.
func (s *Set) Touch(line uint64, allocate bool) Result {
	if i, ok := s.index[line]; ok {
		s.unlink(i)
		s.pushBack(i)

		return Result{Hit: true}
	}

	if !allocate {
		return Result{}
	}

	res := Result{}
	if len(s.index) == s.ways {
		victim := s.head
		res.Evicted = true
		res.Victim = s.nodes[victim].line

		delete(s.index, res.Victim)
		s.unlink(victim)
		s.pushFree(victim)
	}

	i := s.popFree()
	s.nodes[i].line = line
	s.pushBack(i)
	s.index[line] = i

	return res
}

// Len returns the number of resident lines.
func (s *Set) Len() int {
	return len(s.index)
}

// Ways returns the capacity of the set.
func (s *Set) Ways() int {
	return s.ways
}

// Contains reports whether line is resident.
func (s *Set) Contains(line uint64) bool {
	_, ok := s.index[line]
	return ok
}

// Lines returns the resident lines in recency order, least recently used
// first. It allocates and is meant for inspection, not the access path.
func (s *Set) Lines() []uint64 {
	lines := make([]uint64, 0, len(s.index))
	for i := s.head; i != nilIndex; i = s.nodes[i].next {
		lines = append(lines, s.nodes[i].line)
	}

	return lines
}

func (s *Set) unlink(i int) {
	n := s.nodes[i]

	if n.prev == nilIndex {
		s.head = n.next
	} else {
		s.nodes[n.prev].next = n.next
	}

	if n.next == nilIndex {
		s.tail = n.prev
	} else {
		s.nodes[n.next].prev = n.prev
	}
}

func (s *Set) pushBack(i int) {
	s.nodes[i].prev = s.tail
	s.nodes[i].next = nilIndex

	if s.tail == nilIndex {
		s.head = i
	} else {
		s.nodes[s.tail].next = i
	}

	s.tail = i
}

func (s *Set) pushFree(i int) {
	s.nodes[i].next = s.free
	s.free = i
}

func (s *Set) popFree() int {
	i := s.free
	s.free = s.nodes[i].next

	return i
}
