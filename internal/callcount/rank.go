package callcount

import (
	"container/heap"
	"sort"
)

// Matcher selects function names, typically a compiled pattern.
type Matcher interface {
	Search(name string) bool
}

// MatcherFunc adapts a plain function to a Matcher.
type MatcherFunc func(name string) bool

func (f MatcherFunc) Search(name string) bool {
	return f(name)
}

type (
	rankKey func(Record) int64

	candidate struct {
		name   string
		record *Record
		key    int64
		seq    int
	}

	// candidateHeap keeps the current top-k with the lowest ranked candidate
	// at the root.
	candidateHeap []candidate
)

func totalCost(r Record) int64 {
	return r.TotalCost()
}

func averageCost(r Record) int64 {
	return r.AverageCost()
}

// before reports whether a ranks ahead of b: higher key first, then earlier
// insertion.
func before(a, b candidate) bool {
	if a.key != b.key {
		return a.key > b.key
	}
	return a.seq < b.seq
}

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return before(h[j], h[i]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// selectTop returns the k best ranked candidates in rank order, without
// ordering the rest. k <= 0 selects everything.
func selectTop(candidates []candidate, k int) []Entry {
	if k <= 0 || k > len(candidates) {
		k = len(candidates)
	}
	h := make(candidateHeap, 0, k)
	for _, c := range candidates {
		if len(h) < k {
			heap.Push(&h, c)
			continue
		}
		if before(c, h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}
	sort.Slice(h, func(i, j int) bool {
		return before(h[i], h[j])
	})
	entries := make([]Entry, 0, len(h))
	for _, c := range h {
		entries = append(entries, Entry{Name: c.name, Record: c.record.Clone()})
	}
	return entries
}

func (r *Registry) candidates(key rankKey) []candidate {
	candidates := make([]candidate, 0, len(r.names))
	for i, name := range r.names {
		rec := r.records[name]
		candidates = append(candidates, candidate{name: name, record: rec, key: key(*rec), seq: i})
	}
	return candidates
}

func entryCandidates(entries []Entry, key rankKey) []candidate {
	candidates := make([]candidate, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		candidates = append(candidates, candidate{name: e.Name, record: &e.Record, key: key(e.Record), seq: i})
	}
	return candidates
}

// RankByTotalCost returns up to tableSize records ordered by descending
// primary cost. A tableSize of 0 returns every record.
func (r *Registry) RankByTotalCost(tableSize int) []Entry {
	return selectTop(r.candidates(totalCost), tableSize)
}

// RankByAverageCost returns up to tableSize records ordered by descending
// primary cost per call. A tableSize of 0 returns every record.
func (r *Registry) RankByAverageCost(tableSize int) []Entry {
	return selectTop(r.candidates(averageCost), tableSize)
}

// Filter returns a copy of every record whose name matches m, in first-seen
// order.
func (r *Registry) Filter(m Matcher) []Entry {
	entries := make([]Entry, 0)
	for _, name := range r.names {
		if m.Search(name) {
			entries = append(entries, Entry{Name: name, Record: r.records[name].Clone()})
		}
	}
	return entries
}

// RankEntriesByTotalCost ranks an already selected set of entries by
// primary cost. Ties keep the order of entries.
func RankEntriesByTotalCost(entries []Entry, tableSize int) []Entry {
	return selectTop(entryCandidates(entries, totalCost), tableSize)
}

// RankEntriesByAverageCost ranks an already selected set of entries by
// primary cost per call. Ties keep the order of entries.
func RankEntriesByAverageCost(entries []Entry, tableSize int) []Entry {
	return selectTop(entryCandidates(entries, averageCost), tableSize)
}

// FilteredByTotalCost ranks the records matching m by primary cost.
func (r *Registry) FilteredByTotalCost(m Matcher, tableSize int) []Entry {
	return RankEntriesByTotalCost(r.Filter(m), tableSize)
}

// FilteredByAverageCost ranks the records matching m by cost per call.
func (r *Registry) FilteredByAverageCost(m Matcher, tableSize int) []Entry {
	return RankEntriesByAverageCost(r.Filter(m), tableSize)
}
