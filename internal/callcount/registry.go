package callcount

import (
	"github.com/getsentry/callcount/internal/cost"
)

// Registry maps function names to their call records. Records are only ever
// added, never removed.
//
// A Registry is not safe for concurrent use. Callers accumulating from
// several goroutines either serialize access or keep one registry per
// source and Merge them afterwards.
type Registry struct {
	config  cost.Config
	records map[string]*Record
	// names keeps first insertion order and breaks ranking ties.
	names []string
}

func NewRegistry(config cost.Config) *Registry {
	return &Registry{
		config:  config,
		records: make(map[string]*Record),
	}
}

// Config returns the cost configuration every record is sized with.
func (r *Registry) Config() cost.Config {
	return r.config
}

// AddCall accumulates count calls costing deltas into the record for name,
// creating it on first use.
func (r *Registry) AddCall(name string, deltas cost.Vector, count int64) {
	rec, ok := r.records[name]
	if !ok {
		rec = r.create(name)
	}
	rec.Calls += count
	rec.Costs.Add(deltas)
}

// AddSingleCall records one call of name.
func (r *Registry) AddSingleCall(name string, deltas cost.Vector) {
	r.AddCall(name, deltas, 1)
}

// GetCount returns a copy of the record for name. An unknown name gets a
// zero record inserted into the registry; use Peek to look up without
// side effects.
func (r *Registry) GetCount(name string) Record {
	return r.GetOrCreate(name).Clone()
}

// GetOrCreate returns the live record for name, inserting a zero record if
// needed.
func (r *Registry) GetOrCreate(name string) *Record {
	if rec, ok := r.records[name]; ok {
		return rec
	}
	return r.create(name)
}

// Peek returns a copy of the record for name without modifying the
// registry.
func (r *Registry) Peek(name string) (Record, bool) {
	rec, ok := r.records[name]
	if !ok {
		return Record{}, false
	}
	return rec.Clone(), true
}

// Len returns the number of distinct functions recorded.
func (r *Registry) Len() int {
	return len(r.records)
}

// Names returns the function names in the order they were first seen.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Entries returns a copy of every record, in first-seen order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.names))
	for _, name := range r.names {
		entries = append(entries, Entry{Name: name, Record: r.records[name].Clone()})
	}
	return entries
}

// Merge folds every record of other into r. Both registries must share the
// same number of dimensions.
func (r *Registry) Merge(other *Registry) {
	for _, name := range other.names {
		rec := other.records[name]
		r.AddCall(name, rec.Costs, rec.Calls)
	}
}

func (r *Registry) create(name string) *Record {
	rec := &Record{Costs: r.config.NewVector()}
	r.records[name] = rec
	r.names = append(r.names, name)
	return rec
}
