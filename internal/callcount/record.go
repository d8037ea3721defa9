package callcount

import "github.com/getsentry/callcount/internal/cost"

type (
	// Record aggregates every call seen for one function.
	Record struct {
		Calls int64
		Costs cost.Vector
	}

	// Entry is a named copy of a Record, detached from the registry it was
	// read from.
	Entry struct {
		Name   string
		Record Record
	}
)

// Clone returns a copy of the record that shares no cost storage with r.
func (r Record) Clone() Record {
	return Record{Calls: r.Calls, Costs: r.Costs.Clone()}
}

// Average returns the cost per call for dimension i, 0 when there are no
// calls.
func (r Record) Average(i int) int64 {
	if r.Calls == 0 {
		return 0
	}
	return r.Costs.At(i) / r.Calls
}

// AverageCost returns the primary cost per call.
func (r Record) AverageCost() int64 {
	return r.Average(0)
}

// TotalCost returns the primary cost.
func (r Record) TotalCost() int64 {
	return r.Costs.Primary()
}
