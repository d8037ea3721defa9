package ingest

import (
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/cost"
	"github.com/getsentry/callcount/internal/errorutil"
)

// Event is one measurement reported by the instrumentation: count calls of
// Name costing Costs in total, one value per configured dimension.
type Event struct {
	Name  string  `json:"name"`
	Costs []int64 `json:"costs"`
	Count int64   `json:"count,omitempty"`
}

// Decode reads a stream of JSON encoded events and calls fn for each of them
// until the stream ends or fn fails.
func Decode(r io.Reader, fn func(Event) error) error {
	d := gojson.NewDecoder(r)
	for {
		var ev Event
		err := d.Decode(&ev)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: decoding event: %v", errorutil.ErrDataIntegrity, err)
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

// Unmarshal decodes a single event.
func Unmarshal(b []byte) (Event, error) {
	var ev Event
	if err := gojson.Unmarshal(b, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: decoding event: %v", errorutil.ErrDataIntegrity, err)
	}
	return ev, nil
}

// Call is a validated event, ready to be added to a registry.
type Call struct {
	Name   string
	Deltas cost.Vector
	Count  int64
}

// ApplyTo records the call in reg. It does no validation of its own.
func (c Call) ApplyTo(reg *callcount.Registry) {
	reg.AddCall(c.Name, c.Deltas, c.Count)
}

// Prepare validates ev against c. A missing count means a single call.
func Prepare(c cost.Config, ev Event) (Call, error) {
	deltas, count, err := validate(c, ev)
	if err != nil {
		return Call{}, err
	}
	return Call{Name: ev.Name, Deltas: deltas, Count: count}, nil
}

// Apply validates ev against the registry's configuration and records it.
func Apply(reg *callcount.Registry, ev Event) error {
	call, err := Prepare(reg.Config(), ev)
	if err != nil {
		return err
	}
	call.ApplyTo(reg)
	return nil
}

// Load applies every event of r to reg and returns how many were applied.
// Events before the first invalid one stay applied.
func Load(reg *callcount.Registry, r io.Reader) (int, error) {
	var n int
	err := Decode(r, func(ev Event) error {
		if err := Apply(reg, ev); err != nil {
			return fmt.Errorf("event %d: %w", n+1, err)
		}
		n++
		return nil
	})
	return n, err
}

func validate(c cost.Config, ev Event) (cost.Vector, int64, error) {
	if ev.Name == "" {
		return cost.Vector{}, 0, fmt.Errorf("%w: event without a function name", errorutil.ErrDataIntegrity)
	}
	if ev.Count < 0 {
		return cost.Vector{}, 0, fmt.Errorf("%w: negative call count %d for %q", errorutil.ErrDataIntegrity, ev.Count, ev.Name)
	}
	deltas, err := c.VectorOf(ev.Costs...)
	if err != nil {
		return cost.Vector{}, 0, fmt.Errorf("%w: %q: %v", errorutil.ErrDataIntegrity, ev.Name, err)
	}
	count := ev.Count
	if count == 0 {
		count = 1
	}
	return deltas, count, nil
}
