// Package snapshot saves the contents of a call registry to object storage
// and restores it later.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/cost"
	"github.com/getsentry/callcount/internal/errorutil"
	"github.com/getsentry/callcount/internal/storageutil"
)

const objectPrefix = "snapshots"

type (
	Snapshot struct {
		Dimensions []string   `json:"dimensions"`
		CreatedAt  int64      `json:"created_at"`
		Functions  []Function `json:"functions"`
	}

	Function struct {
		Name  string  `json:"name"`
		Calls int64   `json:"calls"`
		Costs []int64 `json:"costs"`
	}
)

// FromRegistry copies every record of r, in first-seen order.
func FromRegistry(r *callcount.Registry) Snapshot {
	entries := r.Entries()
	s := Snapshot{
		Dimensions: append([]string(nil), r.Config().Names...),
		CreatedAt:  time.Now().Unix(),
		Functions:  make([]Function, 0, len(entries)),
	}
	for _, e := range entries {
		s.Functions = append(s.Functions, Function{
			Name:  e.Name,
			Calls: e.Record.Calls,
			Costs: e.Record.Costs.Values(),
		})
	}
	return s
}

// Restore adds every function of the snapshot to r. The registry must
// measure the same dimensions, in the same order, as the snapshot. Nothing
// is added when any function is invalid.
func (s Snapshot) Restore(r *callcount.Registry) error {
	c := r.Config()
	if len(s.Dimensions) != c.Dimensions() {
		return fmt.Errorf("%w: snapshot has %d dimensions, registry has %d", errorutil.ErrDataIntegrity, len(s.Dimensions), c.Dimensions())
	}
	for i, name := range s.Dimensions {
		if name != c.Name(i) {
			return fmt.Errorf("%w: snapshot dimension %d is %q, registry has %q", errorutil.ErrDataIntegrity, i, name, c.Name(i))
		}
	}
	deltas := make([]cost.Vector, len(s.Functions))
	for i, f := range s.Functions {
		if f.Name == "" {
			return fmt.Errorf("%w: function %d has no name", errorutil.ErrDataIntegrity, i)
		}
		if f.Calls < 0 {
			return fmt.Errorf("%w: negative call count %d for %q", errorutil.ErrDataIntegrity, f.Calls, f.Name)
		}
		v, err := c.VectorOf(f.Costs...)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", errorutil.ErrDataIntegrity, f.Name, err)
		}
		deltas[i] = v
	}
	for i, f := range s.Functions {
		r.AddCall(f.Name, deltas[i], f.Calls)
	}
	return nil
}

// NewObjectName returns a unique object name for a snapshot.
func NewObjectName() string {
	return storageutil.ObjectName(objectPrefix)
}

// Save writes a snapshot of r under a new object name and returns it.
func Save(ctx context.Context, h storageutil.ObjectHandler, r *callcount.Registry) (string, error) {
	name := NewObjectName()
	if err := SaveAs(ctx, h, name, r); err != nil {
		return "", err
	}
	return name, nil
}

// SaveAs writes a snapshot of r under name.
func SaveAs(ctx context.Context, h storageutil.ObjectHandler, name string, r *callcount.Registry) error {
	return Write(ctx, h, name, FromRegistry(r))
}

// Write stores s under name.
func Write(ctx context.Context, h storageutil.ObjectHandler, name string, s Snapshot) error {
	if err := storageutil.CompressedWrite(ctx, h, name, s); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", name, err)
	}
	return nil
}

// Load reads the snapshot stored under name and restores it into r.
func Load(ctx context.Context, h storageutil.ObjectHandler, name string, r *callcount.Registry) error {
	var s Snapshot
	if err := storageutil.UnmarshalCompressed(ctx, h, name, &s); err != nil {
		return fmt.Errorf("reading snapshot %s: %w", name, err)
	}
	return s.Restore(r)
}
