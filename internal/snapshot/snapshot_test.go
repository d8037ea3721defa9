package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gocloud.dev/blob/memblob"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/cost"
	"github.com/getsentry/callcount/internal/errorutil"
	"github.com/getsentry/callcount/internal/storageprovider"
	"github.com/getsentry/callcount/internal/storageutil"
	"github.com/getsentry/callcount/internal/testutil"
)

var dimensions = cost.MustConfig([]string{"usecs", "cycles"})

func newRegistry() *callcount.Registry {
	r := callcount.NewRegistry(dimensions)
	r.AddCall("Parser::Load", dimensions.MustVector(900, 30), 3)
	r.AddCall("Writer::Flush", dimensions.MustVector(1000, 10), 10)
	return r
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	h := &storageprovider.Blob{Bucket: memblob.OpenBucket(nil)}
	defer h.Close()

	original := newRegistry()
	name, err := Save(ctx, h, original)
	if err != nil {
		t.Fatalf("we should be able to save: %v", err)
	}
	if !strings.HasPrefix(name, objectPrefix+"/") {
		t.Fatalf("unexpected object name %q", name)
	}

	restored := callcount.NewRegistry(dimensions)
	if err := Load(ctx, h, name, restored); err != nil {
		t.Fatalf("we should be able to load: %v", err)
	}
	if diff := testutil.Diff(restored.Entries(), original.Entries()); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	h := &storageprovider.Blob{Bucket: memblob.OpenBucket(nil)}
	defer h.Close()

	err := Load(context.Background(), h, "snapshots/missing", callcount.NewRegistry(dimensions))
	if !errors.Is(err, storageutil.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		wantErr  bool
	}{
		{
			name: "matching dimensions",
			snapshot: Snapshot{
				Dimensions: []string{"usecs", "cycles"},
				Functions:  []Function{{Name: "a", Calls: 1, Costs: []int64{1, 2}}},
			},
		},
		{
			name:     "different dimension count",
			snapshot: Snapshot{Dimensions: []string{"usecs"}},
			wantErr:  true,
		},
		{
			name:     "different dimension names",
			snapshot: Snapshot{Dimensions: []string{"usecs", "bytes"}},
			wantErr:  true,
		},
		{
			name: "negative call count",
			snapshot: Snapshot{
				Dimensions: []string{"usecs", "cycles"},
				Functions: []Function{
					{Name: "Parser::Load", Calls: 1, Costs: []int64{1, 2}},
					{Name: "Writer::Flush", Calls: -5, Costs: []int64{1, 2}},
				},
			},
			wantErr: true,
		},
		{
			name: "missing name",
			snapshot: Snapshot{
				Dimensions: []string{"usecs", "cycles"},
				Functions:  []Function{{Calls: 1, Costs: []int64{1, 2}}},
			},
			wantErr: true,
		},
		{
			name: "short cost vector",
			snapshot: Snapshot{
				Dimensions: []string{"usecs", "cycles"},
				Functions:  []Function{{Name: "a", Calls: 1, Costs: []int64{1}}},
			},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := newRegistry()
			before := r.Entries()
			err := test.snapshot.Restore(r)
			if test.wantErr {
				if !errors.Is(err, errorutil.ErrDataIntegrity) {
					t.Fatalf("expected a data integrity error, got %v", err)
				}
				if diff := testutil.Diff(r.Entries(), before); diff != "" {
					t.Fatalf("a rejected snapshot should leave the registry untouched: got - want +\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFromRegistry(t *testing.T) {
	s := FromRegistry(newRegistry())
	want := []Function{
		{Name: "Parser::Load", Calls: 3, Costs: []int64{900, 30}},
		{Name: "Writer::Flush", Calls: 10, Costs: []int64{1000, 10}},
	}
	if diff := testutil.Diff(s.Functions, want); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if diff := testutil.Diff(s.Dimensions, []string{"usecs", "cycles"}); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}
