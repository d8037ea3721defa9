package storageprovider

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/getsentry/callcount/internal/storageutil"
	"github.com/getsentry/callcount/internal/testutil"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	for name, url := range map[string]string{
		"file":   "file://" + t.TempDir(),
		"memory": "mem://",
	} {
		t.Run(name, func(t *testing.T) {
			h, err := Open(ctx, url)
			if err != nil {
				t.Fatalf("cannot open %s: %v", url, err)
			}
			defer h.Close()

			w, err := h.Put(ctx, "snapshots/a")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := io.WriteString(w, "payload"); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			r, err := h.Get(ctx, "snapshots/a")
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			b, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if diff := testutil.Diff(string(b), "payload"); diff != "" {
				t.Fatalf("Result mismatch: got - want +\n%s", diff)
			}
			if r.Size() != int64(len("payload")) {
				t.Fatalf("expected size %d, got %d", len("payload"), r.Size())
			}

			if _, err := h.Get(ctx, "snapshots/b"); !errors.Is(err, storageutil.ErrObjectNotFound) {
				t.Fatalf("expected %v, got %v", storageutil.ErrObjectNotFound, err)
			}
		})
	}
}

func TestOpenUnknownScheme(t *testing.T) {
	if _, err := Open(context.Background(), "nope://bucket"); err == nil {
		t.Fatal("expected an error")
	}
}
