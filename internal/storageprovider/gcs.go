package storageprovider

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/getsentry/callcount/internal/storageutil"
)

// Gcs implements storageutil.ObjectHandler on top of a Cloud Storage bucket.
type Gcs struct {
	BucketHandle *storage.BucketHandle

	client *storage.Client
}

// NewGcs connects to Cloud Storage with the default credentials.
func NewGcs(ctx context.Context, bucket string) (*Gcs, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Gcs{BucketHandle: client.Bucket(bucket), client: client}, nil
}

func (g *Gcs) Put(ctx context.Context, name string) (io.WriteCloser, error) {
	return g.BucketHandle.Object(name).NewWriter(ctx), nil
}

// Get returns storageutil.ErrObjectNotFound when name does not exist.
func (g *Gcs) Get(ctx context.Context, name string) (storageutil.ReadSizeCloser, error) {
	rc, err := g.BucketHandle.Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, storageutil.ErrObjectNotFound
		}
		return nil, err
	}
	return rc, nil
}

// Close releases the client created by NewGcs. It is a no-op for a handle
// built around a caller owned bucket.
func (g *Gcs) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
