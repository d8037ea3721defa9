// Package storageprovider implements storageutil.ObjectHandler for the
// supported object stores.
package storageprovider

import (
	"context"
	"io"
	"strings"

	"github.com/getsentry/callcount/internal/storageutil"
)

type Handler interface {
	storageutil.ObjectHandler
	io.Closer
}

// Open returns a handler for the bucket at url. gs:// URLs use the Cloud
// Storage client directly, any other scheme goes through gocloud.
func Open(ctx context.Context, url string) (Handler, error) {
	if bucket, ok := strings.CutPrefix(url, "gs://"); ok {
		return NewGcs(ctx, strings.TrimSuffix(bucket, "/"))
	}
	return OpenBucket(ctx, url)
}
