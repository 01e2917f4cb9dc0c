// Package blob manages logo files in external object storage behind a
// pluggable backend: an S3-compatible store or a local directory.
package blob

import "context"

// Storage is the capability interface a backend must provide. Put returns a
// stable external URL for the stored object; Delete takes that URL back and
// must not fail on an already-missing object.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}
