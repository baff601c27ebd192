package storage

import "io"

// BlobStore persists opaque blobs: retained SIQ archives and editor
// asset uploads.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
