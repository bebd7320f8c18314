package storage

import "io"

// BlobStore holds chapter illustration assets (diagrams, process
// charts) keyed as "chapters/{chapterID}/{name}".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
