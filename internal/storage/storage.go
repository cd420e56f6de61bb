package storage

import (
	"context"
	"io"
)

// FileStore persists uploaded blobs and hands back a public URL plus the
// stored size. File contents never touch the relational store.
type FileStore interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (url string, sizeMB float64, err error)
	Remove(ctx context.Context, url string) error
}
