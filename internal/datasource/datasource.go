// Package datasource abstracts where a sales export comes from. A pipeline
// config names a source kind (local file or HTTP endpoint); the parser only
// ever sees the opened stream.
package datasource

import (
	"context"
	"io"
)

// Source yields a readable stream of raw CSV bytes. Each Open call produces
// an independent reader the caller must close.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
