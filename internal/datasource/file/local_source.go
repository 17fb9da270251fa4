// Package file reads sales exports from the local filesystem: a single CSV
// file as a datasource, and line-based URL lists for batch probing.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one export file from disk.
type Local struct{ path string }

// NewLocal returns a source for the export at path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the export for streaming. A context already canceled at call
// time short-circuits without touching the filesystem; filesystem errors are
// wrapped with the path but stay errors.Is-checkable (os.ErrNotExist and
// friends).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", l.path, err)
	}
	return f, nil
}
