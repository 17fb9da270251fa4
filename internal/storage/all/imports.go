// Package all wires every built-in storage backend into the storage
// factory. It exists purely for side effects: a blank import of this
// package runs each backend's init, which registers its factory with the
// storage package. Binaries that want a subset can blank-import individual
// backends instead.
package all

import (
	_ "salespipe/internal/storage/mysql"
	_ "salespipe/internal/storage/postgres"
	_ "salespipe/internal/storage/sqlite"
)
