package parser

import (
	"io"

	"salespipe/pkg/records"
)

// Parser turns a raw byte stream into parsed records. The int result is the
// number of rows skipped due to parse errors (soft-fail).
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
