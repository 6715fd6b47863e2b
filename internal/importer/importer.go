package importer

import (
	"io"

	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
)

// Source identifies the publisher of an inflation export.
type Source string

const (
	SourceINDEC Source = "indec"
)

type Importer interface {
	Parse(r io.Reader) ([]inflation.Record, error)
}
