package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/rentbook/internal/importer/indec"
	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
)

type Service struct {
	importers map[Source]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Source]Importer{
			SourceINDEC: indec.NewParser(),
		},
	}
}

// Parse reads an export of the given source. An empty source defaults to INDEC.
func (s *Service) Parse(source Source, r io.Reader) ([]inflation.Record, error) {
	if source == "" {
		source = SourceINDEC
	}

	importer, ok := s.importers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", source)
	}

	return importer.Parse(r)
}
