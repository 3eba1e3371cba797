package importer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/importer/ledgercsv"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

type Service struct {
	importers map[Format]Importer
}

func NewService(loc *time.Location) *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatLedgerCSV: ledgercsv.NewParser(loc),
		},
	}
}

// Formats lists the registered formats in name order.
func (s *Service) Formats() []Format {
	return slices.Sorted(maps.Keys(s.importers))
}

// Import parses r into transactions owned by scopeID.
func (s *Service) Import(format Format, scopeID int64, r io.Reader) ([]transaction.CreateParams, error) {
	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		params[i].ScopeID = scopeID
	}

	return params, nil
}
