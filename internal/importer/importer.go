package importer

import (
	"io"

	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

// Format names a supported statement layout.
type Format string

const (
	FormatLedgerCSV Format = "ledgercsv"
)

// Importer turns one statement layout into create requests. Rows carry no
// scope; the service assigns it.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
