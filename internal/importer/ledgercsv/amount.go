package ledgercsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount accepts "1234.56", "1,234.56", "1.234,56" and "1234,56". The
// separator that appears last is the decimal one.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' || r == '\'' {
			return -1
		}

		return r
	}, s)

	dot, comma := strings.LastIndex(clean, "."), strings.LastIndex(clean, ",")

	switch {
	case comma > dot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case dot > comma && comma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
