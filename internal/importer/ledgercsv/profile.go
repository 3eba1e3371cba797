package ledgercsv

import (
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

// Profile describes the column layout of a supported ledger dump. Optional
// columns are left empty when a layout does not carry them.
type Profile struct {
	Name      string
	DateCol   string
	UserCol   string
	AmountCol string

	// TypeCol holds "expense" or "income"; without it every row is FixedType.
	TypeCol   string
	FixedType transaction.Type

	DescCol     string
	CurrencyCol string
	CategoryCol string
	UsernameCol string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.UserCol, p.AmountCol}

	if p.TypeCol != "" {
		cols = append(cols, p.TypeCol)
	}

	if p.DescCol != "" {
		cols = append(cols, p.DescCol)
	}

	return cols
}

// profiles are tried in order; the first whose required columns all appear
// in a header row wins.
var profiles = []Profile{
	{
		Name:        "ledger",
		DateCol:     "date",
		UserCol:     "user_id",
		TypeCol:     "type",
		AmountCol:   "amount",
		DescCol:     "description",
		CurrencyCol: "currency",
		CategoryCol: "category",
		UsernameCol: "username",
	},
	{
		Name:        "card_fill",
		DateCol:     "fill_date",
		UserCol:     "user_id",
		AmountCol:   "amount",
		FixedType:   transaction.TypeExpense,
		DescCol:     "description",
		CategoryCol: "category_code",
	},
	{
		Name:        "income",
		DateCol:     "income_date",
		UserCol:     "user_id",
		AmountCol:   "amount",
		FixedType:   transaction.TypeIncome,
		CurrencyCol: "currency",
	},
}
