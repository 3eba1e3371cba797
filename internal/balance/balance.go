package balance

import (
	"cmp"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

// UserBalance is a user's spend in a period and how far it is from an equal
// share of the period's total. Positive balances are owed to the user.
type UserBalance struct {
	User    transaction.User
	Amount  int64
	Balance int64
}

// MonthBalances holds the balances of one calendar month.
type MonthBalances struct {
	Month    time.Month
	Balances []UserBalance
}

// SettleMonthly settles every month of txs on its own, so a month's total
// is shared only between the users who paid in that month. Months without
// open expenses are left out; the rest come in calendar order.
func SettleMonthly(txs []*transaction.Transaction) []MonthBalances {
	byMonth := make(map[time.Month][]*transaction.Transaction)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense || tx.IsNetted {
			continue
		}

		byMonth[tx.Date.Month()] = append(byMonth[tx.Date.Month()], tx)
	}

	out := make([]MonthBalances, 0, len(byMonth))
	for m, monthTxs := range byMonth {
		out = append(out, MonthBalances{Month: m, Balances: Settle(monthTxs)})
	}

	slices.SortFunc(out, func(a, b MonthBalances) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return out
}

// Settle splits the expenses of txs equally between the users who paid.
// Shares are whole cents; the remainder cents go to the lowest user ids
// so the balances always add up to zero.
func Settle(txs []*transaction.Transaction) []UserBalance {
	byUser := make(map[int64]*UserBalance)

	var total int64

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense || tx.IsNetted {
			continue
		}

		ub, ok := byUser[tx.User.ID]
		if !ok {
			ub = &UserBalance{User: tx.User}
			byUser[tx.User.ID] = ub
		}

		ub.Amount += tx.Amount
		total += tx.Amount
	}

	if len(byUser) == 0 {
		return []UserBalance{}
	}

	out := make([]UserBalance, 0, len(byUser))
	for _, ub := range byUser {
		out = append(out, *ub)
	}

	slices.SortFunc(out, func(a, b UserBalance) int {
		return cmp.Compare(a.User.ID, b.User.ID)
	})

	n := int64(len(out))
	share, rem := total/n, total%n

	for i := range out {
		owed := share
		if int64(i) < rem {
			owed++
		}

		out[i].Balance = out[i].Amount - owed
	}

	return out
}
