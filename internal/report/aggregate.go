package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

// grid holds per-month totals of one year. Months outside January..December
// read as zero and are never stored.
type grid [12]int64

func (g *grid) add(m time.Month, amount int64) {
	if m < time.January || m > time.December {
		return
	}

	g[m-1] += amount
}

func (g *grid) month(m time.Month) int64 {
	if m < time.January || m > time.December {
		return 0
	}

	return g[m-1]
}

func (g *grid) sum(months []time.Month) int64 {
	var total int64
	for _, m := range months {
		total += g.month(m)
	}

	return total
}

func (g *grid) year() int64 {
	var total int64
	for _, v := range g {
		total += v
	}

	return total
}

type CategorySum struct {
	Category category.Category
	// Amount covers the summary's requested months.
	Amount int64

	months grid
}

func (c CategorySum) Month(m time.Month) int64 {
	return c.months.month(m)
}

// Quarter sums the whole quarter, regardless of the requested months.
func (c CategorySum) Quarter(q Quarter) int64 {
	return c.months.sum(q.Months())
}

func (c CategorySum) QuarterOf(m time.Month) int64 {
	return c.Quarter(QuarterOf(m))
}

func (c CategorySum) Year() int64 {
	return c.months.year()
}

type UserSum struct {
	User   transaction.User
	Amount int64

	months grid
}

// Summary is one year of expenses grouped by category and by user.
// Categories lists every category with spend anywhere in the year; Users
// lists only users with spend in Months.
type Summary struct {
	Year       int
	Months     []time.Month
	Categories []CategorySum
	Users      []UserSum
}

// Aggregate groups the expenses of year in a single pass. Transactions
// outside year and income are ignored. Categories missing from cats are
// reported under their bare code.
func Aggregate(year int, months []time.Month, txs []*transaction.Transaction, cats []*category.Category) *Summary {
	known := make(map[string]*category.Category, len(cats))
	for _, c := range cats {
		known[c.Code] = c
	}

	byCategory := make(map[string]*CategorySum)
	byUser := make(map[int64]*UserSum)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense || tx.Date.Year() != year {
			continue
		}

		m := tx.Date.Month()

		cs, ok := byCategory[tx.CategoryCode]
		if !ok {
			cs = &CategorySum{Category: category.Category{Code: tx.CategoryCode, Name: tx.CategoryCode}}
			if c, found := known[tx.CategoryCode]; found {
				cs.Category = *c
			}

			byCategory[tx.CategoryCode] = cs
		}

		cs.months.add(m, tx.Amount)

		us, ok := byUser[tx.User.ID]
		if !ok {
			us = &UserSum{User: tx.User}
			byUser[tx.User.ID] = us
		}

		us.months.add(m, tx.Amount)
	}

	s := &Summary{Year: year}

	for _, cs := range byCategory {
		s.Categories = append(s.Categories, *cs)
	}

	for _, us := range byUser {
		s.Users = append(s.Users, *us)
	}

	return s.Narrow(months)
}

// Narrow recomputes the requested-month amounts for another month
// selection from the same yearly data.
func (s *Summary) Narrow(months []time.Month) *Summary {
	out := &Summary{
		Year:       s.Year,
		Months:     normalizeMonths(months),
		Categories: make([]CategorySum, 0, len(s.Categories)),
	}

	for _, cs := range s.Categories {
		cs.Amount = cs.months.sum(out.Months)
		out.Categories = append(out.Categories, cs)
	}

	for _, us := range s.Users {
		us.Amount = us.months.sum(out.Months)
		if us.Amount == 0 {
			continue
		}

		out.Users = append(out.Users, us)
	}

	slices.SortFunc(out.Categories, func(a, b CategorySum) int {
		return cmp.Or(cmp.Compare(b.Amount, a.Amount), cmp.Compare(a.Category.Code, b.Category.Code))
	})

	slices.SortFunc(out.Users, func(a, b UserSum) int {
		return cmp.Or(cmp.Compare(b.Amount, a.Amount), cmp.Compare(a.User.ID, b.User.ID))
	})

	return out
}

// Total is the spend over the requested months.
func (s *Summary) Total() int64 {
	var total int64
	for _, cs := range s.Categories {
		total += cs.Amount
	}

	return total
}

func (s *Summary) Category(code string) (CategorySum, bool) {
	for _, cs := range s.Categories {
		if cs.Category.Code == code {
			return cs, true
		}
	}

	return CategorySum{}, false
}

func (s *Summary) User(id int64) (UserSum, bool) {
	for _, us := range s.Users {
		if us.User.ID == id {
			return us, true
		}
	}

	return UserSum{}, false
}

// AggregateIncome sums income per user over the requested months of year.
func AggregateIncome(year int, months []time.Month, txs []*transaction.Transaction) []UserSum {
	months = normalizeMonths(months)
	byUser := make(map[int64]*UserSum)

	for _, tx := range txs {
		if tx.Type != transaction.TypeIncome || tx.Date.Year() != year {
			continue
		}

		us, ok := byUser[tx.User.ID]
		if !ok {
			us = &UserSum{User: tx.User}
			byUser[tx.User.ID] = us
		}

		us.months.add(tx.Date.Month(), tx.Amount)
	}

	var out []UserSum

	for _, us := range byUser {
		us.Amount = us.months.sum(months)
		if us.Amount == 0 {
			continue
		}

		out = append(out, *us)
	}

	slices.SortFunc(out, func(a, b UserSum) int {
		return cmp.Or(cmp.Compare(b.Amount, a.Amount), cmp.Compare(a.User.ID, b.User.ID))
	})

	return out
}
