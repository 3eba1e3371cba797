// Package render turns reports into plain-text tables for chat and terminal
// clients.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/balance"
	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Amount formats cents with two decimals.
func Amount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Mark is the usage column of a threshold: "-" without a limit.
func Mark(th budget.Threshold) string {
	switch th.Status() {
	case budget.StatusWithin:
		return "ok"
	case budget.StatusExceeded:
		return "over"
	default:
		return "-"
	}
}

func limit(th budget.Threshold) string {
	if th.Limit == nil {
		return "-"
	}

	return Amount(*th.Limit)
}

// newTable right-aligns the columns listed in numeric.
func newTable(headers []string, numeric ...int) *table.Table {
	isNumeric := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		isNumeric[c] = true
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case isNumeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

func categoryName(cs report.CategorySum) string {
	c := cs.Category
	if c.Name == "" || c.Name == c.Code {
		return c.Code
	}

	return c.Name
}

func usersTable(users []report.UserSum) string {
	t := newTable([]string{"User", "Amount"}, 1)
	for _, u := range users {
		t.Row(u.User.DisplayName(), Amount(u.Amount))
	}

	return t.String()
}

func proportions(p *proportion.Proportions) string {
	return fmt.Sprintf("Proportion: actual %s, target %s", p.Actual, p.Target)
}

func section(title string, parts ...string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))

	for _, p := range parts {
		if p == "" {
			continue
		}

		b.WriteString("\n")
		b.WriteString(p)
	}

	return b.String()
}

// Month renders one month of a monthly overview. Quarter and year tables
// list only categories that carry those limits.
func Month(year int, m overview.MonthOverview) string {
	title := fmt.Sprintf("%s %d: total %s", m.Month, year, Amount(m.Total))

	if len(m.Categories) == 0 && len(m.Income) == 0 {
		return section(title, "No expenses.")
	}

	cats := newTable([]string{"Category", "Amount", "Limit", "Usage"}, 1, 2)
	quarter := newTable([]string{"Category", report.QuarterOf(m.Month).String(), "Limit", "Usage"}, 1, 2)
	yearly := newTable([]string{"Category", fmt.Sprint(year), "Limit", "Usage"}, 1, 2)

	var hasQuarter, hasYear bool

	for _, line := range m.Categories {
		name := categoryName(line.Sum)
		u := line.Usage

		if line.Sum.Amount != 0 || u.Month.Limit != nil {
			cats.Row(name, Amount(u.Month.Amount), limit(u.Month), Mark(u.Month))
		}

		if u.Quarter.Limit != nil {
			hasQuarter = true

			quarter.Row(name, Amount(u.Quarter.Amount), limit(u.Quarter), Mark(u.Quarter))
		}

		if u.Year.Limit != nil {
			hasYear = true

			yearly.Row(name, Amount(u.Year.Amount), limit(u.Year), Mark(u.Year))
		}
	}

	parts := []string{usersTable(m.Users), cats.String()}

	if hasQuarter {
		parts = append(parts, quarter.String())
	}

	if hasYear {
		parts = append(parts, yearly.String())
	}

	if len(m.Income) > 0 {
		parts = append(parts, "Income", usersTable(m.Income))
	}

	if m.Proportions != nil {
		parts = append(parts, proportions(m.Proportions))
	}

	return section(title, parts...)
}

func Monthly(m *overview.Monthly) string {
	months := make([]string, 0, len(m.Months))
	for _, mo := range m.Months {
		months = append(months, Month(m.Year, mo))
	}

	return strings.Join(months, "\n\n")
}

func Yearly(y *overview.Yearly) string {
	title := fmt.Sprintf("%d: total %s", y.Year, Amount(y.Total))

	if len(y.Categories) == 0 {
		return section(title, "No expenses.")
	}

	cats := newTable([]string{"Category", "Amount", "Limit", "Usage"}, 1, 2)
	for _, line := range y.Categories {
		cats.Row(categoryName(line.Sum), Amount(line.Usage.Year.Amount), limit(line.Usage.Year), Mark(line.Usage.Year))
	}

	parts := []string{usersTable(y.Users), cats.String()}

	if len(y.Income) > 0 {
		parts = append(parts, "Income", usersTable(y.Income))
	}

	if y.Proportions != nil {
		parts = append(parts, proportions(y.Proportions))
	}

	return section(title, parts...)
}

// Debts renders a debt report, one table per month. Positive balances are
// owed to the user.
func Debts(title string, months []balance.MonthBalances) string {
	if len(months) == 0 {
		return section(title, "Nothing to settle.")
	}

	parts := make([]string, 0, len(months))
	for _, mb := range months {
		t := newTable([]string{"User", "Spent", "Balance"}, 1, 2)
		for _, b := range mb.Balances {
			t.Row(b.User.DisplayName(), Amount(b.Amount), signed(b.Balance))
		}

		parts = append(parts, titleStyle.Render(mb.Month.String())+"\n"+t.String())
	}

	return section(title, parts...)
}

func signed(cents int64) string {
	if cents > 0 {
		return "+" + Amount(cents)
	}

	return Amount(cents)
}

func Transactions(txs []*transaction.Transaction) string {
	if len(txs) == 0 {
		return "No transactions."
	}

	t := newTable([]string{"Date", "User", "Amount", "Category", "Description"}, 2)

	for _, tx := range txs {
		amount := Amount(tx.Amount)
		if tx.OriginalAmount != nil {
			amount = fmt.Sprintf("%s (%s %s)", amount, tx.OriginalAmount.StringFixed(2), tx.OriginalCurrency)
		}

		cat := tx.CategoryCode
		if tx.Type == transaction.TypeIncome {
			cat = "income"
		}

		t.Row(tx.Date.Format(time.DateOnly), tx.User.DisplayName(), amount, cat, tx.Description)
	}

	return t.String()
}
