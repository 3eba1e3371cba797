package overview

import (
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

// CategoryLine is one category of a report next to its budget usage.
type CategoryLine struct {
	Sum    report.CategorySum
	Budget *budget.Budget
	Usage  budget.Usage
}

type MonthOverview struct {
	Month       time.Month
	Total       int64
	Users       []report.UserSum
	Categories  []CategoryLine
	Income      []report.UserSum
	Proportions *proportion.Proportions
}

type Monthly struct {
	Scope  *scope.Scope
	Year   int
	Months []MonthOverview
}

type Yearly struct {
	Scope       *scope.Scope
	Year        int
	Total       int64
	Users       []report.UserSum
	Categories  []CategoryLine
	Income      []report.UserSum
	Proportions *proportion.Proportions
}

func budgetsByCategory(budgets []*budget.Budget) map[string]*budget.Budget {
	m := make(map[string]*budget.Budget, len(budgets))
	for _, b := range budgets {
		m[b.CategoryCode] = b
	}

	return m
}

// monthLines keeps categories with spend in month, plus budgeted ones whose
// quarter or year usage is still worth showing.
func monthLines(s *report.Summary, month time.Month, budgets map[string]*budget.Budget) []CategoryLine {
	var lines []CategoryLine

	for _, cs := range s.Categories {
		b := budgets[cs.Category.Code]
		if cs.Amount == 0 && !b.HasLimits() {
			continue
		}

		lines = append(lines, CategoryLine{Sum: cs, Budget: b, Usage: b.Usage(cs, month)})
	}

	return lines
}

func yearLines(s *report.Summary, budgets map[string]*budget.Budget) []CategoryLine {
	lines := make([]CategoryLine, 0, len(s.Categories))

	for _, cs := range s.Categories {
		b := budgets[cs.Category.Code]

		line := CategoryLine{Sum: cs, Budget: b, Usage: budget.Usage{Year: budget.Threshold{Amount: cs.Year()}}}
		if b != nil {
			line.Usage.Year.Limit = b.YearLimit
		}

		lines = append(lines, line)
	}

	return lines
}
