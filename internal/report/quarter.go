package report

import (
	"fmt"
	"slices"
	"time"
)

// Quarter is a calendar quarter, 1 through 4.
type Quarter int

const (
	Q1 Quarter = iota + 1
	Q2
	Q3
	Q4
)

func QuarterOf(m time.Month) Quarter {
	return Quarter((int(m)-1)/3 + 1)
}

// Months returns the three months of q in calendar order.
func (q Quarter) Months() []time.Month {
	first := time.Month((int(q)-1)*3 + 1)
	return []time.Month{first, first + 1, first + 2}
}

func (q Quarter) String() string {
	return fmt.Sprintf("Q%d", int(q))
}

// AllMonths returns January through December.
func AllMonths() []time.Month {
	months := make([]time.Month, 12)
	for i := range months {
		months[i] = time.Month(i + 1)
	}

	return months
}

// normalizeMonths sorts and deduplicates months, dropping invalid values.
// An empty selection means the whole year.
func normalizeMonths(months []time.Month) []time.Month {
	out := make([]time.Month, 0, len(months))
	for _, m := range months {
		if m >= time.January && m <= time.December {
			out = append(out, m)
		}
	}

	if len(out) == 0 {
		return AllMonths()
	}

	slices.Sort(out)

	return slices.Compact(out)
}
