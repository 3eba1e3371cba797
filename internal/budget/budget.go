package budget

import (
	"errors"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/report"
)

var (
	ErrNotFound = errors.New("budget not found")
	ErrInvalid  = errors.New("invalid budget")
)

// Budget holds the optional limits of one category within one scope. A nil
// limit means the period is unconstrained, not that nothing may be spent.
type Budget struct {
	ID           int64
	ScopeID      int64
	CategoryCode string
	MonthlyLimit *int64
	QuarterLimit *int64
	YearLimit    *int64
}

type Limits struct {
	Monthly *int64
	Quarter *int64
	Year    *int64
}

type Status int

const (
	StatusUnconstrained Status = iota
	StatusWithin
	StatusExceeded
)

func (s Status) String() string {
	switch s {
	case StatusWithin:
		return "within"
	case StatusExceeded:
		return "exceeded"
	default:
		return "unconstrained"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Threshold pairs the spend of one period with its limit, if any.
type Threshold struct {
	Amount int64
	Limit  *int64
}

func (t Threshold) Status() Status {
	switch {
	case t.Limit == nil:
		return StatusUnconstrained
	case t.Amount <= *t.Limit:
		return StatusWithin
	default:
		return StatusExceeded
	}
}

// Usage is a category's spend for a month, its quarter and its year.
type Usage struct {
	Month   Threshold
	Quarter Threshold
	Year    Threshold
}

// Usage pairs sum with the limits of b for month. A nil budget yields
// unconstrained thresholds.
func (b *Budget) Usage(sum report.CategorySum, month time.Month) Usage {
	u := Usage{
		Month:   Threshold{Amount: sum.Month(month)},
		Quarter: Threshold{Amount: sum.QuarterOf(month)},
		Year:    Threshold{Amount: sum.Year()},
	}

	if b != nil {
		u.Month.Limit = b.MonthlyLimit
		u.Quarter.Limit = b.QuarterLimit
		u.Year.Limit = b.YearLimit
	}

	return u
}

func (b *Budget) HasLimits() bool {
	return b != nil && (b.MonthlyLimit != nil || b.QuarterLimit != nil || b.YearLimit != nil)
}
