package proportion

import (
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

// Config names the two users whose spending ratio is tracked. A zero id
// disables tracking.
type Config struct {
	MinorUserID int64
	MajorUserID int64
}

func (c Config) Enabled() bool {
	return c.MinorUserID != 0 && c.MajorUserID != 0
}

type Proportions struct {
	Actual Ratio `json:"actual"`
	Target Ratio `json:"target"`
}

// Weighted is one category's spend and its configured target proportion.
type Weighted struct {
	Amount     int64
	Proportion float64
}

// Actual divides the minor user's total by the major user's. A minor user
// without spend yields 0 even when the major user has none either.
func Actual(minor, major int64, minorFound, majorFound bool) Ratio {
	if !minorFound || minor == 0 {
		return 0
	}

	if !majorFound || major == 0 {
		return Undefined
	}

	return Ratio(float64(minor) / float64(major))
}

// Target averages the categories' target fractions weighted by spend and
// converts the result back to a proportion.
func Target(parts []Weighted) Ratio {
	var weighted, total float64

	for _, p := range parts {
		weighted += float64(p.Amount) * ToFraction(p.Proportion)
		total += float64(p.Amount)
	}

	if total == 0 {
		return Undefined
	}

	return Ratio(ToProportion(weighted / total))
}

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Applies reports whether proportions are tracked for sc.
func (c *Calculator) Applies(sc *scope.Scope) bool {
	return sc.IsGroup() && c.cfg.Enabled()
}

// Compute derives both ratios for the requested months of summary.
func (c *Calculator) Compute(summary *report.Summary) Proportions {
	minor, minorFound := summary.User(c.cfg.MinorUserID)
	major, majorFound := summary.User(c.cfg.MajorUserID)

	parts := make([]Weighted, 0, len(summary.Categories))
	for _, cs := range summary.Categories {
		parts = append(parts, Weighted{Amount: cs.Amount, Proportion: cs.Category.Proportion})
	}

	return Proportions{
		Actual: Actual(minor.Amount, major.Amount, minorFound, majorFound),
		Target: Target(parts),
	}
}

// For computes proportions for sc, or returns nil when sc does not track
// them.
func (c *Calculator) For(sc *scope.Scope, summary *report.Summary) *Proportions {
	if !c.Applies(sc) {
		return nil
	}

	p := c.Compute(summary)

	return &p
}
