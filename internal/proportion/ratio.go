package proportion

import (
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a proportion that may be undefined, for example when the
// divisor of a period is zero.
type Ratio float64

// Undefined is the ratio of an empty or one-sided period.
var Undefined = Ratio(math.NaN())

func (r Ratio) IsDefined() bool {
	return !math.IsNaN(float64(r)) && !math.IsInf(float64(r), 0)
}

func (r Ratio) String() string {
	if !r.IsDefined() {
		return "—"
	}

	return strconv.FormatFloat(float64(r), 'f', 2, 64)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.IsDefined() {
		return []byte("null"), nil
	}

	return json.Marshal(float64(r))
}

// ToFraction converts a minor:major proportion p into the minor share of
// the total.
func ToFraction(p float64) float64 {
	return p / (1 + p)
}

// ToProportion is the inverse of ToFraction.
func ToProportion(f float64) float64 {
	return f / (1 - f)
}
