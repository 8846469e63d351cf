// Package analysis turns the extracted headcount strings into per-category percentage
// shares of the latest period.
package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/MoacirMFB/LCC-Stats/src/dataset"
)

// Category is a demographic group and its headcount in the latest period.
type Category struct {
	Name      string
	Headcount float64
}

// Share is a category's part of the period total, in percent.
type Share struct {
	Category
	Raw     float64 // unrounded percentage
	Percent float64 // Raw rounded to 3 significant figures
}

// Summary is the aggregated result for one period. Shares keep the source row order.
type Summary struct {
	Period string
	Total  float64
	Shares []Share
}

// Names returns the category names in order.
func (s *Summary) Names() []string {
	out := make([]string, len(s.Shares))
	for i, sh := range s.Shares {
		out[i] = sh.Name
	}
	return out
}

// Percents returns the rounded percentages in order.
func (s *Summary) Percents() []float64 {
	out := make([]float64, len(s.Shares))
	for i, sh := range s.Shares {
		out[i] = sh.Percent
	}
	return out
}

// Headcounts returns the raw headcounts in order.
func (s *Summary) Headcounts() []float64 {
	out := make([]float64, len(s.Shares))
	for i, sh := range s.Shares {
		out[i] = sh.Headcount
	}
	return out
}

var numeric = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseHeadcount strips thousands separators and parses the remainder as a decimal number.
// Words, NaN/Inf spellings and hex forms are rejected.
func ParseHeadcount(s string) (float64, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if !numeric.MatchString(clean) {
		return 0, &ParseError{Value: s}
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, &ParseError{Value: s}
	}
	return v, nil
}

// Percentages returns value/total*100 for every value along with the total. Negative values
// and a zero total are AggregationErrors.
func Percentages(values []float64) ([]float64, float64, error) {
	if len(values) == 0 {
		return nil, 0, aggErrorf("no headcounts to aggregate")
	}
	var total float64
	for i, v := range values {
		if v < 0 {
			return nil, 0, aggErrorf("headcount %d is negative (%g)", i, v)
		}
		total += v
	}
	if total == 0 {
		return nil, 0, aggErrorf("total headcount is zero; shares are undefined")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total * 100
	}
	return out, total, nil
}

// Round3Sig rounds x to three significant figures, i.e. to -floor(log10|x|)+2 decimal places.
// Zero, NaN and infinities are returned unchanged. Negative inputs round symmetrically.
func Round3Sig(x float64) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return roundTo(x, -int(math.Floor(math.Log10(math.Abs(x))))+2)
}

// roundTo rounds to n decimal places, half-to-even on the exact binary value. strconv does
// correctly rounded decimal conversion, so 2.675 (stored just below) becomes 2.67.
func roundTo(x float64, n int) float64 {
	if n >= 0 {
		v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', n, 64), 64)
		if err != nil {
			return x
		}
		return v
	}
	p := math.Pow(10, float64(-n))
	return math.RoundToEven(x/p) * p
}

// Compute parses the extracted headcounts and derives the rounded shares.
func Compute(ex *dataset.Extract) (*Summary, error) {
	if len(ex.Categories) != len(ex.Values) {
		return nil, aggErrorf("%d categories but %d values", len(ex.Categories), len(ex.Values))
	}
	values := make([]float64, len(ex.Values))
	for i, raw := range ex.Values {
		v, err := ParseHeadcount(raw)
		if err != nil {
			pe := &ParseError{Category: ex.Categories[i], Value: raw}
			if i < len(ex.Records) {
				pe.Record = ex.Records[i]
			}
			return nil, pe
		}
		values[i] = v
	}
	pcts, total, err := Percentages(values)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Period: ex.Period, Total: total, Shares: make([]Share, len(values))}
	for i := range values {
		sum.Shares[i] = Share{
			Category: Category{Name: ex.Categories[i], Headcount: values[i]},
			Raw:      pcts[i],
			Percent:  Round3Sig(pcts[i]),
		}
	}
	return sum, nil
}

// Split returns the rounded share of the named category and the remainder of 100. The first
// category with that name is used.
func Split(shares []Share, name string) (share, rest float64, err error) {
	for _, sh := range shares {
		if sh.Name == name {
			return sh.Percent, 100 - sh.Percent, nil
		}
	}
	return 0, 0, &AggregationError{
		Msg:  "binary comparison needs category " + strconv.Quote(name) + ", which is not among the filtered rows",
		Kind: ErrCategoryNotFound,
	}
}

// DisplayPercent re-normalises already rounded percentages so they sum to exactly 100, the
// way a pie chart labels wedges built from them.
func DisplayPercent(percents []float64) []float64 {
	var sum float64
	for _, p := range percents {
		sum += p
	}
	out := make([]float64, len(percents))
	for i, p := range percents {
		if sum == 0 {
			out[i] = p
			continue
		}
		out[i] = p / sum * 100
	}
	return out
}
