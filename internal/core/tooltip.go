package core

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatValue renders a number with the locale's grouping and decimal marks.
func FormatValue(tag language.Tag, v float64) string {
	return message.NewPrinter(tag).Sprintf("%v", number.Decimal(v))
}

// indexedTooltips renders "<series>: <value>" for bar and line charts.
func indexedTooltips(series string, values []float64, tag language.Tag) []string {
	p := message.NewPrinter(tag)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%s: %s", series, p.Sprintf("%v", number.Decimal(v)))
	}
	return out
}

// percentTooltips renders "<label>: <value> (<pct>%)" for pie and doughnut.
func percentTooltips(labels []string, values []float64, pcts []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%s: %s (%d%%)", labels[i], formatNumber(v), pcts[i])
	}
	return out
}

// sumEpsilon is the relative size below which a signed sum counts as zero.
const sumEpsilon = 1e-9

// Percentages returns each value's share of the total as a whole percent.
//
// Shares are rounded half up. A zero (or non-finite) total yields all zeros,
// as does a signed total that is negligible next to the values.
// When every value is non-negative and rounding drifts the sum more than one
// point away from 100, the shares are recomputed with the largest-remainder
// method so they total exactly 100.
func Percentages(values []float64) []int {
	out := make([]int, len(values))

	var sum, magnitude float64
	nonNegative := true
	for _, v := range values {
		sum += v
		magnitude += math.Abs(v)
		if v < 0 {
			nonNegative = false
		}
	}
	// Signed values that cancel out leave a sum that is only rounding noise.
	if sum == 0 || math.Abs(sum) <= magnitude*sumEpsilon || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return out
	}

	exact := make([]float64, len(values))
	total := 0
	for i, v := range values {
		exact[i] = v / sum * 100
		if math.IsInf(exact[i], 0) || math.IsNaN(exact[i]) {
			exact[i] = 0
		}
		out[i] = int(math.Floor(exact[i] + 0.5))
		total += out[i]
	}

	if nonNegative && (total > 101 || total < 99) {
		return largestRemainder(exact)
	}
	return out
}

// largestRemainder floors every share and hands the missing points to the
// largest fractional parts, earliest index first on ties.
func largestRemainder(exact []float64) []int {
	out := make([]int, len(exact))
	order := make([]int, len(exact))
	left := 100
	for i, e := range exact {
		out[i] = int(math.Floor(e))
		left -= out[i]
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		fa := exact[order[a]] - math.Floor(exact[order[a]])
		fb := exact[order[b]] - math.Floor(exact[order[b]])
		return fa > fb
	})
	for i := 0; i < left && i < len(order); i++ {
		out[order[i]]++
	}
	return out
}
