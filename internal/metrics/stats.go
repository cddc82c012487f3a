package metrics

import (
	"math"
	"sort"
)

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance computes the population variance of a float64 slice.
// Returns 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Finite returns the values that are neither NaN nor infinite.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Max returns the largest finite value and false when there is none.
func Max(values []float64) (float64, bool) {
	found := false
	max := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	return max, found
}

// Pearson computes the Pearson correlation coefficient of x and y over the
// index positions where both values are finite. It returns NaN when fewer
// than two complete pairs exist or either side has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	var xs, ys []float64
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}

	r := sxy / math.Sqrt(sxx*syy)
	// clamp rounding drift so r stays within [-1, 1]
	return math.Max(-1, math.Min(1, r))
}

// Quantile returns the q-th quantile (0 <= q <= 1) of sorted using linear
// interpolation between the closest ranks. sorted must be ascending.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// BoxStats summarizes a distribution for a box plot. Whiskers extend to the
// furthest observation within 1.5 IQR of the box; observations beyond the
// whiskers are reported as outliers, never dropped.
type BoxStats struct {
	N            int       `json:"n"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	Mean         float64   `json:"mean"`
	StdDev       float64   `json:"stddev"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// ComputeBoxStats builds BoxStats over the finite values. ok is false when
// no finite value exists.
func ComputeBoxStats(values []float64) (stats BoxStats, ok bool) {
	sorted := Finite(values)
	if len(sorted) == 0 {
		return BoxStats{}, false
	}
	sort.Float64s(sorted)

	stats = BoxStats{
		N:      len(sorted),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Mean:   Mean(sorted),
		StdDev: StdDev(sorted),
	}

	iqr := stats.Q3 - stats.Q1
	lowFence := stats.Q1 - 1.5*iqr
	highFence := stats.Q3 + 1.5*iqr

	stats.LowerWhisker = stats.Q1
	stats.UpperWhisker = stats.Q3
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			stats.Outliers = append(stats.Outliers, v)
			continue
		}
		if v < stats.LowerWhisker {
			stats.LowerWhisker = v
		}
		if v > stats.UpperWhisker {
			stats.UpperWhisker = v
		}
	}
	return stats, true
}
