package analyzer

import (
	"math"
	"sort"
)

type numericStats struct {
	Min, Max     float64
	Mean, Median float64
	Q1, Q3       float64
	Lower, Upper float64
	Outliers     int
}

// describe computes descriptive statistics over the present values of a
// numeric column. values must not be empty.
func describe(values []float64) numericStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	st := numericStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
		Median: quantile(sorted, 0.5),
		Q1:     quantile(sorted, 0.25),
		Q3:     quantile(sorted, 0.75),
	}

	iqr := st.Q3 - st.Q1
	st.Lower = st.Q1 - 1.5*iqr
	st.Upper = st.Q3 + 1.5*iqr
	for _, v := range sorted {
		if v < st.Lower || v > st.Upper {
			st.Outliers++
		}
	}
	return st
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	if frac == 0 || lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// pearson returns the correlation of x and y over the rows where both are
// present. It is NaN when fewer than two such rows exist or either side has
// no variance.
func pearson(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	n := len(xs)
	if n < 2 {
		return math.NaN()
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
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
	return math.Max(-1, math.Min(1, r))
}

// correlationMatrix computes every pairwise coefficient once.
func correlationMatrix(cols [][]float64) [][]float64 {
	m := make([][]float64, len(cols))
	for i := range cols {
		m[i] = make([]float64, len(cols))
		m[i][i] = 1
	}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			r := pearson(cols[i], cols[j])
			m[i][j] = r
			m[j][i] = r
		}
	}
	return m
}
