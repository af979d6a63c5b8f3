// Package analysis holds column statistics computed on the processed dataset.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"fitness-tracker/models"
)

// Bounds are the inclusive limits outside of which a value is an outlier.
type Bounds struct {
	Q1, Q3, IQR  float64
	Lower, Upper float64
}

// IQRBounds computes Q1 − 1.5·IQR and Q3 + 1.5·IQR over the non-missing
// values. Quartiles interpolate linearly between closest ranks (Hyndman-Fan
// type 7, the pandas default). ok is false when there is no value at all.
func IQRBounds(values []float64) (b Bounds, ok bool) {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !models.IsMissing(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Bounds{}, false
	}
	sort.Float64s(sorted)

	b.Q1 = quantile7(0.25, sorted)
	b.Q3 = quantile7(0.75, sorted)
	b.IQR = b.Q3 - b.Q1
	b.Lower = b.Q1 - 1.5*b.IQR
	b.Upper = b.Q3 + 1.5*b.IQR
	return b, true
}

// quantile7 returns the p-quantile of sorted at rank (n-1)·p.
func quantile7(p float64, sorted []float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// MarkIQR flags each value outside its column's IQR bounds. Missing values
// are never flagged.
func MarkIQR(values []float64) ([]bool, Bounds) {
	marks := make([]bool, len(values))
	b, ok := IQRBounds(values)
	if !ok {
		return marks, b
	}
	for i, v := range values {
		if models.IsMissing(v) {
			continue
		}
		marks[i] = v < b.Lower || v > b.Upper
	}
	return marks, b
}

// ColumnOutliers summarises one axis column.
type ColumnOutliers struct {
	Column  string
	Bounds  Bounds
	Count   int
	Present int // non-missing values
}

// Summarize runs MarkIQR over each axis column of table.
func Summarize(table *models.MergedTable) []ColumnOutliers {
	out := make([]ColumnOutliers, 0, len(models.AxisColumns))
	for k, name := range models.AxisColumns {
		values := table.AxisValues(k)
		marks, b := MarkIQR(values)
		co := ColumnOutliers{
			Column:  name,
			Bounds:  b,
			Present: floats.Count(func(v float64) bool { return !models.IsMissing(v) }, values),
		}
		for _, m := range marks {
			if m {
				co.Count++
			}
		}
		out = append(out, co)
	}
	return out
}
