package models

import (
	"math"
	"strconv"
)

// ─── shared formatting helpers (package-private) ────────────────────────

func itoa(v int) string     { return strconv.Itoa(v) }
func itoa64(v int64) string { return strconv.FormatInt(v, 10) }

// ftoa renders a float with fixed precision; NaN (a missing cell) renders empty.
func ftoa(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// CSVRowWriter is the interface every exportable model must satisfy.
type CSVRowWriter interface {
	CSVHeader() []string
	CSVRow() []string
}

// Missing is the marker stored in axis cells that had no matching reading.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether an axis cell holds no value.
func IsMissing(v float64) bool { return math.IsNaN(v) }
