package models

import (
	"sort"
	"time"
)

// Canonical column order of the merged and resampled tables.
var MergedColumns = []string{
	"acc_x", "acc_y", "acc_z",
	"gyr_x", "gyr_y", "gyr_z",
	"participant", "label", "category", "set",
}

// AxisColumns are the six numeric columns of MergedColumns.
var AxisColumns = MergedColumns[:6]

// IndexColumn names the time index when a table is written out.
const IndexColumn = "epoch (ms)"

// MergedRecord is one time-aligned row of accelerometer and gyroscope axes.
// Axis cells without a reading hold NaN; Set is 0 when no metadata exists.
type MergedRecord struct {
	Time        time.Time  `json:"time"`
	Acc         [3]float64 `json:"acc"`
	Gyr         [3]float64 `json:"gyr"`
	Participant string     `json:"participant"`
	Label       string     `json:"label"`
	Category    string     `json:"category"`
	Set         int        `json:"set"`
}

// NewMergedRecord returns a record at t with every axis missing.
func NewMergedRecord(t time.Time) MergedRecord {
	return MergedRecord{
		Time: t,
		Acc:  [3]float64{Missing(), Missing(), Missing()},
		Gyr:  [3]float64{Missing(), Missing(), Missing()},
	}
}

// Axes returns acc_x..gyr_z in canonical order.
func (r *MergedRecord) Axes() [6]float64 {
	return [6]float64{r.Acc[0], r.Acc[1], r.Acc[2], r.Gyr[0], r.Gyr[1], r.Gyr[2]}
}

// SetAxis assigns the i-th canonical axis (0..5).
func (r *MergedRecord) SetAxis(i int, v float64) {
	if i < 3 {
		r.Acc[i] = v
		return
	}
	r.Gyr[i-3] = v
}

// Complete reports whether all six axes carry a value.
func (r *MergedRecord) Complete() bool {
	for _, v := range r.Axes() {
		if IsMissing(v) {
			return false
		}
	}
	return true
}

// Column returns the string value of a categorical column.
func (r *MergedRecord) Column(name string) string {
	switch name {
	case "participant":
		return r.Participant
	case "label":
		return r.Label
	case "category":
		return r.Category
	case "set":
		return itoa(r.Set)
	}
	return ""
}

// CSVHeader returns the index column followed by MergedColumns.
func (MergedRecord) CSVHeader() []string {
	return append([]string{IndexColumn}, MergedColumns...)
}

// CSVRow serialises the record; missing axes become empty cells.
func (r *MergedRecord) CSVRow() []string {
	row := []string{itoa64(r.Time.UnixMilli())}
	for _, v := range r.Axes() {
		row = append(row, ftoa(v, 6))
	}
	return append(row, r.Participant, r.Label, r.Category, itoa(r.Set))
}

// MergedTable is the wide, time-indexed dataset.
type MergedTable struct {
	Records []MergedRecord
}

// Len returns the number of rows.
func (t *MergedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// SortByTime orders records by timestamp; equal stamps keep their order.
func (t *MergedTable) SortByTime() {
	sort.SliceStable(t.Records, func(i, j int) bool {
		return t.Records[i].Time.Before(t.Records[j].Time)
	})
}

// Filter returns the records for which keep is true, in order.
func (t *MergedTable) Filter(keep func(*MergedRecord) bool) []MergedRecord {
	var out []MergedRecord
	for i := range t.Records {
		if keep(&t.Records[i]) {
			out = append(out, t.Records[i])
		}
	}
	return out
}

// Unique returns the distinct values of a categorical column in
// first-appearance order.
func (t *MergedTable) Unique(column string) []string {
	var out []string
	seen := make(map[string]bool)
	for i := range t.Records {
		v := t.Records[i].Column(column)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// AxisValues returns one canonical axis column (0..5) as a slice.
func (t *MergedTable) AxisValues(axis int) []float64 {
	out := make([]float64, len(t.Records))
	for i := range t.Records {
		out[i] = t.Records[i].Axes()[axis]
	}
	return out
}
