package models

import (
	"sort"
	"time"
)

// SensorKind identifies which MetaMotion stream a file belongs to.
type SensorKind int

const (
	Accelerometer SensorKind = iota
	Gyroscope
)

func (k SensorKind) String() string {
	switch k {
	case Accelerometer:
		return "Accelerometer"
	case Gyroscope:
		return "Gyroscope"
	}
	return "unknown"
}

// Prefix returns the column prefix used for the kind in the merged table.
func (k SensorKind) Prefix() string {
	if k == Accelerometer {
		return "acc_"
	}
	return "gyr_"
}

// Metadata is everything a raw file name tells us about its rows.
type Metadata struct {
	Participant string     `json:"participant"`
	Label       string     `json:"label"`
	Category    string     `json:"category"`
	Kind        SensorKind `json:"kind"`
}

// Sample is one labelled sensor reading.
type Sample struct {
	Time        time.Time `json:"time"`
	Axes        []float64 `json:"axes"` // axis values in file column order
	Participant string    `json:"participant"`
	Label       string    `json:"label"`
	Category    string    `json:"category"`
	Set         int       `json:"set"`
}

// SensorTable holds every labelled sample of one sensor kind.
type SensorTable struct {
	Kind        SensorKind
	AxisColumns []string
	Rows        []Sample
}

// NewSensorTable creates an empty table for kind.
func NewSensorTable(kind SensorKind) *SensorTable {
	return &SensorTable{Kind: kind}
}

// Len returns the number of rows.
func (t *SensorTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// SortByTime orders rows by timestamp, keeping file order among equal times.
func (t *SensorTable) SortByTime() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Time.Before(t.Rows[j].Time)
	})
}

// Sets returns the distinct set numbers in first-seen order.
func (t *SensorTable) Sets() []int {
	var out []int
	seen := make(map[int]bool)
	for _, r := range t.Rows {
		if !seen[r.Set] {
			seen[r.Set] = true
			out = append(out, r.Set)
		}
	}
	return out
}

// EpochMsToTime converts a MetaMotion epoch-millisecond stamp to UTC time.
func EpochMsToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
