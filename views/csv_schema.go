package views

import (
	"fmt"

	"fitness-tracker/models"
)

// MergedHeader is the column layout of every table the pipeline writes: the
// time index followed by the canonical merged columns. This is the single
// source of truth for column ordering; the CSV export and the Parquet
// artifact are both checked against it.
var MergedHeader = models.MergedRecord{}.CSVHeader()

// SensorAxes returns the merged-table axis columns and their indices for a
// sensor name ("Accelerometer" or "Gyroscope").
func SensorAxes(sensor string) ([]string, []int, error) {
	switch sensor {
	case models.Accelerometer.String():
		return models.AxisColumns[:3], []int{0, 1, 2}, nil
	case models.Gyroscope.String():
		return models.AxisColumns[3:], []int{3, 4, 5}, nil
	}
	return nil, nil, fmt.Errorf("invalid sensor %q: want %s or %s",
		sensor, models.Accelerometer, models.Gyroscope)
}

// AxisIndex returns the canonical index (0..5) of an axis column name.
func AxisIndex(column string) (int, error) {
	for i, c := range models.AxisColumns {
		if c == column {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid axis column %q", column)
}

// CheckHeader reports whether header matches MergedHeader exactly.
func CheckHeader(header []string) error {
	if len(header) != len(MergedHeader) {
		return fmt.Errorf("header: got %d columns, want %d", len(header), len(MergedHeader))
	}
	for i := range MergedHeader {
		if header[i] != MergedHeader[i] {
			return fmt.Errorf("header column %d: got %q, want %q", i, header[i], MergedHeader[i])
		}
	}
	return nil
}
