package controller

import (
	"math"
	"time"

	"fitness-tracker/models"
)

var day0 = time.Date(2019, 1, 11, 16, 8, 5, 0, time.UTC)

func at(ms int) time.Time { return day0.Add(time.Duration(ms) * time.Millisecond) }

func sample(t time.Time, set int, axes ...float64) models.Sample {
	return models.Sample{
		Time:        t,
		Axes:        axes,
		Participant: "A",
		Label:       "bench",
		Category:    "heavy",
		Set:         set,
	}
}

func table(kind models.SensorKind, rows ...models.Sample) *models.SensorTable {
	return &models.SensorTable{
		Kind:        kind,
		AxisColumns: []string{"x", "y", "z"},
		Rows:        rows,
	}
}

func record(t time.Time, acc, gyr float64) models.MergedRecord {
	r := models.NewMergedRecord(t)
	r.Participant, r.Label, r.Category, r.Set = "A", "bench", "heavy", 1
	for k := 0; k < 3; k++ {
		r.Acc[k] = acc
		r.Gyr[k] = gyr
	}
	return r
}

func nan() float64 { return math.NaN() }
