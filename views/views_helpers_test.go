package views

import (
	"math"
	"time"

	"fitness-tracker/models"
)

var t0 = time.Date(2019, 1, 11, 16, 8, 5, 0, time.UTC)

func rec(ms int, participant, label, category string, set int, axes ...float64) models.MergedRecord {
	r := models.NewMergedRecord(t0.Add(time.Duration(ms) * time.Millisecond))
	for k, v := range axes {
		r.SetAxis(k, v)
	}
	r.Participant, r.Label, r.Category, r.Set = participant, label, category, set
	return r
}

func sampleTable() *models.MergedTable {
	nan := math.NaN()
	return &models.MergedTable{Records: []models.MergedRecord{
		rec(0, "A", "bench", "heavy", 1, 0.01, -0.97, 0.2, 1.5, -2.5, 3.0),
		rec(200, "A", "bench", "heavy", 1, 0.02, -0.96, 0.21, nan, nan, nan),
		rec(400, "A", "squat", "medium", 2, 0.05, -0.9, 0.3, 4.0, 2.0, -1.0),
		rec(600, "B", "ohp", "heavy", 3, nan, nan, nan, 10, 11, 12),
		rec(800, "B", "ohp", "heavy", 3, 0.1, -1.1, 0.0, 9, 8, 7),
	}}
}

func smallTheme() Theme {
	th, err := LightTheme("dark")
	if err != nil {
		panic(err)
	}
	th.DPI = 40
	th.Width = 8 * 72
	th.Height = 5 * 72
	return th
}
