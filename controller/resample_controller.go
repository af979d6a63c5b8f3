package controller

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"fitness-tracker/models"
	"fitness-tracker/utils"
)

// DefaultInterval is the bucket width of the processed dataset.
const DefaultInterval = 200 * time.Millisecond

// ResampleOptions controls Resample.
type ResampleOptions struct {
	Interval time.Duration
	// DropPartial also drops buckets in which any of the six axes had no
	// reading at all.
	DropPartial bool
}

// ResampleStats summarises one Resample call.
type ResampleStats struct {
	Days           int
	Buckets        int
	DroppedPartial int
	EmptyDays      []string
}

// Resample aggregates table into fixed-width buckets aligned to UTC
// midnight. Each calendar day is processed on its own, so no bucket spans
// two days. Axes are averaged over their non-missing values; participant,
// label, category and set take the last non-missing value in the bucket.
// Buckets without rows never appear. A day that ends up with no buckets is
// absorbed and reported in ResampleStats.EmptyDays.
func Resample(table *models.MergedTable, opts ResampleOptions) (*models.MergedTable, ResampleStats, error) {
	var st ResampleStats
	if opts.Interval <= 0 {
		return nil, st, fmt.Errorf("resample: interval must be positive, got %s", opts.Interval)
	}
	if (24*time.Hour)%opts.Interval != 0 {
		return nil, st, fmt.Errorf("resample: interval %s does not divide a day", opts.Interval)
	}

	out := &models.MergedTable{}
	for _, day := range splitDays(table) {
		st.Days++
		buckets, dropped := resampleDay(day, opts)
		st.DroppedPartial += dropped
		if len(buckets) == 0 {
			utils.L().Debug("%v", models.EmptyResampleWindow(utils.DayKey(day[0].Time)))
			st.EmptyDays = append(st.EmptyDays, utils.DayKey(day[0].Time))
			continue
		}
		out.Records = append(out.Records, buckets...)
	}
	st.Buckets = out.Len()

	utils.L().Info("resampled %d rows over %d day(s) into %d bucket(s) of %s (partial dropped=%d)",
		table.Len(), st.Days, st.Buckets, opts.Interval, st.DroppedPartial)
	return out, st, nil
}

// splitDays returns the records grouped by UTC calendar day, days ascending
// and rows time-ordered within each day.
func splitDays(table *models.MergedTable) [][]models.MergedRecord {
	if table.Len() == 0 {
		return nil
	}
	rows := append([]models.MergedRecord(nil), table.Records...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })

	var days [][]models.MergedRecord
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || !utils.DayStart(rows[i].Time).Equal(utils.DayStart(rows[start].Time)) {
			days = append(days, rows[start:i])
			start = i
		}
	}
	return days
}

type bucket struct {
	start time.Time
	axes  [6][]float64
	rec   models.MergedRecord
}

func (b *bucket) add(r *models.MergedRecord) {
	for k, v := range r.Axes() {
		if !models.IsMissing(v) {
			b.axes[k] = append(b.axes[k], v)
		}
	}
	if r.Participant != "" {
		b.rec.Participant = r.Participant
	}
	if r.Label != "" {
		b.rec.Label = r.Label
	}
	if r.Category != "" {
		b.rec.Category = r.Category
	}
	if r.Set != 0 {
		b.rec.Set = r.Set
	}
}

func (b *bucket) result() models.MergedRecord {
	rec := b.rec
	rec.Time = b.start
	for k, vals := range b.axes {
		v := models.Missing()
		if len(vals) > 0 {
			v = stat.Mean(vals, nil)
		}
		rec.SetAxis(k, v)
	}
	return rec
}

func resampleDay(rows []models.MergedRecord, opts ResampleOptions) (out []models.MergedRecord, dropped int) {
	midnight := utils.DayStart(rows[0].Time)
	var cur *bucket
	flush := func() {
		if cur == nil {
			return
		}
		rec := cur.result()
		if opts.DropPartial && !rec.Complete() {
			dropped++
		} else {
			out = append(out, rec)
		}
		cur = nil
	}

	for i := range rows {
		offset := rows[i].Time.Sub(midnight)
		start := midnight.Add(offset - offset%opts.Interval)
		if cur == nil || !start.Equal(cur.start) {
			flush()
			cur = &bucket{start: start}
		}
		cur.add(&rows[i])
	}
	flush()
	return out, dropped
}
