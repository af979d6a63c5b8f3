package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergedRecord(t *testing.T) {
	ts := EpochMsToTime(1547222885200)
	r := NewMergedRecord(ts)
	assert.False(t, r.Complete())
	for _, v := range r.Axes() {
		assert.True(t, IsMissing(v))
	}

	for k := 0; k < 6; k++ {
		r.SetAxis(k, float64(k))
	}
	assert.True(t, r.Complete())
	assert.Equal(t, [3]float64{3, 4, 5}, r.Gyr)

	r.Participant, r.Label, r.Category, r.Set = "A", "bench", "heavy", 2
	assert.Equal(t, "2", r.Column("set"))
	assert.Equal(t, "", r.Column("acc_x"))
	assert.Equal(t, []string{"1547222885200", "0.000000", "1.000000", "2.000000", "3.000000", "4.000000", "5.000000", "A", "bench", "heavy", "2"}, r.CSVRow())
	assert.Len(t, r.CSVHeader(), len(r.CSVRow()))
}

func TestMergedTable_Queries(t *testing.T) {
	base := time.Date(2019, 1, 11, 0, 0, 0, 0, time.UTC)
	mk := func(sec int, p, l string) MergedRecord {
		r := NewMergedRecord(base.Add(time.Duration(sec) * time.Second))
		r.Participant, r.Label = p, l
		r.Acc[0] = float64(sec)
		return r
	}
	tbl := &MergedTable{Records: []MergedRecord{mk(3, "B", "row"), mk(1, "A", "bench"), mk(2, "B", "bench")}}

	assert.Equal(t, []string{"B", "A"}, tbl.Unique("participant"))
	assert.Len(t, tbl.Filter(func(r *MergedRecord) bool { return r.Label == "bench" }), 2)

	tbl.SortByTime()
	assert.Equal(t, []float64{1, 2, 3}, tbl.AxisValues(0))
	assert.Equal(t, 0, (*MergedTable)(nil).Len())
}

func TestSensorTable_Sets(t *testing.T) {
	tbl := NewSensorTable(Gyroscope)
	for _, s := range []int{2, 2, 1, 3, 1} {
		tbl.Rows = append(tbl.Rows, Sample{Set: s})
	}
	assert.Equal(t, []int{2, 1, 3}, tbl.Sets())
	assert.Equal(t, "gyr_", Gyroscope.Prefix())
	assert.Equal(t, "Accelerometer", Accelerometer.String())
}
