package controller

import (
	"fmt"

	"fitness-tracker/models"
	"fitness-tracker/utils"
)

// Merge aligns the accelerometer and gyroscope tables on time and
// concatenates the first three axis columns of each into the canonical wide
// layout (acc_x..gyr_z, participant, label, category, set).
//
// The result holds one row per timestamp in the union of both inputs. When
// a stamp repeats within a table, its occurrences pair positionally with the
// other table's occurrences of the same stamp. Cells without a counterpart
// are NaN. Metadata comes from the gyroscope row, or from the accelerometer
// row when the stamp has no gyroscope reading.
func Merge(acc, gyr *models.SensorTable) (*models.MergedTable, error) {
	for _, t := range []*models.SensorTable{acc, gyr} {
		if t == nil {
			return nil, fmt.Errorf("merge: nil sensor table")
		}
		if t.Len() > 0 && len(t.AxisColumns) < 3 {
			return nil, fmt.Errorf("merge: %s table has %d axis columns, need 3", t.Kind, len(t.AxisColumns))
		}
		for i := range t.Rows {
			if len(t.Rows[i].Axes) < 3 {
				return nil, fmt.Errorf("merge: %s row %d has %d axis values, need 3", t.Kind, i, len(t.Rows[i].Axes))
			}
		}
	}

	// sort copies; the inputs stay in ingestion order
	acc, gyr = sortedCopy(acc), sortedCopy(gyr)

	out := &models.MergedTable{Records: make([]models.MergedRecord, 0, acc.Len()+gyr.Len())}
	var paired int
	i, j := 0, 0
	for i < acc.Len() || j < gyr.Len() {
		switch {
		case j == gyr.Len() || (i < acc.Len() && acc.Rows[i].Time.Before(gyr.Rows[j].Time)):
			rec := models.NewMergedRecord(acc.Rows[i].Time)
			fillAcc(&rec, &acc.Rows[i])
			fillMeta(&rec, &acc.Rows[i])
			out.Records = append(out.Records, rec)
			i++
		case i == acc.Len() || gyr.Rows[j].Time.Before(acc.Rows[i].Time):
			rec := models.NewMergedRecord(gyr.Rows[j].Time)
			fillGyr(&rec, &gyr.Rows[j])
			fillMeta(&rec, &gyr.Rows[j])
			out.Records = append(out.Records, rec)
			j++
		default:
			rec := models.NewMergedRecord(gyr.Rows[j].Time)
			fillAcc(&rec, &acc.Rows[i])
			fillGyr(&rec, &gyr.Rows[j])
			fillMeta(&rec, &gyr.Rows[j])
			out.Records = append(out.Records, rec)
			paired++
			i++
			j++
		}
	}

	utils.L().Info("merged %d accelerometer + %d gyroscope rows into %d (%d aligned)",
		acc.Len(), gyr.Len(), out.Len(), paired)
	return out, nil
}

func sortedCopy(t *models.SensorTable) *models.SensorTable {
	c := &models.SensorTable{Kind: t.Kind, AxisColumns: t.AxisColumns, Rows: append([]models.Sample(nil), t.Rows...)}
	c.SortByTime()
	return c
}

func fillAcc(rec *models.MergedRecord, s *models.Sample) {
	copy(rec.Acc[:], s.Axes[:3])
}

func fillGyr(rec *models.MergedRecord, s *models.Sample) {
	copy(rec.Gyr[:], s.Axes[:3])
}

func fillMeta(rec *models.MergedRecord, s *models.Sample) {
	rec.Participant = s.Participant
	rec.Label = s.Label
	rec.Category = s.Category
	rec.Set = s.Set
}
