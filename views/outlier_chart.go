package views

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"fitness-tracker/models"
)

// OutlierColor marks flagged points in outlier charts.
var OutlierColor = mustHex("#EC058E")

// RenderOutliers scatters one axis column of table against the sample index,
// drawing the points flagged in marks in OutlierColor. Rows whose value is
// missing are left out and the index is taken over the remaining rows.
func RenderOutliers(table *models.MergedTable, column string, marks []bool, theme Theme) ([]byte, error) {
	axis, err := AxisIndex(column)
	if err != nil {
		return nil, err
	}
	if len(marks) != table.Len() {
		return nil, fmt.Errorf("outlier chart %s: %d marks for %d rows", column, len(marks), table.Len())
	}

	var normal, flagged plotter.XYs
	n := 0
	for i := range table.Records {
		v := table.Records[i].Axes()[axis]
		if models.IsMissing(v) {
			continue
		}
		pt := plotter.XY{X: float64(n), Y: v}
		if marks[i] {
			flagged = append(flagged, pt)
		} else {
			normal = append(normal, pt)
		}
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("no %s values to plot", column)
	}

	sensor := models.Gyroscope
	if axis < 3 {
		sensor = models.Accelerometer
	}
	letter := strings.ToUpper(column[len(column)-1:])

	p := newPlot(theme)
	p.Title.Text = fmt.Sprintf("Outliers detection for %s's %s", sensor, letter)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = letter + "-axis"
	p.Legend.Top = true

	for _, series := range []struct {
		name  string
		xys   plotter.XYs
		color color.Color
	}{
		{"non-outlier", normal, theme.Color(0)},
		{"outlier", flagged, OutlierColor},
	} {
		if len(series.xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(series.xys)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.RingGlyph{}
		s.GlyphStyle.Radius = vg.Points(1.5)
		s.GlyphStyle.Color = series.color
		p.Add(s)
		p.Legend.Add(series.name, s)
	}
	return renderGrid([][]*plot.Plot{{p}}, theme)
}
