package views

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"fitness-tracker/models"
)

// Chart is one rendered PNG and the key it is reported under.
type Chart struct {
	Key      string
	Group    string
	Subgroup string
	PNG      []byte
}

// AxisCharts renders one axis chart per (group, subgroup) pair that has
// rows, typically participant × label. Groups are sorted; subgroups keep
// their first-appearance order.
func AxisCharts(table *models.MergedTable, group, subgroup string, theme Theme) ([]Chart, error) {
	groups := table.Unique(group)
	sort.Strings(groups)
	subgroups := table.Unique(subgroup)

	var out []Chart
	for _, g := range groups {
		for _, s := range subgroups {
			rows := table.Filter(func(r *models.MergedRecord) bool {
				return r.Column(group) == g && r.Column(subgroup) == s
			})
			if len(rows) == 0 {
				continue
			}
			title := titleCase(fmt.Sprintf("changes for %s in %s %s", s, group, g))
			png, err := RenderAxisChart(rows, title, theme)
			if err != nil {
				return nil, fmt.Errorf("axis chart %s=%s %s=%s: %w", group, g, subgroup, s, err)
			}
			out = append(out, Chart{
				Key:      fmt.Sprintf("%s %s - %s", capitalize(group), g, titleCase(s)),
				Group:    g,
				Subgroup: s,
				PNG:      png,
			})
		}
	}
	return out, nil
}

// RenderAxisChart draws two stacked panels, accelerometer X/Y/Z above and
// gyroscope X/Y/Z below, against the sample index. Missing cells are
// skipped.
func RenderAxisChart(rows []models.MergedRecord, title string, theme Theme) ([]byte, error) {
	top := newPlot(theme)
	top.Title.Text = title
	bottom := newPlot(theme)

	for panel, p := range []*plot.Plot{top, bottom} {
		sensor := models.Accelerometer
		if panel == 1 {
			sensor = models.Gyroscope
		}
		p.X.Label.Text = "Sample (time)"
		p.Y.Label.Text = "Variation"
		p.Legend.Top = true
		p.Legend.Add(sensor.String())

		for k, name := range []string{"X", "Y", "Z"} {
			xys := make(plotter.XYs, 0, len(rows))
			for i := range rows {
				v := rows[i].Axes()[panel*3+k]
				if models.IsMissing(v) {
					continue
				}
				xys = append(xys, plotter.XY{X: float64(i), Y: v})
			}
			if len(xys) == 0 {
				continue
			}
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			l.LineStyle.Color = theme.Color(k)
			l.LineStyle.Width = vg.Points(1)
			p.Add(l)
			p.Legend.Add(name, l)
		}
	}
	return renderGrid([][]*plot.Plot{{top}, {bottom}}, theme)
}

// RenderDistribution draws three boxplot panels (X, Y, Z) of one sensor's
// axes, one box per distinct value of the categorical column by.
func RenderDistribution(table *models.MergedTable, sensor, by string, theme Theme) ([]byte, error) {
	_, idx, err := SensorAxes(sensor)
	if err != nil {
		return nil, err
	}
	switch by {
	case "participant", "label", "category", "set":
	default:
		return nil, fmt.Errorf("invalid grouping column %q", by)
	}
	groups := table.Unique(by)

	row := make([]*plot.Plot, 0, 3)
	for k, axis := range []string{"X", "Y", "Z"} {
		p := newPlot(theme)
		if k == 1 {
			p.Title.Text = fmt.Sprintf("%s's distributions by %s", capitalize(sensor), capitalize(by))
		}
		p.X.Label.Text = capitalize(by)
		p.Y.Label.Text = axis + "-axis"
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter

		var names []string
		for gi, g := range groups {
			var vals plotter.Values
			for i := range table.Records {
				r := &table.Records[i]
				if r.Column(by) != g {
					continue
				}
				if v := r.Axes()[idx[k]]; !models.IsMissing(v) {
					vals = append(vals, v)
				}
			}
			if len(vals) == 0 {
				continue
			}
			b, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), vals)
			if err != nil {
				return nil, fmt.Errorf("boxplot %s=%s: %w", by, g, err)
			}
			b.FillColor = theme.Color(gi)
			b.BoxStyle.Color = theme.Foreground
			b.MedianStyle.Color = theme.Foreground
			b.WhiskerStyle.Color = theme.Foreground
			b.CapWidth = vg.Points(10)
			b.GlyphStyle.Color = theme.Foreground
			b.GlyphStyle.Radius = vg.Points(2)
			b.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(b)
			names = append(names, g)
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("no %s values to plot", sensor)
		}
		p.NominalX(names...)
		row = append(row, p)
	}
	return renderGrid([][]*plot.Plot{row}, theme)
}

func newPlot(theme Theme) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = theme.Background
	p.Title.TextStyle.Color = theme.Foreground
	p.Legend.TextStyle.Color = theme.Foreground
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.LineStyle.Color = theme.Foreground
		a.Label.TextStyle.Color = theme.Foreground
		a.Tick.Label.Color = theme.Foreground
		a.Tick.LineStyle.Color = theme.Foreground
	}
	grid := plotter.NewGrid()
	grid.Vertical.Color = theme.Grid
	grid.Horizontal.Color = theme.Grid
	p.Add(grid)
	return p
}

func renderGrid(plots [][]*plot.Plot, theme Theme) ([]byte, error) {
	img := vgimg.NewWith(vgimg.UseWH(theme.Width, theme.Height), vgimg.UseDPI(theme.DPI))
	dc := draw.New(img)
	dc.SetColor(theme.Background)
	dc.Fill(dc.Rectangle.Path())

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Points(20),
		PadY:      vg.Points(20),
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(10),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveChart writes png under dir using key as the file name.
func SaveChart(dir, key string, png []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(dir, fileSafe(key)+".png")
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("save chart %s: %w", path, err)
	}
	return path, nil
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// titleCase capitalizes every word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
