package views

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	"fitness-tracker/utils"
)

// Palettes are the named colour cycles charts can use.
var Palettes = map[string][]string{
	"dark":   {"#001c7f", "#b1400d", "#12711c", "#8c0800", "#591e71", "#592f0d", "#a23582", "#3c3c3c"},
	"Set3":   {"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f"},
	"rocket": {"#35193e", "#701f57", "#ad1759", "#e13342", "#f37651", "#f6b48f"},
}

// Theme carries every presentation choice of a render call. Charts never
// read process-wide style state, so a render depends only on its inputs.
type Theme struct {
	Dark       bool
	Background color.Color
	Foreground color.Color
	Grid       color.Color
	Palette    []color.Color
	DPI        int
	Width      vg.Length
	Height     vg.Length
}

// LightTheme returns the default white-background theme with palette name.
func LightTheme(palette string) (Theme, error) {
	p, err := ParsePalette(palette)
	if err != nil {
		return Theme{}, err
	}
	return Theme{
		Background: color.White,
		Foreground: color.Black,
		Grid:       color.Gray{Y: 0xdd},
		Palette:    p,
		DPI:        300,
		Width:      15 * vg.Inch,
		Height:     10 * vg.Inch,
	}, nil
}

// DarkTheme returns a dark-background theme with palette name.
func DarkTheme(palette string) (Theme, error) {
	t, err := LightTheme(palette)
	if err != nil {
		return Theme{}, err
	}
	t.Dark = true
	t.Background = color.Black
	t.Foreground = color.White
	t.Grid = mustHex("#212121")
	return t, nil
}

// ThemeFromConfig builds the theme described by the charts section of
// pipeline.yaml, using palette for the colour cycle.
func ThemeFromConfig(cfg utils.ChartConfig, palette string) (Theme, error) {
	build := LightTheme
	if cfg.DarkTheme {
		build = DarkTheme
	}
	t, err := build(palette)
	if err != nil {
		return Theme{}, err
	}
	if cfg.DPI > 0 {
		t.DPI = cfg.DPI
	}
	if cfg.WidthInches > 0 {
		t.Width = vg.Length(cfg.WidthInches) * vg.Inch
	}
	if cfg.HeightInches > 0 {
		t.Height = vg.Length(cfg.HeightInches) * vg.Inch
	}
	return t, nil
}

// Color returns the i-th palette colour, cycling.
func (t Theme) Color(i int) color.Color {
	if len(t.Palette) == 0 {
		return t.Foreground
	}
	return t.Palette[i%len(t.Palette)]
}

// ParsePalette resolves a palette name.
func ParsePalette(name string) ([]color.Color, error) {
	hexes, ok := Palettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q", name)
	}
	out := make([]color.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := parseHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func mustHex(s string) color.RGBA {
	c, err := parseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
