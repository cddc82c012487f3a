package diagnostics

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default plot geometry, matching a 10x6 inch figure at 100 DPI.
const (
	DefaultWidth    = 1000
	DefaultHeight   = 600
	DefaultFontSize = 12.0
)

// Theme is the visual style handed to every generator. Generators never
// read global plotting state; everything they need is here.
type Theme struct {
	Width    int
	Height   int
	FontSize float64
	// Palette colors the outcome classes in models.ClassOrder.
	Palette    []drawing.Color
	Background drawing.Color
	Text       drawing.Color
	Reference  drawing.Color
}

// viridis samples at 0, 0.5 and 1.
var viridis = []drawing.Color{
	drawing.ColorFromHex("440154"),
	drawing.ColorFromHex("21918C"),
	drawing.ColorFromHex("FDE725"),
}

// DefaultTheme returns the whitegrid-like theme used by the CLI.
func DefaultTheme() Theme {
	return Theme{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FontSize:   DefaultFontSize,
		Palette:    append([]drawing.Color(nil), viridis...),
		Background: drawing.ColorWhite,
		Text:       chart.ColorBlack,
		Reference:  chart.ColorRed,
	}
}

// WithSize returns a copy of t with the given dimensions. Non-positive
// values keep the current ones.
func (t Theme) WithSize(width, height int) Theme {
	if width > 0 {
		t.Width = width
	}
	if height > 0 {
		t.Height = height
	}
	return t
}

// Color returns the palette entry for index i, cycling when the palette
// is shorter than the number of series.
func (t Theme) Color(i int) drawing.Color {
	if len(t.Palette) == 0 {
		return chart.ColorBlue
	}
	return t.Palette[i%len(t.Palette)]
}

func (t Theme) titleStyle() chart.Style {
	return chart.Style{
		FontSize:  t.FontSize + 2,
		FontColor: t.Text,
	}
}

func (t Theme) axisStyle() chart.Style {
	return chart.Style{
		FontSize:  t.FontSize - 2,
		FontColor: t.Text,
	}
}

func (t Theme) background() chart.Style {
	return chart.Style{
		FillColor: t.Background,
		Padding:   chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 16},
	}
}
