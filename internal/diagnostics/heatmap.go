package diagnostics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/spboyer/modelreport/internal/correlation"
	"github.com/spboyer/modelreport/internal/dataset"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Heatmap plots the lower triangle of the correlation matrix of the
// features most associated with the outcome.
type Heatmap struct {
	Selector correlation.Selector
}

func (Heatmap) Name() string     { return "heatmap" }
func (Heatmap) FileName() string { return "story_correlation_heatmap.png" }

func (h Heatmap) selector() correlation.Selector {
	if h.Selector.Head == 0 && h.Selector.Tail == 0 {
		return correlation.DefaultSelector
	}
	return h.Selector
}

// HeatmapMatrix selects the features and returns their correlation matrix
// with the mask of hidden cells.
func (h Heatmap) HeatmapMatrix(t *dataset.Table) (*correlation.Matrix, [][]bool, error) {
	encoded, cols, err := h.selector().Features(t)
	if err != nil {
		return nil, nil, err
	}
	m, err := correlation.NewMatrix(encoded, cols)
	if err != nil {
		return nil, nil, err
	}
	return m, correlation.UpperTriangleMask(m.Size()), nil
}

// heatmap layout, in pixels
const (
	minCell      = 44
	heatMargin   = 20
	titleHeight  = 36
	colorbarGap  = 24
	colorbarBar  = 18
	colorbarText = 40
)

var (
	coolwarmLow  = color.RGBA{R: 59, G: 76, B: 192, A: 255}
	coolwarmMid  = color.RGBA{R: 221, G: 221, B: 221, A: 255}
	coolwarmHigh = color.RGBA{R: 180, G: 4, B: 38, A: 255}
	nanColor     = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	gridColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Coolwarm maps a coefficient in [-1, 1] onto a diverging blue to red
// ramp centered on 0. Values outside the range are clamped.
func Coolwarm(v float64) color.RGBA {
	if math.IsNaN(v) {
		return nanColor
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerp(coolwarmMid, coolwarmLow, -v)
	}
	return lerp(coolwarmMid, coolwarmHigh, v)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func (h Heatmap) Generate(t *dataset.Table, theme Theme, w io.Writer) error {
	m, mask, err := h.HeatmapMatrix(t)
	if err != nil {
		return err
	}
	img := renderHeatmap(m, mask, theme)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding heatmap: %w", err)
	}
	return nil
}

// renderHeatmap draws the matrix with row labels on the left and column
// indices underneath; basicfont cannot rotate text, so each row label is
// prefixed with the index used on the column axis.
func renderHeatmap(m *correlation.Matrix, mask [][]bool, theme Theme) *image.RGBA {
	face := basicfont.Face7x13
	charW := face.Advance
	lineH := face.Metrics().Height.Ceil()

	n := m.Size()
	labels := make([]string, n)
	labelW := 0
	for i, l := range m.Labels {
		labels[i] = fmt.Sprintf("%d %s", i+1, l)
		labelW = max(labelW, len(labels[i])*charW)
	}

	reserved := heatMargin*2 + labelW + colorbarGap + colorbarBar + colorbarText
	cell := minCell
	if n > 0 {
		cell = max(minCell, min((theme.Width-reserved)/n, (theme.Height-titleHeight-heatMargin*2-lineH)/n))
	}
	gridLeft := heatMargin + labelW + 8
	gridTop := titleHeight + heatMargin
	width := max(theme.Width, reserved+cell*n)
	height := max(theme.Height, gridTop+cell*n+lineH+heatMargin*2)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(theme.Background), image.Point{}, draw.Src)

	ink := image.NewUniform(theme.Text)
	title := "Correlation of Top Features with Student Outcome"
	drawText(img, ink, face, title, (width-len(title)*charW)/2, titleHeight-10)

	for i := 0; i < n; i++ {
		y := gridTop + i*cell
		drawText(img, ink, face, labels[i], gridLeft-8-len(labels[i])*charW, y+cell/2+lineH/3)

		for j := 0; j < n; j++ {
			if mask[i][j] {
				continue
			}
			x := gridLeft + j*cell
			v := m.Values[i][j]
			rect := image.Rect(x, y, x+cell, y+cell)
			draw.Draw(img, rect, image.NewUniform(Coolwarm(v)), image.Point{}, draw.Src)
			drawCellBorder(img, rect)

			if math.IsNaN(v) {
				continue
			}
			txt := fmt.Sprintf("%.2f", v)
			var txtCol color.Color = color.Black
			if math.Abs(v) > 0.5 {
				txtCol = color.White
			}
			drawText(img, image.NewUniform(txtCol), face, txt, x+(cell-len(txt)*charW)/2, y+cell/2+lineH/3)
		}
	}

	for j := 0; j < n; j++ {
		idx := fmt.Sprintf("%d", j+1)
		x := gridLeft + j*cell + (cell-len(idx)*charW)/2
		drawText(img, ink, face, idx, x, gridTop+n*cell+lineH+4)
	}

	drawColorbar(img, ink, face, gridLeft+n*cell+colorbarGap, gridTop, max(cell*n, 100))
	return img
}

func drawColorbar(img *image.RGBA, ink image.Image, face *basicfont.Face, left, top, h int) {
	for dy := 0; dy < h; dy++ {
		v := 1 - 2*float64(dy)/float64(h-1)
		row := image.Rect(left, top+dy, left+colorbarBar, top+dy+1)
		draw.Draw(img, row, image.NewUniform(Coolwarm(v)), image.Point{}, draw.Src)
	}
	lineH := face.Metrics().Height.Ceil()
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		y := top + int((1-tick)/2*float64(h-1))
		drawText(img, ink, face, fmt.Sprintf("%.1f", tick), left+colorbarBar+4, y+lineH/3)
	}
}

func drawCellBorder(img *image.RGBA, r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, gridColor)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, gridColor)
	}
}

func drawText(img *image.RGBA, src image.Image, face font.Face, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  src,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
