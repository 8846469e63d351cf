package charts

import (
	"bytes"
	"fmt"
	"math"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	pieScale         = 0.30 // pie radius as a share of the canvas edge
	pieLabelDistance = 1.1
	piePctDistance   = 0.6
	pieFontSize      = 14.0
)

// Slice is one value of the binary comparison pie.
type Slice struct {
	Label   string
	Percent float64
	Color   drawing.Color
}

// pieSlot is where one slice and its texts go, in pie-radius units.
type pieSlot struct {
	Theta1, Theta2 float64
	NameAt, PctAt  Point
	AlignRight     bool
}

// layoutPie runs the slices counter-clockwise from 12 o'clock. Names sit just outside the
// rim, left-aligned on the right half and right-aligned on the left; percentages sit inside.
func layoutPie(slices []Slice) []pieSlot {
	var total float64
	for _, s := range slices {
		total += math.Max(0, s.Percent)
	}
	out := make([]pieSlot, len(slices))
	theta := startAngle
	for i, s := range slices {
		span := 0.0
		if total > 0 {
			span = 360 * math.Max(0, s.Percent) / total
		}
		mid := (2*theta + span) / 2 * math.Pi / 180
		x, y := math.Cos(mid), math.Sin(mid)
		out[i] = pieSlot{
			Theta1:     theta,
			Theta2:     theta + span,
			NameAt:     Point{pieLabelDistance * x, pieLabelDistance * y},
			PctAt:      Point{piePctDistance * x, piePctDistance * y},
			AlignRight: x < 0,
		}
		theta += span
	}
	return out
}

// drawBinaryPie renders the two-slice comparison with "%.1f%%" inside each slice and the
// names outside. A 100/0 split draws a full disc.
func drawBinaryPie(slices []Slice, size int, font *truetype.Font) ([]byte, error) {
	r, err := chart.PNG(size, size)
	if err != nil {
		return nil, err
	}
	r.SetFont(font)
	px := pixel{cx: float64(size) / 2, cy: float64(size) / 2, scale: float64(size) * pieScale}
	fillRect(r, 0, 0, size, size, drawing.ColorWhite)

	slots := layoutPie(slices)
	for i, s := range slots {
		fillRing(r, px, s.Theta1, s.Theta2, 0, 1, slices[i].Color)
	}

	r.SetFontSize(pieFontSize)
	r.SetFontColor(drawing.ColorBlack)
	for i, s := range slots {
		tb := r.MeasureText(slices[i].Label)
		x, y := px.at(s.NameAt)
		if s.AlignRight {
			x -= tb.Width()
		}
		x = clampInt(x, canvasMargin, size-canvasMargin-tb.Width())
		r.Text(slices[i].Label, x, y+tb.Height()/2)

		pct := fmt.Sprintf("%.1f%%", slices[i].Percent)
		tb = r.MeasureText(pct)
		x, y = px.at(s.PctAt)
		r.Text(pct, x-tb.Width()/2, y+tb.Height()/2)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
