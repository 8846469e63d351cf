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
	// pie radius as a share of the canvas edge; labels pinned at ±1.6 still fit
	donutScale    = 0.28
	pctFontSize   = 17.0
	labelFontSize = 14.0
	labelPad      = 0.3 // box padding as a share of the font size
	boxLineWidth  = 0.72
	leaderWidth   = 1.5
	canvasMargin  = 8
)

// pixel maps pie units onto the square canvas.
type pixel struct {
	cx, cy, scale float64
}

func (p pixel) at(pt Point) (int, int) {
	return int(math.Round(p.cx + pt.X*p.scale)), int(math.Round(p.cy - pt.Y*p.scale))
}

func (p pixel) unit(x, y int) Point {
	return Point{X: (float64(x) - p.cx) / p.scale, Y: (p.cy - float64(y)) / p.scale}
}

// drawDonut renders lay onto a size×size PNG.
func drawDonut(lay DonutLayout, colors []drawing.Color, size int, font *truetype.Font) ([]byte, error) {
	r, err := chart.PNG(size, size)
	if err != nil {
		return nil, err
	}
	r.SetFont(font)
	px := pixel{cx: float64(size) / 2, cy: float64(size) / 2, scale: float64(size) * donutScale}

	fillRect(r, 0, 0, size, size, drawing.ColorWhite)

	// leaders sit under the ring and the hole, boxes on top
	boxes := make([]labelBox, len(lay.Wedges))
	for i, w := range lay.Wedges {
		boxes[i] = placeLabel(r, px, w, size)
		drawLeader(r, px, w, boxes[i], colors[i])
	}
	for i, w := range lay.Wedges {
		fillRing(r, px, w.Theta1, w.Theta2, lay.Hole, 1, colors[i])
	}
	fillRing(r, px, startAngle, startAngle+360, 0, lay.Hole, drawing.ColorWhite)
	for i, w := range lay.Wedges {
		drawBox(r, w.Name, boxes[i])
	}
	r.SetFontSize(pctFontSize)
	r.SetFontColor(drawing.ColorBlack)
	for _, w := range lay.Wedges {
		text := fmt.Sprintf("%.0f%%", w.Percent)
		tb := r.MeasureText(text)
		x, y := px.at(w.PctAt)
		r.Text(text, x-tb.Width()/2, y+tb.Height()/2)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	r.SetFillColor(c)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

// fillRing fills the annulus sector between radii inner and outer from t1 to t2 degrees.
// The arcs are traced as polylines so the angle convention stays the layout's own.
func fillRing(r chart.Renderer, px pixel, t1, t2, inner, outer float64, c drawing.Color) {
	if t2 <= t1 {
		return
	}
	steps := int(math.Ceil(t2-t1)) + 1
	pt := func(rad, deg float64) (int, int) {
		a := deg * math.Pi / 180
		return px.at(Point{rad * math.Cos(a), rad * math.Sin(a)})
	}
	r.SetFillColor(c)
	x, y := pt(outer, t1)
	r.MoveTo(x, y)
	for s := 1; s <= steps; s++ {
		x, y = pt(outer, t1+(t2-t1)*float64(s)/float64(steps))
		r.LineTo(x, y)
	}
	for s := steps; s >= 0; s-- {
		x, y = pt(inner, t1+(t2-t1)*float64(s)/float64(steps))
		r.LineTo(x, y)
	}
	r.Close()
	r.Fill()
}

// labelBox is a label's box on the canvas and the point on its edge the leader meets.
type labelBox struct {
	left, top, w, h int
	edgeX, edgeY    int
	pad, textH      int
}

// placeLabel sizes the name box at the wedge's label anchor, kept on the canvas.
func placeLabel(r chart.Renderer, px pixel, w Wedge, size int) labelBox {
	r.SetFontSize(labelFontSize)
	tb := r.MeasureText(w.Name)
	pad := int(math.Round(labelFontSize * labelPad))
	b := labelBox{w: tb.Width() + 2*pad, h: tb.Height() + 2*pad, pad: pad, textH: tb.Height()}

	ax, ay := px.at(w.LabelAt)
	b.left = ax
	if w.AlignRight {
		b.left = ax - b.w
	}
	b.top = ay - b.h/2
	b.left = clampInt(b.left, canvasMargin, size-canvasMargin-b.w)
	b.top = clampInt(b.top, canvasMargin, size-canvasMargin-b.h)

	b.edgeX = b.left
	if w.AlignRight {
		b.edgeX = b.left + b.w
	}
	b.edgeY = b.top + b.h/2
	return b
}

// drawLeader strokes rim → elbow → box edge in the wedge colour. The elbow is recomputed
// against the clamped box.
func drawLeader(r chart.Renderer, px pixel, w Wedge, b labelBox, c drawing.Color) {
	bend := elbow(w.Rim, px.unit(b.edgeX, b.edgeY), w.Mid)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(leaderWidth)
	x, y := px.at(w.Rim)
	r.MoveTo(x, y)
	x, y = px.at(bend)
	r.LineTo(x, y)
	r.LineTo(b.edgeX, b.edgeY)
	r.Stroke()
}

// drawBox draws the white, black-bordered name box.
func drawBox(r chart.Renderer, name string, b labelBox) {
	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(boxLineWidth)
	r.MoveTo(b.left, b.top)
	r.LineTo(b.left+b.w, b.top)
	r.LineTo(b.left+b.w, b.top+b.h)
	r.LineTo(b.left, b.top+b.h)
	r.Close()
	r.FillStroke()

	r.SetFontSize(labelFontSize)
	r.SetFontColor(drawing.ColorBlack)
	r.Text(name, b.left+b.pad, b.top+b.pad+b.textH)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
