package charts

import (
	"bytes"
	"errors"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	barTitleSize = 16.0
	barNameSize  = 13.0
	barTickSize  = 11.0
	barLabelSize = 12.0
	barMargin    = 16
	barGap       = 6
	barTickLen   = 5
	barFill      = 0.8 // bar width as a share of its slot
	barTicks     = 8
)

var sin45 = math.Sqrt2 / 2

// Bar is one column of the headcount chart.
type Bar struct {
	Label string
	Value float64
	Color drawing.Color
}

// barMetrics are the measured text sizes the layout depends on.
type barMetrics struct {
	LabelW []int // x label widths, unrotated
	LabelH int
	TickW  int // widest y tick label
	TextH  int // tick label height
	NameH  int // y axis name height
	TitleH int
}

// barLayout places the plot area in pixels. Labels hang below Plot.Bottom at 45°, the
// y axis sits on the left edge.
type barLayout struct {
	Plot  chart.Box
	Slot  float64
	Top   float64 // value at Plot.Top
	Ticks []chart.Tick
}

func (l barLayout) centre(i int) int {
	return int(math.Round(float64(l.Plot.Left) + (float64(i)+0.5)*l.Slot))
}

func (l barLayout) y(v float64) int {
	if l.Top <= 0 {
		return l.Plot.Bottom
	}
	return int(math.Round(float64(l.Plot.Bottom) - v/l.Top*float64(l.Plot.Bottom-l.Plot.Top)))
}

// labelReach is how far a label rotated 45° extends below and left of its anchor.
func labelReach(w, h int) int {
	return int(math.Ceil(float64(w+h) * sin45))
}

// layoutBars sizes the plot so the longest rotated label still fits under it and the
// leftmost labels stay on the canvas.
func layoutBars(width, height int, values []float64, m barMetrics) barLayout {
	maxV := 0.0
	for _, v := range values {
		maxV = math.Max(maxV, v)
	}
	ticks := niceTicks(0, maxV, barTicks)
	l := barLayout{Ticks: ticks, Top: ticks[len(ticks)-1].Value}

	depth := 0
	for _, w := range m.LabelW {
		if r := labelReach(w, m.LabelH); r > depth {
			depth = r
		}
	}
	l.Plot.Top = barMargin + m.TitleH + 2*barGap
	l.Plot.Bottom = height - barMargin - depth - barGap - barTickLen
	l.Plot.Right = width - barMargin
	l.Plot.Left = barMargin + m.NameH + 2*barGap + m.TickW + barTickLen

	n := len(values)
	if n == 0 {
		return l
	}
	// centre(i) - reach(i) >= barMargin, solved for Plot.Left
	right := float64(l.Plot.Right)
	for i, w := range m.LabelW {
		f := (float64(i) + 0.5) / float64(n)
		need := (float64(barMargin+labelReach(w, m.LabelH)) - f*right) / (1 - f)
		if left := int(math.Ceil(need)) + 1; left > l.Plot.Left {
			l.Plot.Left = left
		}
	}
	l.Slot = float64(l.Plot.Right-l.Plot.Left) / float64(n)
	return l
}

// planBars measures the text on r and lays out the chart.
func planBars(r chart.Renderer, title string, bars []Bar, width, height int) barLayout {
	var m barMetrics
	values := make([]float64, len(bars))
	r.SetFontSize(barLabelSize)
	for i, b := range bars {
		values[i] = b.Value
		tb := r.MeasureText(b.Label)
		m.LabelW = append(m.LabelW, tb.Width())
		if tb.Height() > m.LabelH {
			m.LabelH = tb.Height()
		}
	}
	l := layoutBars(width, height, values, m)
	r.SetFontSize(barTickSize)
	for _, t := range l.Ticks {
		tb := r.MeasureText(t.Label)
		m.TickW = max(m.TickW, tb.Width())
		m.TextH = max(m.TextH, tb.Height())
	}
	r.SetFontSize(barNameSize)
	m.NameH = r.MeasureText("FTE").Height()
	if title != "" {
		r.SetFontSize(barTitleSize)
		m.TitleH = r.MeasureText(title).Height()
	}
	return layoutBars(width, height, values, m)
}

// drawBars renders raw headcounts per category: y axis on the left, full category names
// under the bars rotated 45° and right-aligned to the bar centre.
func drawBars(title, yName string, bars []Bar, width, height int, font *truetype.Font) ([]byte, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars to draw")
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	r.SetFont(font)
	l := planBars(r, title, bars, width, height)
	if l.Plot.Bottom-l.Plot.Top < 20 || l.Plot.Right-l.Plot.Left < len(bars) {
		return nil, errors.New("labels leave no room for the plot")
	}

	fillRect(r, 0, 0, width, height, drawing.ColorWhite)
	r.SetFontColor(drawing.ColorBlack)

	if title != "" {
		r.SetFontSize(barTitleSize)
		tb := r.MeasureText(title)
		r.Text(title, (l.Plot.Left+l.Plot.Right-tb.Width())/2, l.Plot.Top-2*barGap)
	}

	half := int(math.Round(l.Slot * barFill / 2))
	for i, b := range bars {
		cx := l.centre(i)
		if y := l.y(b.Value); y < l.Plot.Bottom {
			fillRect(r, cx-half, y, cx+half, l.Plot.Bottom, b.Color)
		}
	}

	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(1)
	r.MoveTo(l.Plot.Left, l.Plot.Top)
	r.LineTo(l.Plot.Right, l.Plot.Top)
	r.LineTo(l.Plot.Right, l.Plot.Bottom)
	r.LineTo(l.Plot.Left, l.Plot.Bottom)
	r.Close()
	r.Stroke()

	r.SetFontSize(barTickSize)
	for _, t := range l.Ticks {
		y := l.y(t.Value)
		r.MoveTo(l.Plot.Left-barTickLen, y)
		r.LineTo(l.Plot.Left, y)
		r.Stroke()
		tb := r.MeasureText(t.Label)
		r.Text(t.Label, l.Plot.Left-barTickLen-barGap/2-tb.Width(), y+tb.Height()/2)
	}

	if yName != "" {
		r.SetFontSize(barNameSize)
		tb := r.MeasureText(yName)
		r.SetTextRotation(chart.DegreesToRadians(-90))
		r.Text(yName, barMargin+tb.Height(), (l.Plot.Top+l.Plot.Bottom+tb.Width())/2)
		r.ClearTextRotation()
	}

	r.SetFontSize(barLabelSize)
	top := l.Plot.Bottom + barTickLen + barGap
	for i, b := range bars {
		cx := l.centre(i)
		r.MoveTo(cx, l.Plot.Bottom)
		r.LineTo(cx, l.Plot.Bottom+barTickLen)
		r.Stroke()

		// right edge of the rotated text at the bar centre, top edge just under the tick
		tb := r.MeasureText(b.Label)
		x := cx - int(math.Round(float64(tb.Width())*sin45))
		y := top + labelReach(tb.Width(), tb.Height())
		r.SetTextRotation(chart.DegreesToRadians(-45))
		r.Text(b.Label, x, y)
		r.ClearTextRotation()
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// niceTicks generates up to n tick marks covering [min, max] using 1/2/2.5/5/10 steps.
// The last tick is always >= max, so it doubles as the axis ceiling.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return []chart.Tick{{Value: min, Label: formatTick(min)}, {Value: min + 1, Label: formatTick(min + 1)}}
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for k := 0; start+float64(k)*bestStep <= end+bestStep/2; k++ {
		v := start + float64(k)*bestStep
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	if last := ticks[len(ticks)-1].Value; last < max {
		ticks = append(ticks, chart.Tick{Value: end, Label: formatTick(end)})
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) >= 100 {
		return humanize.Comma(int64(math.Round(v)))
	}
	return humanize.FormatFloat("#,###.#", v)
}
