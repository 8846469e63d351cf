package charts

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MoacirMFB/LCC-Stats/src/config"
)

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func rgbAt(img image.Image, x, y int) [3]uint8 {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return [3]uint8{c.R, c.G, c.B}
}

func rgbOf(c drawing.Color) [3]uint8 { return [3]uint8{c.R, c.G, c.B} }

var white = [3]uint8{255, 255, 255}

// polar returns the pixel at radius rad (pie units) and angle deg on a chart of the given scale.
func polar(px pixel, rad, deg float64) (int, int) {
	a := deg * math.Pi / 180
	return px.at(Point{rad * math.Cos(a), rad * math.Sin(a)})
}

func newTestRenderer(t *testing.T) (*Renderer, *config.Config) {
	t.Helper()
	cfg := config.Default()
	r, err := NewRenderer(cfg.Charts, cfg.Output)
	require.NoError(t, err)
	return r, cfg
}

func TestDonutPixels(t *testing.T) {
	r, cfg := newTestRenderer(t)
	data, err := r.Donut(testSummary())
	require.NoError(t, err)
	img := decodePNG(t, data)

	size := cfg.Charts.DonutSize
	px := pixel{cx: float64(size) / 2, cy: float64(size) / 2, scale: float64(size) * donutScale}
	pal := CyclePalette(r.palette, 3)

	// White 90°→306°, Hispanic/Latino 306°→414°, Unknown 414°→450° with its label pinned
	// bottom right. That leader runs from the rim at 72° straight through the centre and
	// on along 252°, so both samples below sit on it.
	assert.Equal(t, white, rgbAt(img, size/2, size/2), "hole must cover leader lines")
	x, y := polar(px, 0.7, 252)
	assert.Equal(t, rgbOf(pal[0]), rgbAt(img, x, y), "White wedge must cover leader lines")

	x, y = polar(px, 0.7, 20)
	assert.Equal(t, rgbOf(pal[1]), rgbAt(img, x, y), "Hispanic/Latino wedge colour")

	x, y = polar(px, 0.9, 86)
	assert.Equal(t, rgbOf(pal[2]), rgbAt(img, x, y), "Unknown wedge colour")
}

func TestBinaryPieStartsAtTwelveCounterClockwise(t *testing.T) {
	r, cfg := newTestRenderer(t)
	data, err := r.Binary(Input{Summary: testSummary(), BinaryShare: 30, BinaryRest: 70})
	require.NoError(t, err)
	img := decodePNG(t, data)

	size := cfg.Charts.BinarySize
	px := pixel{cx: float64(size) / 2, cy: float64(size) / 2, scale: float64(size) * pieScale}

	// first slice spans 90°→198°, second 198°→450°
	x, y := polar(px, 0.85, 100)
	assert.Equal(t, rgbOf(r.binary[0]), rgbAt(img, x, y))
	x, y = polar(px, 0.85, 80)
	assert.Equal(t, rgbOf(r.binary[1]), rgbAt(img, x, y))
	x, y = polar(px, 0.85, 300)
	assert.Equal(t, rgbOf(r.binary[1]), rgbAt(img, x, y))
}

func TestBinaryPieFullDisc(t *testing.T) {
	r, cfg := newTestRenderer(t)
	data, err := r.Binary(Input{Summary: testSummary(), BinaryShare: 100, BinaryRest: 0})
	require.NoError(t, err)
	img := decodePNG(t, data)

	size := cfg.Charts.BinarySize
	px := pixel{cx: float64(size) / 2, cy: float64(size) / 2, scale: float64(size) * pieScale}
	for _, deg := range []float64{80, 180, 300} {
		x, y := polar(px, 0.85, deg)
		assert.Equal(t, rgbOf(r.binary[0]), rgbAt(img, x, y), "angle %v", deg)
	}
}

func TestLayoutPie(t *testing.T) {
	slots := layoutPie([]Slice{{Label: "Hispanic/Latino", Percent: 25}, {Label: "Other", Percent: 75}})
	require.Len(t, slots, 2)
	near(t, 90, slots[0].Theta1, "first start")
	near(t, 180, slots[0].Theta2, "first end")
	near(t, 450, slots[1].Theta2, "second end")

	// first slice mid-angle 135°: name up-left, right-aligned, outside the rim
	assert.True(t, slots[0].AlignRight)
	near(t, pieLabelDistance*math.Cos(135*math.Pi/180), slots[0].NameAt.X, "name x")
	near(t, piePctDistance*math.Sin(135*math.Pi/180), slots[0].PctAt.Y, "pct y")
	// second slice mid-angle 315°: down-right
	assert.False(t, slots[1].AlignRight)
}

var raceLabels = []string{
	"White",
	"Hispanic/Latino",
	"Black or African American",
	"Asian",
	"2 or more races",
	"Unknown",
	"Nonresident Alien",
	"American Indian or Alaska Native",
	"Native Hawaiian or Other Pacific Islander",
}

func raceBars(t *testing.T, labels []string) []Bar {
	t.Helper()
	r, _ := newTestRenderer(t)
	pal := CyclePalette(r.palette, len(labels))
	bars := make([]Bar, len(labels))
	for i, l := range labels {
		bars[i] = Bar{Label: l, Value: float64(900 - 90*i), Color: pal[i]}
	}
	return bars
}

func TestBarLabelsDrawnInFull(t *testing.T) {
	font, err := chart.GetDefaultFont()
	require.NoError(t, err)

	full := raceBars(t, raceLabels)
	cut := raceBars(t, raceLabels)
	cut[len(cut)-1].Label = "Native Hawaiian"

	a, err := drawBars("FTE Headcount by Race", "FTE Headcount", full, 1000, 1100, font)
	require.NoError(t, err)
	b, err := drawBars("FTE Headcount by Race", "FTE Headcount", cut, 1000, 1100, font)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "the end of a long label must reach the image")
}

func TestBarPixels(t *testing.T) {
	font, err := chart.GetDefaultFont()
	require.NoError(t, err)
	bars := raceBars(t, raceLabels)
	const width, height = 1000, 1100

	data, err := drawBars("FTE Headcount by Race", "FTE Headcount", bars, width, height, font)
	require.NoError(t, err)
	img := decodePNG(t, data)

	rr, err := chart.PNG(width, height)
	require.NoError(t, err)
	rr.SetFont(font)
	l := planBars(rr, "FTE Headcount by Race", bars, width, height)

	for i, b := range bars {
		x, y := l.centre(i), (l.y(b.Value)+l.Plot.Bottom)/2
		assert.Equal(t, rgbOf(b.Color), rgbAt(img, x, y), "bar %d (%s)", i, b.Label)
	}

	// tick labels and the axis name are left of the plot; nothing right of it
	dark := 0
	for x := 0; x < l.Plot.Left-barTickLen; x++ {
		for y := l.Plot.Top; y < l.Plot.Bottom; y++ {
			if rgbAt(img, x, y) != white {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0, "y axis text should be on the left")
	for x := l.Plot.Right + 2; x < width; x++ {
		for y := 0; y < height; y++ {
			require.Equal(t, white, rgbAt(img, x, y), "unexpected ink right of the plot at %d,%d", x, y)
		}
	}
}

func TestLayoutBarsSizesBottomFromLabels(t *testing.T) {
	values := []float64{900, 450, 150}
	short := layoutBars(1000, 1100, values, barMetrics{LabelW: []int{40, 40, 40}, LabelH: 14})
	long := layoutBars(1000, 1100, values, barMetrics{LabelW: []int{40, 40, 260}, LabelH: 14})

	assert.Equal(t, 1100-barMargin-labelReach(40, 14)-barGap-barTickLen, short.Plot.Bottom)
	assert.Equal(t, 1100-barMargin-labelReach(260, 14)-barGap-barTickLen, long.Plot.Bottom)
	assert.Less(t, 1100-short.Plot.Bottom, 100, "short labels should not leave a tall empty band")

	assert.GreaterOrEqual(t, short.Ticks[len(short.Ticks)-1].Value, 900.0)
	assert.Equal(t, short.Plot.Bottom, short.y(0))
	assert.Equal(t, short.Plot.Top, short.y(short.Top))
}

func TestLayoutBarsKeepsFirstLabelOnCanvas(t *testing.T) {
	l := layoutBars(1000, 1100, []float64{1, 2, 3}, barMetrics{LabelW: []int{600, 40, 40}, LabelH: 14, TickW: 30})
	assert.GreaterOrEqual(t, l.centre(0)-labelReach(600, 14), barMargin)
	assert.Greater(t, l.Plot.Left, barMargin+30+barTickLen)
}
