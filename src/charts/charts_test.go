package charts

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoacirMFB/LCC-Stats/src/analysis"
	"github.com/MoacirMFB/LCC-Stats/src/config"
)

func near(t *testing.T, want, got float64, what string) {
	t.Helper()
	require.InDelta(t, want, got, 1e-9, what)
}

func TestLayoutDonutAngles(t *testing.T) {
	lay := LayoutDonut([]string{"A", "B"}, []float64{75, 25}, []float64{75, 25}, nil)
	require.Len(t, lay.Wedges, 2)
	a, b := lay.Wedges[0], lay.Wedges[1]
	near(t, 90, a.Theta1, "A start")
	near(t, 360, a.Theta2, "A end")
	near(t, 360, b.Theta1, "B start")
	near(t, 450, b.Theta2, "B end")
	near(t, 225, a.Mid, "A mid")
	near(t, holeRadius, lay.Hole, "hole")

	// A's mid-angle points down-left.
	assert.True(t, a.AlignRight)
	assert.False(t, a.Pinned)
	near(t, -labelXOffset, a.LabelAt.X, "A label x")
	near(t, labelYStretch*math.Sin(225*math.Pi/180), a.LabelAt.Y, "A label y")
	near(t, pctDistance*math.Cos(225*math.Pi/180), a.PctAt.X, "A pct x")

	// B's mid-angle is 405 = 45°, up-right.
	assert.False(t, b.AlignRight)
	near(t, labelXOffset, b.LabelAt.X, "B label x")
}

func TestLayoutDonutNormalisesOverRoundedTotal(t *testing.T) {
	// 33.3 + 33.3 + 33.3 = 99.9; wedges still close the circle.
	lay := LayoutDonut([]string{"a", "b", "c"}, []float64{33.3, 33.3, 33.3}, []float64{33.3, 33.3, 33.3}, nil)
	near(t, 90+360, lay.Wedges[2].Theta2, "last wedge end")
	near(t, 120, lay.Wedges[0].Theta2-lay.Wedges[0].Theta1, "span")
}

func TestLayoutDonutOverrides(t *testing.T) {
	ov := config.Default().Charts.Overrides()
	names := []string{"White", "Unknown", "American Indian or Alaska Native"}
	lay := LayoutDonut(names, []float64{80, 15, 5}, []float64{80, 15, 5}, ov)

	unk := lay.Wedges[1]
	require.True(t, unk.Pinned)
	near(t, 1.5, unk.LabelAt.X, "unknown x")
	near(t, -1.6, unk.LabelAt.Y, "unknown y")
	rad := unk.Mid * math.Pi / 180
	near(t, pctDistance*1.1*math.Cos(rad), unk.PctAt.X, "unknown pct x")
	near(t, pctDistance*1.1*math.Sin(rad), unk.PctAt.Y, "unknown pct y")

	aian := lay.Wedges[2]
	require.True(t, aian.Pinned)
	near(t, -1.5, aian.LabelAt.X, "aian x")
	near(t, 1.6, aian.LabelAt.Y, "aian y")

	assert.False(t, lay.Wedges[0].Pinned)
}

func TestElbowMeetsRadialLine(t *testing.T) {
	rim := Point{math.Cos(math.Pi / 4), math.Sin(math.Pi / 4)}
	e := elbow(rim, Point{1.35, 1.2}, 45)
	near(t, 1.2, e.Y, "elbow y")
	// on the 45° line through the origin, x == y
	near(t, 1.2, e.X, "elbow x")

	flat := elbow(Point{1, 0}, Point{1.35, 0}, 0)
	assert.Equal(t, Point{1, 0}, flat)
}

func TestCyclePalette(t *testing.T) {
	p, err := parsePalette([]string{"#000001", "000002"})
	require.NoError(t, err)
	out := CyclePalette(p, 5)
	require.Len(t, out, 5)
	assert.Equal(t, uint8(1), out[0].B)
	assert.Equal(t, uint8(2), out[1].B)
	assert.Equal(t, uint8(1), out[4].B)
	assert.Nil(t, CyclePalette(nil, 3))
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#CFB991")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xCF), c.R)
	assert.Equal(t, uint8(0xB9), c.G)
	assert.Equal(t, uint8(0x91), c.B)
	assert.Equal(t, uint8(255), c.A)

	for _, bad := range []string{"", "#CFB", "#GGGGGG", "#CFB99100"} {
		_, err := parseHex(bad)
		assert.Error(t, err, "parseHex(%q)", bad)
	}
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(0, 1234, 8)
	require.NotEmpty(t, ticks)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.GreaterOrEqual(t, ticks[len(ticks)-1].Value, 1234.0)
	for i := 1; i < len(ticks); i++ {
		require.Greater(t, ticks[i].Value, ticks[i-1].Value, "ticks not increasing at %d", i)
	}

	flat := niceTicks(0, 0, 8)
	assert.Greater(t, flat[len(flat)-1].Value, 0.0)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "0", formatTick(0))
	assert.Equal(t, "1,500", formatTick(1500))
	assert.Equal(t, "2.5", formatTick(2.5))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "FY2024_hispanic_vs_rest_separate.png", FileName("FY2024", "hispanic_vs_rest_separate"))
	assert.Equal(t, "Fall 2023-24_x.png", FileName(" Fall 2023/24 ", "x"))
}

func testSummary() *analysis.Summary {
	return &analysis.Summary{
		Period: "Fall 2024",
		Total:  1500,
		Shares: []analysis.Share{
			{Category: analysis.Category{Name: "White", Headcount: 900}, Percent: 60},
			{Category: analysis.Category{Name: "Hispanic/Latino", Headcount: 450}, Percent: 30},
			{Category: analysis.Category{Name: "Unknown", Headcount: 150}, Percent: 10},
		},
	}
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRenderAll(t *testing.T) {
	cfg := config.Default()
	cfg.Charts.Footer = true
	r, err := NewRenderer(cfg.Charts, cfg.Output)
	require.NoError(t, err)

	imgs, err := r.RenderAll(Input{Summary: testSummary(), BinaryShare: 30, BinaryRest: 70})
	require.NoError(t, err)
	require.Len(t, imgs, 3)

	assert.Equal(t, KindDonut, imgs[0].Kind)
	assert.Equal(t, "Fall 2024_fte_headcount_comparison_updated_labels.png", imgs[0].Name)
	assert.Equal(t, "Fall 2024_hispanic_vs_rest_separate.png", imgs[1].Name)
	assert.Equal(t, "Fall 2024_fte_numbers_comparison_separate.png", imgs[2].Name)

	w, h := decodeSize(t, imgs[0].Data)
	assert.Equal(t, [2]int{1000, 1000}, [2]int{w, h})
	w, h = decodeSize(t, imgs[1].Data)
	assert.Equal(t, [2]int{700, 700}, [2]int{w, h})
	w, h = decodeSize(t, imgs[2].Data)
	assert.Equal(t, [2]int{1000, 1100}, [2]int{w, h})
}

func TestBinaryFullDisc(t *testing.T) {
	cfg := config.Default()
	r, err := NewRenderer(cfg.Charts, cfg.Output)
	require.NoError(t, err)
	data, err := r.Binary(Input{Summary: testSummary(), BinaryShare: 100, BinaryRest: 0})
	require.NoError(t, err)
	w, _ := decodeSize(t, data)
	assert.Equal(t, 700, w)
}

func TestNewRendererBadColour(t *testing.T) {
	cfg := config.Default()
	cfg.Charts.Palette = []string{"nope"}
	_, err := NewRenderer(cfg.Charts, cfg.Output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRender))
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "FTE headcount Fall 2024, total 1,500", Footer(testSummary()))
}

func TestDrawCaptionKeepsSize(t *testing.T) {
	cfg := config.Default()
	r, err := NewRenderer(cfg.Charts, cfg.Output)
	require.NoError(t, err)
	data, err := r.Bar(testSummary())
	require.NoError(t, err)
	out, err := drawCaption(data, "hello")
	require.NoError(t, err)
	w, h := decodeSize(t, out)
	assert.Equal(t, [2]int{1000, 1100}, [2]int{w, h})

	same, err := drawCaption(data, "  ")
	require.NoError(t, err)
	assert.Equal(t, data, same)
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	imgs := []Image{
		{Kind: KindDonut, Name: "a.png", Data: []byte("one")},
		{Kind: KindBar, Name: "b.png", Data: []byte("two")},
	}
	paths, err := WriteAll(dir, imgs)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	got, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files left behind")
}

func TestWriteAllNoPartialFiles(t *testing.T) {
	dir := t.TempDir()
	// second target is an existing non-empty directory, so its rename fails
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b.png", "x"), 0o755))
	imgs := []Image{
		{Kind: KindDonut, Name: "a.png", Data: []byte("one")},
		{Kind: KindBar, Name: "b.png", Data: []byte("two")},
	}
	_, err := WriteAll(dir, imgs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRender))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.png", entries[0].Name())
}
