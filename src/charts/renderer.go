// Package charts draws the headcount summary as PNG images: the labelled donut, the binary
// comparison pie and the headcount bar chart.
package charts

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MoacirMFB/LCC-Stats/src/analysis"
	"github.com/MoacirMFB/LCC-Stats/src/config"
)

// Kind identifies one of the three charts.
type Kind string

const (
	KindDonut  Kind = "donut"
	KindBinary Kind = "binary"
	KindBar    Kind = "bar"
)

// Image is a rendered chart and the file name it should be saved under.
type Image struct {
	Kind Kind
	Name string
	Data []byte
}

// Input is everything the charts need from the aggregation step.
type Input struct {
	Summary     *analysis.Summary
	BinaryShare float64
	BinaryRest  float64
}

// Renderer holds the parsed styling for a run.
type Renderer struct {
	cfg       config.ChartsConfig
	out       config.OutputConfig
	palette   []drawing.Color
	binary    []drawing.Color
	overrides map[string]config.LabelOverride
	font      *truetype.Font
}

// NewRenderer parses colours and loads the default chart font.
func NewRenderer(cfg config.ChartsConfig, out config.OutputConfig) (*Renderer, error) {
	palette, err := parsePalette(cfg.Palette)
	if err != nil {
		return nil, &RenderError{Chart: "palette", Err: err}
	}
	if len(palette) == 0 {
		return nil, &RenderError{Chart: "palette", Err: fmt.Errorf("no colours")}
	}
	binary, err := parsePalette(cfg.BinaryColors)
	if err != nil {
		return nil, &RenderError{Chart: "binary colours", Err: err}
	}
	if len(binary) != 2 {
		return nil, &RenderError{Chart: "binary colours", Err: fmt.Errorf("want 2 colours, got %d", len(binary))}
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, &RenderError{Chart: "font", Err: err}
	}
	return &Renderer{
		cfg:       cfg,
		out:       out,
		palette:   palette,
		binary:    binary,
		overrides: cfg.Overrides(),
		font:      font,
	}, nil
}

// Donut renders the labelled percentage donut.
func (r *Renderer) Donut(sum *analysis.Summary) ([]byte, error) {
	pcts := sum.Percents()
	lay := LayoutDonut(sum.Names(), pcts, analysis.DisplayPercent(pcts), r.overrides)
	data, err := drawDonut(lay, CyclePalette(r.palette, len(pcts)), r.cfg.DonutSize, r.font)
	if err != nil {
		return nil, &RenderError{Chart: string(KindDonut), Err: err}
	}
	return r.stamp(KindDonut, data, sum)
}

// Binary renders the named category against everything else.
func (r *Renderer) Binary(in Input) ([]byte, error) {
	slices := []Slice{
		{Label: r.cfg.BinaryCategory, Percent: in.BinaryShare, Color: r.binary[0]},
		{Label: r.cfg.BinaryOtherLabel, Percent: in.BinaryRest, Color: r.binary[1]},
	}
	data, err := drawBinaryPie(slices, r.cfg.BinarySize, r.font)
	if err != nil {
		return nil, &RenderError{Chart: string(KindBinary), Err: err}
	}
	return r.stamp(KindBinary, data, in.Summary)
}

// Bar renders the raw headcount per category.
func (r *Renderer) Bar(sum *analysis.Summary) ([]byte, error) {
	colors := CyclePalette(r.palette, len(sum.Shares))
	bars := make([]Bar, len(sum.Shares))
	for i, sh := range sum.Shares {
		bars[i] = Bar{Label: sh.Name, Value: sh.Headcount, Color: colors[i]}
	}
	data, err := drawBars(r.cfg.BarTitle, r.cfg.BarYLabel, bars, r.cfg.BarWidth, r.cfg.BarHeight, r.font)
	if err != nil {
		return nil, &RenderError{Chart: string(KindBar), Err: err}
	}
	return r.stamp(KindBar, data, sum)
}

func (r *Renderer) stamp(kind Kind, data []byte, sum *analysis.Summary) ([]byte, error) {
	if !r.cfg.Footer || sum == nil {
		return data, nil
	}
	out, err := drawCaption(data, Footer(sum))
	if err != nil {
		return nil, &RenderError{Chart: string(kind), Err: err}
	}
	return out, nil
}

// Footer is the caption stamped under each chart when enabled.
func Footer(sum *analysis.Summary) string {
	return fmt.Sprintf("FTE headcount %s, total %s", sum.Period, humanize.CommafWithDigits(sum.Total, 2))
}

// RenderAll draws the three charts in order: donut, binary, bar. Nothing is returned unless
// all succeed.
func (r *Renderer) RenderAll(in Input) ([]Image, error) {
	if in.Summary == nil {
		return nil, &RenderError{Chart: "all", Err: fmt.Errorf("no summary")}
	}
	donut, err := r.Donut(in.Summary)
	if err != nil {
		return nil, err
	}
	binary, err := r.Binary(in)
	if err != nil {
		return nil, err
	}
	bar, err := r.Bar(in.Summary)
	if err != nil {
		return nil, err
	}
	p := in.Summary.Period
	return []Image{
		{Kind: KindDonut, Name: FileName(p, r.out.DonutSuffix), Data: donut},
		{Kind: KindBinary, Name: FileName(p, r.out.BinarySuffix), Data: binary},
		{Kind: KindBar, Name: FileName(p, r.out.BarSuffix), Data: bar},
	}, nil
}

// FileName builds "{period}_{suffix}.png". Path separators in the period are replaced so the
// file always lands in the output directory.
func FileName(period, suffix string) string {
	period = strings.NewReplacer("/", "-", "\\", "-").Replace(strings.TrimSpace(period))
	return period + "_" + suffix + ".png"
}
