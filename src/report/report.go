// Package report runs the full pipeline: load the export, pick the latest-period headcounts,
// aggregate them and render the three charts.
package report

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MoacirMFB/LCC-Stats/src/analysis"
	"github.com/MoacirMFB/LCC-Stats/src/charts"
	"github.com/MoacirMFB/LCC-Stats/src/config"
	"github.com/MoacirMFB/LCC-Stats/src/dataset"
	"github.com/MoacirMFB/LCC-Stats/src/logger"
)

// Result describes a completed run.
type Result struct {
	Summary *analysis.Summary
	Images  []charts.Image
	Paths   []string // empty when nothing was written
}

// Render executes every stage except writing and returns the charts in memory.
func Render(ctx context.Context, cfg *config.Config) (*Result, error) {
	defer logger.TimeTrack(time.Now(), "render")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tbl, err := dataset.LoadFile(cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("loaded %s: %d rows, %d columns", cfg.Input.Path, len(tbl.Rows), len(tbl.Columns))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ex, err := dataset.ExtractLatest(tbl, dataset.Selection{
		LabelColumn:    cfg.Input.LabelColumn,
		CategoryColumn: cfg.Input.CategoryColumn,
		FilterLabel:    cfg.Input.FilterLabel,
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("period %s: %d categories", ex.Period, ex.Len())

	sum, err := analysis.Compute(ex)
	if err != nil {
		return nil, err
	}
	for _, sh := range sum.Shares {
		logger.Debugf("%-45s %8s  %5.3g%%", sh.Name, humanize.CommafWithDigits(sh.Headcount, 2), sh.Percent)
	}
	share, rest, err := analysis.Split(sum.Shares, cfg.Charts.BinaryCategory)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := charts.NewRenderer(cfg.Charts, cfg.Output)
	if err != nil {
		return nil, err
	}
	imgs, err := r.RenderAll(charts.Input{Summary: sum, BinaryShare: share, BinaryRest: rest})
	if err != nil {
		return nil, err
	}
	return &Result{Summary: sum, Images: imgs}, nil
}

// Run renders all charts and writes them into cfg.Output.Dir. Files are written only after
// every chart rendered.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	res, err := Render(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := charts.WriteAll(cfg.Output.Dir, res.Images)
	if err != nil {
		return nil, err
	}
	res.Paths = paths
	for _, p := range paths {
		logger.Infof("wrote %s", p)
	}
	return res, nil
}
