// Command raceviewer renders the headcount charts and shows them in a window, one tab per
// chart. Nothing is written until "Save all" is pressed.
package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"github.com/MoacirMFB/LCC-Stats/src/charts"
	"github.com/MoacirMFB/LCC-Stats/src/config"
	"github.com/MoacirMFB/LCC-Stats/src/logger"
	"github.com/MoacirMFB/LCC-Stats/src/report"
)

type viewer struct {
	cfg    *config.Config
	window fyne.Window
	status *widget.Label
	tabs   map[charts.Kind]*canvas.Image
	images []charts.Image

	ctx    context.Context
	cancel context.CancelFunc
}

var tabTitles = []struct {
	kind  charts.Kind
	title string
}{
	{charts.KindDonut, "Share by race"},
	{charts.KindBinary, "Hispanic/Latino vs rest"},
	{charts.KindBar, "Headcount"},
}

func newRootCmd() *cobra.Command {
	var configPath, input, logLevel string
	cmd := &cobra.Command{
		Use:          "raceviewer",
		Short:        "Show the FTE headcount charts in a window",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, required := config.ResolvePath(configPath)
			cfg, err := config.Load(path, required)
			if err != nil {
				return err
			}
			if err := cfg.Apply(config.Flags{Input: input, LogLevel: logLevel}); err != nil {
				return err
			}
			logger.SetLogLevel(cfg.LogLevel)
			show(cfg)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "TOML config file (or set "+config.EnvConfigPath+")")
	f.StringVarP(&input, "input", "i", "", "input export, .csv or .xlsx (default race.csv)")
	f.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default info)")
	return cmd
}

func show(cfg *config.Config) {
	a := app.NewWithID("com.lccstats.raceviewer")
	w := a.NewWindow("FTE Headcount Charts")
	winW := float32(1100)
	w.Resize(fyne.NewSize(winW, 900))

	ctx, cancel := context.WithCancel(context.Background())
	v := &viewer{
		cfg:    cfg,
		window: w,
		status: widget.NewLabel(cfg.Input.Path),
		tabs:   map[charts.Kind]*canvas.Image{},
		ctx:    ctx,
		cancel: cancel,
	}
	w.SetOnClosed(cancel)

	items := make([]*container.TabItem, 0, len(tabTitles))
	for _, t := range tabTitles {
		img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 100)))
		img.FillMode = canvas.ImageFillContain
		aspect := float32(1)
		if t.kind == charts.KindBar {
			aspect = float32(cfg.Charts.BarHeight) / float32(cfg.Charts.BarWidth)
		}
		img.SetMinSize(fyne.NewSize(chartMinSize(winW, aspect)))
		v.tabs[t.kind] = img
		items = append(items, container.NewTabItem(t.title, img))
	}
	tabs := container.NewAppTabs(items...)
	tabs.SetTabLocation(container.TabLocationTop)

	top := container.NewHBox(
		widget.NewButton("Open…", v.openFileDialog),
		widget.NewButton("Reload", v.reload),
		widget.NewButton("Save all", v.saveAll),
		v.status,
	)
	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))

	v.reload()
	w.ShowAndRun()
}

func (v *viewer) openFileDialog() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		v.cfg.Input.Path = rc.URI().Path()
		v.reload()
	}, v.window)
	d.Show()
}

// reload runs the pipeline off the UI goroutine and swaps the images in when done.
func (v *viewer) reload() {
	v.status.SetText("rendering " + filepath.Base(v.cfg.Input.Path) + "…")
	cfg := *v.cfg
	go func() {
		res, err := report.Render(v.ctx, &cfg)
		if v.ctx.Err() != nil {
			return
		}
		fyne.Do(func() {
			if err != nil {
				logger.Errorf("render %s: %v", cfg.Input.Path, err)
				v.status.SetText(filepath.Base(cfg.Input.Path) + ": failed")
				dialog.ShowError(err, v.window)
				return
			}
			v.images = res.Images
			for _, im := range res.Images {
				c, ok := v.tabs[im.Kind]
				if !ok {
					continue
				}
				decoded, derr := png.Decode(bytes.NewReader(im.Data))
				if derr != nil {
					logger.Warnf("decode %s: %v", im.Name, derr)
					continue
				}
				c.Image = decoded
				c.Refresh()
			}
			v.status.SetText(filepath.Base(cfg.Input.Path) + ": " + res.Summary.Period)
		})
	}()
}

func (v *viewer) saveAll() {
	if len(v.images) == 0 {
		dialog.ShowInformation("Save", "No charts to save.", v.window)
		return
	}
	paths, err := charts.WriteAll(v.cfg.Output.Dir, v.images)
	if err != nil {
		dialog.ShowError(err, v.window)
		return
	}
	for _, p := range paths {
		logger.Infof("wrote %s", p)
	}
	dialog.ShowInformation("Save", "Wrote charts to "+v.cfg.Output.Dir, v.window)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
