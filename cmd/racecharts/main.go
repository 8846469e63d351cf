// Command racecharts renders the FTE headcount charts from a race export.
//
// With no arguments it reads race.csv from the working directory and writes the three PNGs
// next to it.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/MoacirMFB/LCC-Stats/src/config"
	"github.com/MoacirMFB/LCC-Stats/src/logger"
	"github.com/MoacirMFB/LCC-Stats/src/report"
)

type options struct {
	configPath string
	input      string
	outDir     string
	logLevel   string
	footer     bool
}

func newRootCmd() *cobra.Command {
	var opts options
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:           "racecharts",
		Short:         "Render FTE headcount charts for the latest reporting period",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd, opts)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := report.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			logger.Infof("period %s: %d charts written to %s", res.Summary.Period, len(res.Paths), cfg.Output.Dir)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML config file (or set "+config.EnvConfigPath+")")
	f.StringVarP(&opts.input, "input", "i", "", "input export, .csv or .xlsx (default race.csv)")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "directory for the PNG files (default .)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default info)")
	f.BoolVar(&opts.footer, "footer", false, "stamp period and total headcount under each chart")
	return cmd
}

// loadConfig resolves the config file and overlays the flags the user actually set.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	path, required := config.ResolvePath(opts.configPath)
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	fl := config.Flags{Input: opts.input, OutDir: opts.outDir, LogLevel: opts.logLevel}
	if cmd.Flags().Changed("footer") {
		fl.Footer = &opts.footer
	}
	if err := cfg.Apply(fl); err != nil {
		return nil, err
	}
	logger.SetLogLevel(cfg.LogLevel)
	logger.Debugf("config: %s (input %s, out %s)", path, cfg.Input.Path, cfg.Output.Dir)
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
