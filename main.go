package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"sitescope/config"
	"sitescope/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerWithLevel(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	app := &cli.App{
		Name:  "sitescope",
		Usage: "rank construction RFPs for a general contractor",
		Action: func(c *cli.Context) error {
			return serveAction(c, cfg, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the intake and results screens",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: cfg.ListenAddr, Usage: "listen address"},
				},
				Action: func(c *cli.Context) error {
					return serveAction(c, cfg, logger)
				},
			},
			{
				Name:  "report",
				Usage: "fetch RFPs once and print the ranked table",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Value: cfg.DataSource, Usage: "live or fixture"},
					&cli.StringFlag{Name: "name", Value: "your company", Usage: "contractor name for the heading"},
					&cli.BoolFlag{Name: "csv", Usage: "also export rows to CSV_OUTPUT_PATH"},
				},
				Action: func(c *cli.Context) error {
					return reportAction(c, cfg, logger)
				},
			},
			{
				Name:  "snapshot",
				Usage: "capture the results screen of a running server as a PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Value: "http://localhost" + cfg.ListenAddr, Usage: "base URL of the server"},
					&cli.StringFlag{Name: "name", Value: "SiteScope Demo GC", Usage: "contractor name to submit"},
					&cli.StringFlag{Name: "description", Value: "Commercial general contractor", Usage: "company description to submit"},
					&cli.StringFlag{Name: "source", Usage: "override the results source (live or fixture)"},
					&cli.StringFlag{Name: "out", Value: cfg.SnapshotPath, Usage: "output PNG path"},
					&cli.DurationFlag{Name: "timeout", Value: 0, Usage: "overall browser timeout (default 60s plus SUBMIT_DELAY)"},
				},
				Action: func(c *cli.Context) error {
					return snapshotAction(c, cfg, logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("%v", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}
