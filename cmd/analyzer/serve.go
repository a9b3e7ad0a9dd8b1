package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"StockAnalyzer/internal/server"
)

type serveCmd struct {
	listen   string
	noWarmup bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the analysis form on a local web page" }
func (*serveCmd) Usage() string {
	return `serve [-listen 127.0.0.1:8080] [-no-warmup]

  Serves a form for symbols and dates. Submitting it replaces the chart
  below the form; a failed run shows the error and keeps the last chart.
  The default symbols are analysed once at startup.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.listen, "listen", "", "listen address (default from config)")
	f.BoolVar(&c.noWarmup, "no-warmup", false, "skip the startup analysis")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	addr := c.listen
	if addr == "" {
		addr = a.cfg.Server.Listen
	}
	srv := server.New(a.analyzer, a.chartOptions(), server.Defaults{
		Symbols:       a.cfg.Analysis.DefaultSymbols,
		LookbackYears: a.cfg.Analysis.LookbackYears,
	}, a.logger)
	if !c.noWarmup {
		go srv.Warmup(ctx)
	}

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
