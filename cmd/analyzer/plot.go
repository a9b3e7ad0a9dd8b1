package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/report"
)

type plotCmd struct {
	symbols string
	start   string
	end     string
	output  string
}

func (*plotCmd) Name() string     { return "plot" }
func (*plotCmd) Synopsis() string { return "plot normalized performance of several stocks" }
func (*plotCmd) Usage() string {
	return `plot [-symbols AAPL,MSFT] [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-o chart.png]

  Fetches adjusted daily prices, scales every series so its last value is
  $1.00, prints the initial values and writes the chart. Dates default to
  the configured lookback ending today. The end date is exclusive.
`
}

func (c *plotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "symbols", "", "comma-separated stock symbols (default from config)")
	f.StringVar(&c.start, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&c.end, "end", "", "end date, YYYY-MM-DD (exclusive)")
	f.StringVar(&c.output, "o", "", "chart output path, .png or .svg (default chart.<format>)")
}

func (c *plotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	symbols := c.symbols
	if symbols == "" {
		symbols = a.cfg.Analysis.DefaultSymbols
	}
	req, err := analyzer.ParseRequest(symbols, c.start, c.end, a.cfg.Analysis.LookbackYears, a.analyzer.Now())
	if err != nil {
		printFailure(err)
		return subcommands.ExitUsageError
	}
	res, err := a.analyzer.Run(ctx, req, "CLI")
	if err != nil {
		printFailure(err)
		return subcommands.ExitFailure
	}

	if err := report.InitialValues(os.Stdout, res); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = "chart." + a.cfg.Chart.Format
	}
	if err := chart.RenderFile(output, res, a.chartOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	a.logger.Info("chart written", zap.String("path", output))
	fmt.Printf("Chart written to %s\n", output)
	return subcommands.ExitSuccess
}

func printFailure(err error) {
	var ae *analyzer.Error
	if errors.As(err, &ae) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ae.Kind.Title(), ae)
		return
	}
	fmt.Fprintf(os.Stderr, "Unexpected Error: %v\n", err)
}
