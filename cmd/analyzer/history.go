package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"StockAnalyzer/internal/report"
)

type historyCmd struct {
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recent analysis runs" }
func (*historyCmd) Usage() string {
	return `history [-n 20]

  Lists recorded runs, newest first. Requires database.sqlite_path.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "number of runs to show")
}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if a.cfg.Database.SQLitePath == "" {
		fmt.Fprintln(os.Stderr, "database.sqlite_path (or SQLITE_PATH) is not set, no history is kept")
		return subcommands.ExitUsageError
	}
	runs, err := a.recorder.RecentRuns(c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := report.RunTable(os.Stdout, runs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
