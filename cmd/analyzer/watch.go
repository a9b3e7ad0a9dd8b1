package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/scheduler"
)

type watchCmd struct {
	runNow string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "re-analyse configured watchlists on their cron schedules" }
func (*watchCmd) Usage() string {
	return `watch [-run-now NAME]

  Runs every watchlist of the config on its cron schedule, writing its
  chart and, when Telegram is configured, sending the summary and serving
  bot commands (/compare, /watchlists, /run, /help). Stops on Ctrl+C.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.runNow, "run-now", "", "run the named watchlist once at startup")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	var (
		tn *notifier.TelegramNotifier
		n  scheduler.Notifier
	)
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
		n = tn
	} else {
		a.logger.Info("telegram not configured, notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, a.analyzer, n, a.cfg.Watchlists, a.chartOptions(), a.logger)
	sched.LookbackYears = a.cfg.Analysis.LookbackYears
	if err := sched.RegisterAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: register watchlists: %v\n", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		a.logger.Info("telegram polling started")
	}
	if c.runNow != "" {
		go func() {
			if err := sched.RunNow(c.runNow); err != nil {
				a.logger.Error("startup watchlist run failed", zap.String("watchlist", c.runNow), zap.Error(err))
			}
		}()
	}

	a.logger.Info("watching, press Ctrl+C to stop")
	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping")
	return subcommands.ExitSuccess
}
