package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
)

// Notifier delivers run outcomes. *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendPhotoWithRetry(ctx context.Context, caption string, png []byte, maxRetries int) error
}

const sendRetries = 3

// Scheduler runs watchlists on their cron schedules.
type Scheduler struct {
	Cron          *cron.Cron
	Analyzer      *analyzer.Analyzer
	Notifier      Notifier // nil disables notifications
	Watchlists    []config.Watchlist
	Chart         chart.Options
	LookbackYears int
	Logger        *zap.Logger
	Ctx           context.Context
	Now           func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an *analyzer.Analyzer, n Notifier, lists []config.Watchlist, opts chart.Options, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Analyzer:      an,
		Notifier:      n,
		Watchlists:    lists,
		Chart:         opts,
		LookbackYears: 5,
		Logger:        logger,
		Ctx:           ctx,
		Now:           time.Now,
	}
}

// RegisterAll registers one cron entry per watchlist.
func (s *Scheduler) RegisterAll() error {
	for _, w := range s.Watchlists {
		name := w.Name
		if _, err := s.Cron.AddFunc(w.Cron, func() {
			if err := s.RunNow(name); err != nil {
				s.Logger.Error("watchlist run failed", zap.String("watchlist", name), zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("register watchlist %s: %w", name, err)
		}
		s.Logger.Info("watchlist registered", zap.String("watchlist", name), zap.String("cron", w.Cron))
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("watchlists", len(s.Watchlists)))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

func (s *Scheduler) watchlist(name string) (config.Watchlist, bool) {
	for _, w := range s.Watchlists {
		if strings.EqualFold(w.Name, name) {
			return w, true
		}
	}
	return config.Watchlist{}, false
}

// RunNow analyses the named watchlist immediately, writes its chart and
// notifies. Analysis failures are notified and returned.
func (s *Scheduler) RunNow(name string) error {
	w, ok := s.watchlist(name)
	if !ok {
		return fmt.Errorf("unknown watchlist %q", name)
	}
	log := s.Logger.With(zap.String("watchlist", w.Name))
	log.Info("running watchlist")

	req, err := analyzer.NewRequest(w.Symbols, w.LookbackDays, s.Now())
	if err != nil {
		s.trySend(notifier.FormatFailure(err))
		return err
	}
	res, err := s.Analyzer.Run(s.Ctx, req, "SCHEDULE:"+w.Name)
	if err != nil {
		s.trySend(notifier.FormatFailure(err))
		return err
	}

	if w.Output != "" {
		if err := chart.RenderFile(w.Output, res, s.Chart); err != nil {
			log.Error("write chart", zap.String("path", w.Output), zap.Error(err))
		} else {
			log.Info("chart written", zap.String("path", w.Output))
		}
	}
	s.publish(res, fmt.Sprintf("🕒 <b>%s</b>\n", w.Name))
	return nil
}

// publish sends the chart with the summary as caption, falling back to
// text only when the chart cannot be rendered.
func (s *Scheduler) publish(res *model.AnalysisResult, heading string) {
	if s.Notifier == nil {
		return
	}
	caption := heading + notifier.FormatSummary(res)

	opts := s.Chart
	opts.Format = "png"
	var buf bytes.Buffer
	if err := chart.Render(&buf, res, opts); err != nil {
		s.Logger.Error("render chart for telegram", zap.Error(err))
		s.trySend(caption)
		return
	}
	if err := s.Notifier.SendPhotoWithRetry(s.Ctx, caption, buf.Bytes(), sendRetries); err != nil {
		s.Logger.Error("send chart", zap.Error(err))
	}
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch cmd {
	case "/compare":
		return s.compare(ctx, args)
	case "/watchlists":
		return notifier.FormatWatchlists(s.Watchlists)
	case "/run":
		if len(args) != 1 {
			return "usage: /run NAME"
		}
		if _, ok := s.watchlist(args[0]); !ok {
			return fmt.Sprintf("unknown watchlist %q, see /watchlists", args[0])
		}
		name := args[0]
		go func() {
			if err := s.RunNow(name); err != nil {
				s.Logger.Warn("manual watchlist run failed", zap.String("watchlist", name), zap.Error(err))
			}
		}()
		return fmt.Sprintf("started watchlist %s, the chart follows when it finishes", html.EscapeString(name))
	default:
		return notifier.FormatHelp()
	}
}

// compare handles "/compare SYMBOLS [START [END]]".
func (s *Scheduler) compare(ctx context.Context, args []string) string {
	if len(args) == 0 || len(args) > 3 {
		return "usage: /compare SYMBOLS [START [END]]"
	}
	var start, end string
	if len(args) > 1 {
		start = args[1]
	}
	if len(args) > 2 {
		end = args[2]
	}
	req, err := analyzer.ParseRequest(args[0], start, end, s.LookbackYears, s.Now())
	if err != nil {
		return notifier.FormatFailure(err)
	}
	res, err := s.Analyzer.Run(ctx, req, "TELEGRAM")
	if err != nil {
		return notifier.FormatFailure(err)
	}
	if s.Notifier == nil {
		return notifier.FormatSummary(res)
	}
	s.publish(res, "")
	return ""
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
