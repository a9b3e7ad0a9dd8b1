package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/model"
)

// ErrBusy is returned while another form analysis is running.
var ErrBusy = errors.New("an analysis is already running")

// Defaults prefill the form.
type Defaults struct {
	Symbols       string
	LookbackYears int
}

// Server is the local web form. It holds the chart of the last successful
// form run; a failed run keeps the previous chart.
type Server struct {
	Analyzer *analyzer.Analyzer
	Chart    chart.Options
	Defaults Defaults
	Logger   *zap.Logger
	Now      func() time.Time

	mu      sync.Mutex
	busy    bool
	form    formValues
	result  *model.AnalysisResult
	png     []byte
	svg     []byte
	lastErr error
}

type formValues struct {
	Symbols string
	Start   string
	End     string
}

// New creates a Server.
func New(an *analyzer.Analyzer, opts chart.Options, defaults Defaults, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Analyzer: an,
		Chart:    opts,
		Defaults: defaults,
		Logger:   logger,
		Now:      time.Now,
	}
}

// defaultForm is the symbols default plus the lookback window ending today.
func (s *Server) defaultForm() formValues {
	years := s.Defaults.LookbackYears
	if years <= 0 {
		years = 5
	}
	now := s.Now()
	return formValues{
		Symbols: s.Defaults.Symbols,
		Start:   now.AddDate(-years, 0, 0).Format(model.DateLayout),
		End:     now.Format(model.DateLayout),
	}
}

// Analyze runs one form submission. Only one runs at a time; a concurrent
// call gets ErrBusy without touching the held state.
func (s *Server) Analyze(ctx context.Context, symbols, start, end, trigger string) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.form = formValues{Symbols: symbols, Start: start, End: end}
	s.mu.Unlock()

	res, png, svg, err := s.analyze(ctx, symbols, start, end, trigger)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.lastErr = err
	if err == nil {
		s.result, s.png, s.svg = res, png, svg
	}
	return err
}

func (s *Server) analyze(ctx context.Context, symbols, start, end, trigger string) (*model.AnalysisResult, []byte, []byte, error) {
	req, err := analyzer.ParseRequest(symbols, start, end, s.Defaults.LookbackYears, s.Now())
	if err != nil {
		return nil, nil, nil, err
	}
	res, err := s.Analyzer.Run(ctx, req, trigger)
	if err != nil {
		return nil, nil, nil, err
	}

	var png, svg bytes.Buffer
	opts := s.Chart
	opts.Format = "png"
	if err := chart.Render(&png, res, opts); err != nil {
		return nil, nil, nil, fmt.Errorf("render chart: %w", err)
	}
	opts.Format = "svg"
	if err := chart.Render(&svg, res, opts); err != nil {
		return nil, nil, nil, fmt.Errorf("render chart: %w", err)
	}
	return res, png.Bytes(), svg.Bytes(), nil
}

// Warmup runs the default analysis once, as on opening the form.
func (s *Server) Warmup(ctx context.Context) {
	f := s.defaultForm()
	if err := s.Analyze(ctx, f.Symbols, f.Start, f.End, "STARTUP"); err != nil {
		s.Logger.Warn("startup analysis failed", zap.Error(err))
	}
}

type snapshot struct {
	busy    bool
	form    formValues
	result  *model.AnalysisResult
	lastErr error
}

func (s *Server) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{busy: s.busy, form: s.form, result: s.result, lastErr: s.lastErr}
	if snap.form == (formValues{}) {
		snap.form = s.defaultForm()
	}
	return snap
}

func (s *Server) chartBytes(format string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if format == "svg" {
		return s.svg
	}
	return s.png
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("web form listening", zap.String("addr", "http://"+addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.Logger.Info("web form stopped")
	return nil
}
