package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/recorder"
)

// Analyzer runs the fetch -> align -> normalize pipeline.
type Analyzer struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Logger    *zap.Logger
	Now       func() time.Time
}

// New creates an Analyzer. A nil recorder disables run history.
func New(col *collector.Collector, rec recorder.Recorder, logger *zap.Logger) *Analyzer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{Collector: col, Recorder: rec, Logger: logger, Now: time.Now}
}

// Run analyses one request. Any failure is returned as *Error. The trigger
// names the caller in the run history.
func (a *Analyzer) Run(ctx context.Context, req model.AnalysisRequest, trigger string) (*model.AnalysisResult, error) {
	id := uuid.NewString()
	log := a.Logger.With(zap.String("run_id", id), zap.Strings("symbols", req.Symbols), zap.String("trigger", trigger))
	log.Info("running analysis",
		zap.String("start", req.Start.Format(model.DateLayout)),
		zap.String("end", req.End.Format(model.DateLayout)))

	res, err := a.run(ctx, req)
	if err != nil {
		ae := classify(ctx, err)
		log.Warn("analysis failed", zap.String("kind", string(ae.Kind)), zap.Error(ae))
		a.record(id, trigger, req, nil, ae)
		return nil, ae
	}
	res.ID = id
	a.record(id, trigger, req, res, nil)
	log.Info("analysis finished", zap.Int("series", len(res.Series)))
	return res, nil
}

func (a *Analyzer) run(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	if len(req.Symbols) == 0 {
		return nil, invalid("please enter at least one valid stock symbol", nil)
	}
	if !req.Start.Before(req.End) {
		return nil, invalid("start date must be before end date", nil)
	}

	raw, err := a.Collector.Collect(ctx, req)
	if err != nil {
		return nil, err
	}
	aligned, err := calculator.Align(raw)
	if err != nil {
		return nil, err
	}
	normalized, err := calculator.NormalizeAll(aligned)
	if err != nil {
		return nil, err
	}
	low, high, err := calculator.YLimits(normalized)
	if err != nil {
		return nil, err
	}

	return &model.AnalysisResult{
		Request:   req,
		Series:    normalized,
		Initial:   calculator.InitialValues(normalized),
		YMin:      low,
		YMax:      high,
		Source:    a.Collector.Fetcher.Name(),
		CreatedAt: a.Now(),
	}, nil
}

// record is best effort: history must never fail an analysis.
func (a *Analyzer) record(id, trigger string, req model.AnalysisRequest, res *model.AnalysisResult, failure *Error) {
	run := &recorder.RunRecord{
		ID:        id,
		CreatedAt: a.Now(),
		Trigger:   trigger,
		Symbols:   req.Symbols,
		Start:     req.Start,
		End:       req.End,
		Source:    a.Collector.Fetcher.Name(),
		Status:    recorder.StatusOK,
	}
	if failure != nil {
		run.Status = recorder.StatusError
		run.ErrorKind = string(failure.Kind)
		run.Error = failure.Error()
	}
	if res != nil {
		for _, s := range res.Series {
			sum := recorder.SeriesSummary{Symbol: s.Symbol, Points: len(s.Points), Initial: res.Initial[s.Symbol]}
			if len(s.Points) > 0 {
				sum.FirstDate = s.Points[0].Date
				sum.LastDate = s.Points[len(s.Points)-1].Date
			}
			run.Series = append(run.Series, sum)
		}
	}
	if err := a.Recorder.RecordRun(run); err != nil {
		a.Logger.Error("record run", zap.String("run_id", id), zap.Error(err))
	}
}
