package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/report"
)

type initialRow struct {
	Symbol  string
	Dollars string
	Return  string
}

type pageData struct {
	Symbols, Start, End string
	Busy                bool
	Notice              string
	ErrTitle, ErrMsg    string
	HasChart            bool
	ChartVersion        string
	Title               string
	Rows                []initialRow
}

func (s *Server) page(notice string) pageData {
	snap := s.snapshot()
	d := pageData{
		Symbols: snap.form.Symbols,
		Start:   snap.form.Start,
		End:     snap.form.End,
		Busy:    snap.busy,
		Notice:  notice,
	}
	if snap.lastErr != nil {
		d.ErrTitle, d.ErrMsg = errorTitle(snap.lastErr), snap.lastErr.Error()
	}
	if res := snap.result; res != nil {
		d.HasChart = true
		d.ChartVersion = res.ID
		d.Title = res.Request.Title()
		for _, sr := range res.Series {
			v, ok := res.Initial[sr.Symbol]
			if !ok {
				continue
			}
			row := initialRow{Symbol: sr.Symbol, Dollars: report.Dollars(v)}
			if r, err := calculator.TotalReturn(v); err == nil {
				row.Return = report.Percent(r)
			}
			d.Rows = append(d.Rows, row)
		}
	}
	return d
}

func errorTitle(err error) string {
	var ae *analyzer.Error
	if errors.As(err, &ae) {
		return ae.Kind.Title()
	}
	return "Unexpected Error"
}

// Index renders the form, the held chart and the last error.
func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", s.page(""))
}

// SubmitForm runs the submitted analysis and redirects back to the form.
func (s *Server) SubmitForm(c *gin.Context) {
	err := s.Analyze(c.Request.Context(), c.PostForm("symbols"), c.PostForm("start"), c.PostForm("end"), "WEB")
	if errors.Is(err, ErrBusy) {
		c.HTML(http.StatusConflict, "index", s.page("Analyzing... please wait for the running analysis to finish."))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ChartImage serves the held chart in the given format.
func (s *Server) ChartImage(format string) gin.HandlerFunc {
	contentType := chart.Options{Format: format}.ContentType()
	return func(c *gin.Context) {
		data := s.chartBytes(format)
		if data == nil {
			c.String(http.StatusNotFound, "no chart yet")
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, contentType, data)
	}
}

// APIAnalyze runs an analysis from query parameters and returns the result
// as JSON. It does not replace the chart held for the form.
func (s *Server) APIAnalyze(c *gin.Context) {
	req, err := analyzer.ParseRequest(c.Query("symbols"), c.Query("start"), c.Query("end"), s.Defaults.LookbackYears, s.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := s.Analyzer.Run(c.Request.Context(), req, "API")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// APIRuns lists recorded runs, newest first.
func (s *Server) APIRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	runs, err := s.Analyzer.Recorder.RecentRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := ""
	var ae *analyzer.Error
	if errors.As(err, &ae) {
		kind = string(ae.Kind)
		switch ae.Kind {
		case analyzer.KindInvalidInput:
			status = http.StatusBadRequest
		case analyzer.KindNoData:
			status = http.StatusNotFound
		case analyzer.KindArithmetic:
			status = http.StatusUnprocessableEntity
		case analyzer.KindFetch:
			status = http.StatusBadGateway
		case analyzer.KindCanceled:
			status = http.StatusRequestTimeout
		}
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
