package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/recorder"
)

const rule = "----------------------------------------------------------------------------------"

// Dollars formats v as a 4-place dollar amount.
func Dollars(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(4)
}

// Percent formats a fractional return as a signed percentage.
func Percent(r float64) string {
	d := decimal.NewFromFloat(r).Mul(decimal.NewFromInt(100))
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		s = "+" + s
	}
	return s
}

// InitialValues prints the first normalized value of every symbol, in
// request order: the investment required to hold $1.00 at the end.
func InitialValues(w io.Writer, res *model.AnalysisResult) error {
	var b strings.Builder
	b.WriteString("\n--- Initial Normalized Values (Investment Required to reach $1.00 at End) ---\n")
	for _, s := range res.Series {
		v, ok := res.Initial[s.Symbol]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s: %s", s.Symbol, Dollars(v))
		if r, err := calculator.TotalReturn(v); err == nil {
			line += fmt.Sprintf("  (%s)", Percent(r))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(rule + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// RunTable prints recorded runs, newest first.
func RunTable(w io.Writer, runs []recorder.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tTRIGGER\tRANGE\tSTATUS\tSYMBOLS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s..%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Trigger,
			r.Start.Format(model.DateLayout), r.End.Format(model.DateLayout),
			r.Status,
			symbolsColumn(r))
	}
	return tw.Flush()
}

func symbolsColumn(r recorder.RunRecord) string {
	if r.Status != recorder.StatusOK {
		return strings.Join(r.Symbols, ",") + "  " + r.Error
	}
	parts := make([]string, 0, len(r.Series))
	for _, s := range r.Series {
		parts = append(parts, s.Symbol+"="+Dollars(s.Initial))
	}
	return strings.Join(parts, " ")
}
