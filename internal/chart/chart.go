package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"StockAnalyzer/internal/model"
)

const yLabel = "Normalized Asset Worth (End Value = $1.00)"

// Options control the rendered image.
type Options struct {
	WidthInches  float64
	HeightInches float64
	Format       string // "png" or "svg"
}

// DefaultOptions is an 8x5 inch PNG.
var DefaultOptions = Options{WidthInches: 8, HeightInches: 5, Format: "png"}

// ContentType returns the MIME type of the format.
func (o Options) ContentType() string {
	if strings.EqualFold(o.Format, "svg") {
		return "image/svg+xml"
	}
	return "image/png"
}

// FormatFromPath returns "svg" for .svg files and "png" otherwise.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return "svg"
	}
	return "png"
}

// Build lays out one line per symbol on a shared date axis.
func Build(res *model.AnalysisResult) (*plot.Plot, error) {
	if res == nil || len(res.Series) == 0 {
		return nil, errors.New("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = res.Request.Title()
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: model.DateLayout}

	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Dashes = dashes
	p.Add(grid)

	for i, s := range res.Series {
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X = float64(pt.Date.Unix())
			xys[j].Y = pt.Price
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", s.Symbol, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Symbol, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if res.YMax > res.YMin {
		p.Y.Min = res.YMin
		p.Y.Max = res.YMax
	}
	return p, nil
}

// Render writes the chart of res to w.
func Render(w io.Writer, res *model.AnalysisResult, opts Options) error {
	p, err := Build(res)
	if err != nil {
		return err
	}
	if opts.WidthInches <= 0 || opts.HeightInches <= 0 {
		opts.WidthInches, opts.HeightInches = DefaultOptions.WidthInches, DefaultOptions.HeightInches
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = DefaultOptions.Format
	}
	wt, err := p.WriterTo(vg.Length(opts.WidthInches)*vg.Inch, vg.Length(opts.HeightInches)*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("chart writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// RenderFile writes the chart to path, creating parent directories. The
// format follows the file extension.
func RenderFile(path string, res *model.AnalysisResult, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	opts.Format = FormatFromPath(path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := Render(f, res, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
