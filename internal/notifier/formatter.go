package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/report"
)

// FormatSummary formats a finished analysis into a Telegram message.
func FormatSummary(res *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s</b>\n\n", html.EscapeString(res.Request.Title())))
	b.WriteString("Investment required to hold $1.00 at end:\n")
	for _, s := range res.Series {
		v, ok := res.Initial[s.Symbol]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  <code>%-6s</code> %s", html.EscapeString(s.Symbol), report.Dollars(v))
		if r, err := calculator.TotalReturn(v); err == nil {
			line += fmt.Sprintf(" (%s)", report.Percent(r))
		}
		b.WriteString(line + "\n")
	}
	if len(res.Series) > 0 {
		b.WriteString(fmt.Sprintf("\n%d trading days | source: %s", len(res.Series[0].Points), res.Source))
	}
	return b.String()
}

// FormatFailure formats a failed analysis. Errors outside the analysis
// taxonomy are reported as unexpected.
func FormatFailure(err error) string {
	var ae *analyzer.Error
	if errors.As(err, &ae) {
		return fmt.Sprintf("❌ <b>%s</b>\n%s", ae.Kind.Title(), html.EscapeString(ae.Error()))
	}
	return fmt.Sprintf("❌ <b>Unexpected Error</b>\n%s", html.EscapeString(err.Error()))
}

// FormatWatchlists lists the configured watchlists.
func FormatWatchlists(lists []config.Watchlist) string {
	if len(lists) == 0 {
		return "No watchlists configured."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Watchlists</b>\n\n")
	for _, w := range lists {
		b.WriteString(fmt.Sprintf("• <b>%s</b>: %s\n  every <code>%s</code>, %d days\n",
			html.EscapeString(w.Name), html.EscapeString(strings.Join(w.Symbols, ", ")), w.Cron, w.LookbackDays))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /compare SYMBOLS [START [END]]  e.g. <code>/compare AAPL,MSFT 2020-01-01</code>\n" +
		"• /watchlists\n" +
		"• /run NAME  run a watchlist now\n" +
		"• /help"
}
