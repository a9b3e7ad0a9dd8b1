package server

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Stock Performance Analyzer</title>
{{if .Busy}}<meta http-equiv="refresh" content="2">{{end}}
<style>
body { font-family: sans-serif; margin: 2em; }
label { display: inline-block; width: 14em; }
.error { color: #b00020; border: 1px solid #b00020; padding: .5em; margin: 1em 0; }
.notice { color: #555; }
table { border-collapse: collapse; margin-top: 1em; }
td { padding: .2em 1em; font-family: monospace; }
</style>
</head>
<body>
<h1>Stock Performance Analyzer</h1>
<form method="post" action="/analyze">
  <p><label for="symbols">Stock Symbols (comma-separated):</label>
     <input id="symbols" name="symbols" size="50" value="{{.Symbols}}"></p>
  <p><label for="start">Start Date (YYYY-MM-DD):</label>
     <input id="start" name="start" size="12" value="{{.Start}}"></p>
  <p><label for="end">End Date (YYYY-MM-DD):</label>
     <input id="end" name="end" size="12" value="{{.End}}"></p>
  <p><button type="submit"{{if .Busy}} disabled{{end}}>{{if .Busy}}Analyzing...{{else}}Analyze &amp; Plot{{end}}</button></p>
</form>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{if .ErrMsg}}<div class="error"><strong>{{.ErrTitle}}</strong>: {{.ErrMsg}}</div>{{end}}
{{if .HasChart}}
<h2>{{.Title}}</h2>
<img src="/chart.png?v={{.ChartVersion}}" alt="{{.Title}}">
<p><a href="/chart.svg?v={{.ChartVersion}}">SVG</a></p>
<table>
  <caption>Initial Normalized Values (Investment Required to reach $1.00 at End)</caption>
  {{range .Rows}}<tr><td>{{.Symbol}}</td><td>{{.Dollars}}</td><td>{{.Return}}</td></tr>
  {{end}}
</table>
{{end}}
</body>
</html>
`
