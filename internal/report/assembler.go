package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/insight"
	"MarketPulse/internal/model"
)

// Document is the finished report handed to the delivery collaborator.
type Document struct {
	Subject string
	HTML    string
}

// Section is one leaderboard table in the report.
type Section struct {
	Title      string
	Timeframes []string
	Rows       []Row
}

// Row is one pre-formatted leaderboard line.
type Row struct {
	Name    string
	Symbol  string
	Price   string
	Changes []string
}

// IndexTable is the week-over-week daily comparison for one index.
type IndexTable struct {
	Name string
	Rows []IndexRow
}

// IndexRow is one day of an index comparison table.
type IndexRow struct {
	Day    string
	Change string
}

// Comparison is the optional run-over-run line derived from the previous
// run summary.
type Comparison struct {
	PreviousDate string
	Text         string
}

// Data carries everything the assembler renders.
type Data struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
	Insights    []model.Insight
	Stats       model.MarketStats
	IndexTables []IndexTable
	Charts      []template.HTML
	Comparison  *Comparison
}

const placeholder = "No data available"

// FormatChange renders a change cell, falling back to the degraded-content
// placeholder when the metric is unavailable.
func FormatChange(c model.Change) string {
	if !c.Valid {
		return placeholder
	}
	return insight.FormatSignedPct(c.Pct)
}

// FormatPrice renders a price cell.
func FormatPrice(r model.PerformanceRecord) string {
	if !r.HasPrice {
		return placeholder
	}
	return fmt.Sprintf("%.2f", r.Price)
}

// BuildSection converts a leaderboard into a renderable table section.
// An empty board still produces a section so the report shows the
// placeholder instead of silently dropping the group.
func BuildSection(title string, lb model.Leaderboard, timeframes []model.Timeframe) Section {
	sec := Section{Title: title}
	for _, tf := range timeframes {
		sec.Timeframes = append(sec.Timeframes, tf.Name)
	}
	for _, rec := range lb.Records {
		row := Row{Name: rec.Name, Symbol: rec.Symbol, Price: FormatPrice(rec)}
		for _, tf := range timeframes {
			row.Changes = append(row.Changes, FormatChange(rec.ChangeFor(tf.Name)))
		}
		sec.Rows = append(sec.Rows, row)
	}
	return sec
}

// BuildIndexTable converts a week-over-week day table for one index.
func BuildIndexTable(name string, changes []calculator.DayChange) IndexTable {
	table := IndexTable{Name: name}
	for _, dc := range changes {
		table.Rows = append(table.Rows, IndexRow{Day: dc.Day, Change: FormatChange(dc.Change)})
	}
	return table
}

// BuildComparison renders the run-over-run line from the previous run
// summary, or nil when there is nothing to compare against.
func BuildComparison(prev *model.RunSummary, current model.MarketStats) *Comparison {
	if prev == nil || !prev.BreadthValid || !current.Breadth.Valid {
		return nil
	}
	delta := calculator.RoundPct(current.Breadth.Pct - prev.BreadthPct)
	direction := "unchanged from"
	if delta > 0 {
		direction = "up from"
	} else if delta < 0 {
		direction = "down from"
	}
	return &Comparison{
		PreviousDate: prev.GeneratedAt.Format("2006-01-02"),
		Text: fmt.Sprintf("Breadth %.2f%%, %s %.2f%% last report (%s).",
			current.Breadth.Pct, direction, prev.BreadthPct, insight.FormatSignedPct(delta)),
	}
}

// Assembler renders the final HTML document.
type Assembler struct {
	Subject string
	tmpl    *template.Template
}

// NewAssembler creates an Assembler with the given subject line base.
func NewAssembler(subject string) *Assembler {
	return &Assembler{
		Subject: subject,
		tmpl:    template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Build renders the report. The subject carries the generation date.
func (a *Assembler) Build(data Data) (Document, error) {
	if data.Title == "" {
		data.Title = a.Subject
	}
	var b strings.Builder
	if err := a.tmpl.Execute(&b, data); err != nil {
		return Document{}, fmt.Errorf("render report: %w", err)
	}
	return Document{
		Subject: fmt.Sprintf("%s | %s", a.Subject, data.GeneratedAt.Format("2006-01-02")),
		HTML:    b.String(),
	}, nil
}

const reportTemplate = `<h2>📊 {{.Title}}</h2>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>

<h3>Market Summary</h3>
<p>Tracked: {{.Stats.Tracked}} | Evaluated: {{.Stats.Evaluated}} | Gainers: {{.Stats.Gainers}} | Losers: {{.Stats.Losers}} |
Breadth: {{if .Stats.Breadth.Valid}}{{printf "%.2f%%" .Stats.Breadth.Pct}}{{else}}No data available{{end}}</p>
{{if .Comparison}}<p><i>{{.Comparison.Text}}</i></p>{{end}}

<h3>Insights</h3>
<ul>
{{range .Insights}}<li><b>[{{.Severity}}]</b> {{.Text}}</li>
{{end}}</ul>

{{range .Sections}}<h3>{{.Title}}</h3>
{{if .Rows}}<table border='1' cellpadding='5'><tr><th>Name</th><th>Symbol</th><th>Price</th>{{range .Timeframes}}<th>{{.}} %</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.Name}}</td><td>{{.Symbol}}</td><td>{{.Price}}</td>{{range .Changes}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table><br>
{{else}}<p>No data available</p>
{{end}}{{end}}
{{range .IndexTables}}<h4>{{.Name}} Week-over-Week</h4>
{{if .Rows}}<table border='1' cellpadding='5'><tr><th>Day</th><th>% Change</th></tr>
{{range .Rows}}<tr><td>{{.Day}}</td><td>{{.Change}}</td></tr>
{{end}}</table><br>
{{else}}<p>No data available</p>
{{end}}{{end}}
{{range .Charts}}{{.}}<br>
{{end}}`
