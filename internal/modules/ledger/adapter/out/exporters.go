package out

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"moneywatch/internal/modules/ledger/domain"
	ledgerout "moneywatch/internal/modules/ledger/port/out"
	"moneywatch/internal/platform/markdown"
)

const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

type exportSummary struct {
	Currency     string    `json:"currency" yaml:"currency"`
	AllTime      string    `json:"all_time" yaml:"all_time"`
	Today        string    `json:"today" yaml:"today"`
	WatchedToday int       `json:"watched_today" yaml:"watched_today"`
	Records      int       `json:"records" yaml:"records"`
	GeneratedAt  time.Time `json:"generated_at" yaml:"generated_at"`
}

type exportRecord struct {
	Seq         int64     `json:"seq" yaml:"seq"`
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Category    string    `json:"category" yaml:"category"`
	DurationMin int       `json:"duration_minutes" yaml:"duration_minutes"`
	Earnings    string    `json:"earnings" yaml:"earnings"`
	Platform    string    `json:"platform" yaml:"platform"`
	Origin      string    `json:"origin" yaml:"origin"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

type exportDocument struct {
	Summary exportSummary  `json:"summary" yaml:"summary"`
	Records []exportRecord `json:"records" yaml:"records"`
}

func newDocument(records []domain.WatchRecord, summary domain.Summary) exportDocument {
	doc := exportDocument{
		Summary: exportSummary{
			Currency:     summary.Currency,
			AllTime:      summary.AllTime.String(),
			Today:        summary.Today.String(),
			WatchedToday: summary.WatchedToday,
			Records:      summary.Records,
			GeneratedAt:  summary.GeneratedAt,
		},
		Records: make([]exportRecord, 0, len(records)),
	}
	for _, rec := range records {
		doc.Records = append(doc.Records, exportRecord{
			Seq:         rec.Seq,
			ID:          rec.ID,
			Title:       rec.Title,
			Category:    string(rec.Category),
			DurationMin: rec.DurationMin,
			Earnings:    rec.Earnings.String(),
			Platform:    rec.Platform,
			Origin:      string(rec.Origin),
			CreatedAt:   rec.CreatedAt,
		})
	}
	return doc
}

type JSONExporter struct{}

func (JSONExporter) Format() string { return FormatJSON }

func (JSONExporter) Export(_ context.Context, records []domain.WatchRecord, summary domain.Summary) ([]byte, error) {
	raw, err := json.MarshalIndent(newDocument(records, summary), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json export: %w", err)
	}
	return append(raw, '\n'), nil
}

type YAMLExporter struct{}

func (YAMLExporter) Format() string { return FormatYAML }

func (YAMLExporter) Export(_ context.Context, records []domain.WatchRecord, summary domain.Summary) ([]byte, error) {
	raw, err := yaml.Marshal(newDocument(records, summary))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml export: %w", err)
	}
	return raw, nil
}

// MarkdownExporter writes the summary as frontmatter and the records as a
// pipe table.
type MarkdownExporter struct{}

func (MarkdownExporter) Format() string { return FormatMarkdown }

func (MarkdownExporter) Export(_ context.Context, records []domain.WatchRecord, summary domain.Summary) ([]byte, error) {
	doc := newDocument(records, summary)
	meta := map[string]any{
		"currency":      doc.Summary.Currency,
		"all_time":      doc.Summary.AllTime,
		"today":         doc.Summary.Today,
		"watched_today": doc.Summary.WatchedToday,
		"records":       doc.Summary.Records,
		"generated_at":  doc.Summary.GeneratedAt.Format(time.RFC3339),
	}
	body := strings.Builder{}
	body.WriteString("# Watch history\n\n")
	if len(records) == 0 {
		body.WriteString("_No records yet._\n")
	} else {
		body.WriteString("| # | Title | Category | Platform | Minutes | Earnings | Created |\n")
		body.WriteString("|---|---|---|---|---|---|---|\n")
		for _, rec := range records {
			fmt.Fprintf(&body, "| %d | %s | %s | %s | %d | %s | %s |\n",
				rec.Seq,
				escapeCell(rec.Title),
				rec.Category.Label(),
				escapeCell(rec.Platform),
				rec.DurationMin,
				rec.Earnings.Format(summary.Currency),
				rec.CreatedAt.Format(time.RFC3339),
			)
		}
	}
	out, err := markdown.RenderFrontmatter(meta, body.String())
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// cellEscaper keeps a value on one table row.
var cellEscaper = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "|", `\|`)

func escapeCell(v string) string {
	return cellEscaper.Replace(v)
}

type TableExporter struct{}

func (TableExporter) Format() string { return FormatTable }

func (TableExporter) Export(_ context.Context, records []domain.WatchRecord, summary domain.Summary) ([]byte, error) {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", rec.Seq),
			rec.Title,
			rec.Category.Label(),
			rec.Platform,
			fmt.Sprintf("%d min", rec.DurationMin),
			rec.Earnings.Format(summary.Currency),
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TITLE", "CATEGORY", "PLATFORM", "DURATION", "EARNINGS", "CREATED").
		Rows(rows...)
	footer := fmt.Sprintf("all time %s  today %s  watched today %d\n",
		summary.AllTime.Format(summary.Currency),
		summary.Today.Format(summary.Currency),
		summary.WatchedToday,
	)
	return []byte(t.String() + "\n" + footer), nil
}

// Exporters indexes the built-in exporters by format name.
func Exporters() map[string]ledgerout.Exporter {
	all := []ledgerout.Exporter{TableExporter{}, JSONExporter{}, YAMLExporter{}, MarkdownExporter{}}
	out := make(map[string]ledgerout.Exporter, len(all))
	for _, e := range all {
		out[e.Format()] = e
	}
	return out
}

// FormatNames lists the registered formats in a stable order.
func FormatNames(exporters map[string]ledgerout.Exporter) []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
