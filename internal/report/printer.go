package report

import (
	"embed"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/lipgloss"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"codeberg.org/snonux/sheetxlate/internal/batch"
)

//go:embed active.*.toml
var localeFS embed.FS

// DefaultLocale is used when the configured locale is empty or unknown
const DefaultLocale = "en"

// Printer writes the localized console report of a run
type Printer struct {
	out       io.Writer
	localizer *i18n.Localizer
	numbers   *message.Printer

	plainStyle lipgloss.Style
	titleStyle lipgloss.Style
	okStyle    lipgloss.Style
	warnStyle  lipgloss.Style
	mutedStyle lipgloss.Style
}

// NewPrinter creates a printer for the given locale (e.g. "en", "zh")
func NewPrinter(out io.Writer, locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range []string{"active.en.toml", "active.zh.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("report: failed to load %s: %v", file, err)
		}
	}

	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:        out,
		localizer:  i18n.NewLocalizer(bundle, tag.String(), DefaultLocale),
		numbers:    message.NewPrinter(tag),
		plainStyle: r.NewStyle(),
		titleStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		okStyle:    r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warnStyle:  r.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		mutedStyle: r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Banner announces the run
func (p *Printer) Banner(input string, languages int, model string) {
	p.line(p.titleStyle, "Banner", map[string]any{
		"Input":     input,
		"Languages": languages,
		"Model":     model,
	})
}

// Loaded reports the size of the job set before dispatching
func (p *Printer) Loaded(rows, jobs, workers int) {
	p.line(p.mutedStyle, "Loaded", map[string]any{
		"Rows":    p.number(int64(rows)),
		"Jobs":    p.number(int64(jobs)),
		"Workers": workers,
	})
}

// Summary prints the bill, the failed cell count and where the result went
func (p *Printer) Summary(s batch.Summary, bill Bill, errorLog, outputPath string) {
	fmt.Fprintln(p.out)
	p.line(p.titleStyle, "BillHeader", nil)
	p.line(p.plainStyle, "InputTokens", map[string]any{
		"Tokens": p.number(s.Usage.InputTokens),
		"Cost":   p.money(bill.Input, bill.Currency),
	})
	p.line(p.plainStyle, "OutputTokens", map[string]any{
		"Tokens": p.number(s.Usage.OutputTokens),
		"Cost":   p.money(bill.Output, bill.Currency),
	})
	p.line(p.okStyle, "TotalCost", map[string]any{
		"Cost": p.money(bill.Total, bill.Currency),
	})

	p.line(p.mutedStyle, "Breakdown", map[string]any{
		"Translated":  p.number(int64(s.Translated)),
		"PassThrough": p.number(int64(s.PassThrough)),
		"Skipped":     p.number(int64(s.Skipped)),
	})
	if s.Failed > 0 {
		p.line(p.warnStyle, "FailedCells", map[string]any{
			"Count":  p.number(int64(s.Failed)),
			"Marker": batch.FailureMarker,
			"Log":    errorLog,
		})
	} else {
		p.line(p.mutedStyle, "NoFailures", nil)
	}

	p.line(p.okStyle, "Saved", map[string]any{"Path": outputPath})
}

func (p *Printer) line(style lipgloss.Style, id string, data map[string]any) {
	fmt.Fprintln(p.out, style.Render(p.text(id, data)))
}

// text localizes a message, falling back to its ID
func (p *Printer) text(id string, data map[string]any) string {
	msg, err := p.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("report: localize %s failed: %v", id, err)
		return id
	}
	return msg
}

func (p *Printer) number(n int64) string {
	return p.numbers.Sprintf("%d", n)
}

func (p *Printer) money(v float64, currency string) string {
	return currency + p.numbers.Sprintf("%.2f", v)
}
