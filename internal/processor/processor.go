package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/sheetxlate/internal/archive"
	"codeberg.org/snonux/sheetxlate/internal/batch"
	"codeberg.org/snonux/sheetxlate/internal/config"
	"codeberg.org/snonux/sheetxlate/internal/langs"
	"codeberg.org/snonux/sheetxlate/internal/models"
	"codeberg.org/snonux/sheetxlate/internal/report"
	"codeberg.org/snonux/sheetxlate/internal/sheet"
	"codeberg.org/snonux/sheetxlate/internal/translation"
)

// Outcome describes a finished run
type Outcome struct {
	OutputPath string
	Summary    batch.Summary
	Bill       report.Bill
}

// Processor runs translation jobs for one configuration
type Processor struct {
	cfg       config.Config
	out       io.Writer
	completer translation.Completer
	now       func() time.Time
}

// Option customizes a Processor
type Option func(*Processor)

// WithCompleter replaces the endpoint client built from the configuration
func WithCompleter(c translation.Completer) Option {
	return func(p *Processor) {
		p.completer = c
	}
}

// WithClock sets the time used to name the output file
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// NewProcessor creates a processor writing its console output to out
func NewProcessor(cfg config.Config, out io.Writer, opts ...Option) *Processor {
	p := &Processor{
		cfg: cfg,
		out: out,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run translates every source segment of the input file into every
// configured language and saves the result under a new timestamped name.
// Configuration problems (missing file, missing source column, unknown
// language) fail before any job is dispatched; individual job failures
// only mark their cell.
func (p *Processor) Run(ctx context.Context, inputPath string) (*Outcome, error) {
	registry, err := langs.NewRegistry(p.cfg.Languages)
	if err != nil {
		return nil, fmt.Errorf("invalid language configuration: %w", err)
	}

	table, err := sheet.Load(inputPath, p.cfg.SourceColumn)
	if err != nil {
		return nil, err
	}

	completer, err := p.newCompleter(ctx)
	if err != nil {
		return nil, err
	}
	translator := translation.NewTranslator(completer, registry, p.cfg.Endpoint.Timeout)

	errorLog, closeLog, err := openErrorLog(p.cfg.ErrorLogFile)
	if err != nil {
		return nil, err
	}
	defer closeLog()

	printer := report.NewPrinter(p.out, p.cfg.Locale)
	printer.Banner(filepath.Base(inputPath), registry.Len(), p.cfg.Endpoint.Model)
	printer.Loaded(table.Len(), table.Len()*registry.Len(), p.cfg.Workers)

	dispatcher := &batch.Dispatcher{
		Workers:      p.cfg.Workers,
		SourceColumn: p.cfg.SourceColumn,
		Registry:     registry,
		Translator:   translator,
		Policy:       p.cfg.Retry,
		ErrorLog:     errorLog,
		Progress:     report.NewProgressBar(p.out),
	}

	summary, err := dispatcher.Run(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch jobs: %w", err)
	}

	table.Reorder(p.cfg.SourceColumn, registry.Labels())

	outputPath, err := archive.OutputPath(p.cfg.OutputDir, p.cfg.OutputPrefix, p.now())
	if err != nil {
		return nil, err
	}
	if err := table.Save(outputPath); err != nil {
		return nil, err
	}

	bill := report.Cost(summary.Usage, p.cfg.Pricing)
	printer.Summary(summary, bill, p.cfg.ErrorLogFile, outputPath)

	return &Outcome{
		OutputPath: outputPath,
		Summary:    summary,
		Bill:       bill,
	}, nil
}

// ListModels prints the models offered by the configured endpoint
func (p *Processor) ListModels(ctx context.Context) error {
	return models.NewLister(p.cfg.Endpoint).ListAvailableModels(ctx, p.out)
}

func (p *Processor) newCompleter(ctx context.Context) (translation.Completer, error) {
	completer := p.completer
	if completer == nil {
		var err error
		completer, err = translation.NewCompleter(ctx, p.cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create endpoint client: %w", err)
		}
	}

	return translation.NewBreakerCompleter(completer, p.cfg.Breaker, func(from, to string) {
		log.Printf("endpoint circuit breaker: %s -> %s", from, to)
	}), nil
}

// openErrorLog truncates the error log; an empty path discards failures
func openErrorLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open error log: %w", err)
	}

	return log.New(f, "", log.LstdFlags), func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close error log: %v", err)
		}
	}, nil
}
