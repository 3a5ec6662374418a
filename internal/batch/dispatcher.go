package batch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"codeberg.org/snonux/sheetxlate/internal/langs"
	"codeberg.org/snonux/sheetxlate/internal/retry"
	"codeberg.org/snonux/sheetxlate/internal/sheet"
	"codeberg.org/snonux/sheetxlate/internal/translation"
)

// DefaultWorkers is the pool width; providers with stricter rate limits may need ~15
const DefaultWorkers = 45

// Translator translates one segment into a labelled language
type Translator interface {
	Translate(ctx context.Context, text, label string) (translation.Result, error)
}

// Progress receives one call per completed job
type Progress interface {
	Start(total int)
	Advance(r Result)
	Finish()
}

// Dispatcher runs every (row, language) job of a table
type Dispatcher struct {
	Workers      int
	SourceColumn string
	Registry     *langs.Registry
	Translator   Translator
	Policy       retry.Policy

	// ErrorLog gets one line per terminal job failure; nil discards them
	ErrorLog *log.Logger
	// Progress is optional
	Progress Progress
}

// Run fills the language columns of table. Individual job failures never
// abort the run; they leave FailureMarker in the cell.
func (d *Dispatcher) Run(ctx context.Context, table *sheet.Table) (Summary, error) {
	sourceColumn := d.SourceColumn
	if sourceColumn == "" {
		sourceColumn = sheet.DefaultSourceColumn
	}

	sources, err := table.Column(sourceColumn)
	if err != nil {
		return Summary{}, err
	}

	labels := d.Registry.Labels()
	table.EnsureColumns(labels)

	jobs := Enumerate(sources, labels)
	summary := Summary{Total: len(jobs)}

	if d.Progress != nil {
		d.Progress.Start(len(jobs))
		defer d.Progress.Finish()
	}

	workers := d.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(jobs) {
		workers = max(len(jobs), 1)
	}

	var usage Usage
	results := make(chan Result, workers)

	go func() {
		p := pool.New().WithMaxGoroutines(workers)
		for _, job := range jobs {
			p.Go(func() {
				r := d.process(ctx, job)
				usage.Add(r.InputTokens, r.OutputTokens)
				results <- r
			})
		}
		p.Wait()
		close(results)
	}()

	// Results arrive in completion order; each one owns a distinct cell
	var storeErr error
	for r := range results {
		if err := table.Set(r.Row, r.Label, r.Text); err != nil && storeErr == nil {
			storeErr = fmt.Errorf("failed to store row %d [%s]: %w", r.Row, r.Label, err)
		}
		summary.count(r)
		if d.Progress != nil {
			d.Progress.Advance(r)
		}
	}

	summary.Usage = usage.Totals()
	return summary, storeErr
}

// process turns one job into exactly one result
func (d *Dispatcher) process(ctx context.Context, job Job) Result {
	r := Result{Row: job.Row, Label: job.Label}

	if strings.TrimSpace(job.Source) == "" {
		r.Status = StatusSkipped
		return r
	}

	entry, err := d.Registry.Lookup(job.Label)
	if err != nil {
		return d.fail(job, r, err)
	}
	if entry.PassThrough {
		r.Text = job.Source
		r.Status = StatusPassThrough
		return r
	}

	res, attempts, err := retry.Do(ctx, d.Policy,
		func(ctx context.Context) (translation.Result, error) {
			return d.Translator.Translate(ctx, job.Source, job.Label)
		},
		func(res translation.Result) (bool, string) {
			return res.Verdict.Accepted, res.Verdict.Reason
		},
	)
	r.Attempts = attempts
	if err != nil {
		return d.fail(job, r, err)
	}

	r.Text = res.Text
	r.InputTokens = res.InputTokens
	r.OutputTokens = res.OutputTokens
	r.Status = StatusTranslated
	return r
}

func (d *Dispatcher) fail(job Job, r Result, err error) Result {
	r.Text = FailureMarker
	r.Status = StatusFailed
	r.Err = err
	r.InputTokens, r.OutputTokens = 0, 0

	if d.ErrorLog != nil {
		d.ErrorLog.Printf("Error at Row %d [%s]: %s", job.Row, job.Label, oneLine(err.Error()))
	}
	return r
}

// oneLine keeps a log entry on a single line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
