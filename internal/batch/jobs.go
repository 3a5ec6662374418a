// Package batch fans translation jobs out over a bounded worker pool and
// writes the results back into the table.
package batch

import (
	"sync/atomic"
)

// FailureMarker is written to a cell whose job exhausted its retries
const FailureMarker = "ERROR"

// Job is one (row, language) cell to fill
type Job struct {
	Row    int
	Label  string
	Source string
}

// Status describes how a job ended
type Status int

const (
	// StatusTranslated means the endpoint returned an accepted translation
	StatusTranslated Status = iota
	// StatusPassThrough means the source was copied verbatim
	StatusPassThrough
	// StatusSkipped means the source was blank and nothing was sent
	StatusSkipped
	// StatusFailed means every attempt failed
	StatusFailed
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusTranslated:
		return "translated"
	case StatusPassThrough:
		return "pass-through"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of exactly one job
type Result struct {
	Row          int
	Label        string
	Text         string
	InputTokens  int
	OutputTokens int
	Attempts     int
	Status       Status
	Err          error
}

// Failed reports whether the job ended in a terminal failure
func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

// Enumerate builds one job per (row, language), row-major with languages in
// the given order
func Enumerate(sources []string, labels []string) []Job {
	jobs := make([]Job, 0, len(sources)*len(labels))
	for row, source := range sources {
		for _, label := range labels {
			jobs = append(jobs, Job{Row: row, Label: label, Source: source})
		}
	}
	return jobs
}

// Usage accumulates token counts across workers
type Usage struct {
	input  atomic.Int64
	output atomic.Int64
}

// Add records the tokens of one call
func (u *Usage) Add(in, out int) {
	u.input.Add(int64(in))
	u.output.Add(int64(out))
}

// Totals returns the current token counts
func (u *Usage) Totals() Totals {
	return Totals{
		InputTokens:  u.input.Load(),
		OutputTokens: u.output.Load(),
	}
}

// Totals is a snapshot of token usage
type Totals struct {
	InputTokens  int64
	OutputTokens int64
}

// Summary reports the outcome of a run
type Summary struct {
	Total       int
	Translated  int
	PassThrough int
	Skipped     int
	Failed      int
	Usage       Totals
}

func (s *Summary) count(r Result) {
	switch r.Status {
	case StatusTranslated:
		s.Translated++
	case StatusPassThrough:
		s.PassThrough++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}
