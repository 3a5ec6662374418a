package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"

	"codeberg.org/snonux/sheetxlate/internal/batch"
)

// ProgressBar draws a single, continuously redrawn console line with a bar
// and a done/total counter. A nil writer makes it silent.
type ProgressBar struct {
	out io.Writer
	bar progress.Model

	mu     sync.Mutex
	total  int
	done   int
	failed int
}

// NewProgressBar creates a bar writing to out
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Start resets the counter for a run of total jobs
func (p *ProgressBar) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = 0
	p.failed = 0
	p.draw()
}

// Advance counts one finished job
func (p *ProgressBar) Advance(r batch.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if r.Failed() {
		p.failed++
	}
	p.draw()
}

// Finish ends the progress line
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.out != nil {
		fmt.Fprintln(p.out)
	}
}

// Counts returns the jobs done, failed and expected so far
func (p *ProgressBar) Counts() (done, failed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.failed, p.total
}

func (p *ProgressBar) draw() {
	if p.out == nil {
		return
	}

	pct := 1.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total)
	}

	line := fmt.Sprintf("%s %d/%d", p.bar.ViewAs(pct), p.done, p.total)
	if p.failed > 0 {
		line += fmt.Sprintf(" (%d failed)", p.failed)
	}
	fmt.Fprintf(p.out, "\r\033[2K%s", line)
}
