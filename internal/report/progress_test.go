package report

import (
	"bytes"
	"strings"
	"testing"

	"codeberg.org/snonux/sheetxlate/internal/batch"
)

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	bar.Start(3)
	bar.Advance(batch.Result{Status: batch.StatusTranslated})
	bar.Advance(batch.Result{Status: batch.StatusFailed})
	bar.Advance(batch.Result{Status: batch.StatusSkipped})
	bar.Finish()

	done, failed, total := bar.Counts()
	if done != 3 || failed != 1 || total != 3 {
		t.Errorf("Counts() = (%d, %d, %d), want (3, 1, 3)", done, failed, total)
	}

	out := buf.String()
	for _, want := range []string{"0/3", "1/3", "2/3 (1 failed)", "3/3 (1 failed)"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish() should end the progress line")
	}
}

func TestProgressBar_Silent(t *testing.T) {
	bar := NewProgressBar(nil)

	bar.Start(2)
	bar.Advance(batch.Result{Status: batch.StatusTranslated})
	bar.Finish()

	if done, _, total := bar.Counts(); done != 1 || total != 2 {
		t.Errorf("Counts() = (%d, _, %d), want (1, _, 2)", done, total)
	}
}
