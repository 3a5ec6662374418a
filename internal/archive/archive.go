// Package archive picks the file name a finished run is saved under.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/sheetxlate/internal"
)

const (
	// DefaultPrefix starts every output file name
	DefaultPrefix = "Translated"

	stampLayout        = "0102_1504"
	stampLayoutSeconds = "0102_150405"
	stampLayoutMicros  = "0102_150405.000000"
)

// OutputPath returns <dir>/<prefix>_<MMDD_HHMM>.xlsx, with the prefix reduced
// to filename-safe characters. If that file already
// exists, seconds and then microseconds are added so a previous run is never
// overwritten. The directory is created when missing.
func OutputPath(dir, prefix string, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	prefix = internal.SanitizeFilename(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var path string
	for _, layout := range []string{stampLayout, stampLayoutSeconds, stampLayoutMicros} {
		path = filepath.Join(dir, fmt.Sprintf("%s_%s.xlsx", prefix, now.Format(layout)))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}

	return "", fmt.Errorf("output file already exists: %s", path)
}
