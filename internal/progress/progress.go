// Package progress renders scan progress on the terminal.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

const updateInterval = 50 * time.Millisecond

// Bar wraps progressbar with enabled/disabled handling.
// All methods are no-ops when disabled.
type Bar struct {
	bar *progressbar.ProgressBar
}

// New creates a spinner-mode progress bar.
// If enabled=false, returns a Bar where all methods are no-ops.
func New(enabled bool) *Bar {
	if !enabled {
		return &Bar{}
	}
	return &Bar{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(updateInterval),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(false),
	)}
}

// Update feeds one engine progress callback into the bar. Messages tagged
// with current/total of -1 carry errors and are printed above the bar.
func (b *Bar) Update(message string, current, total int) {
	if b.bar == nil {
		return
	}
	if current < 0 {
		fmt.Fprintf(os.Stderr, "\r\033[K%s\n", message)
		return
	}
	b.bar.Describe(message)
	_ = b.bar.Add(0)
}

// Finish completes the bar and prints a final summary line.
func (b *Bar) Finish(s fmt.Stringer) {
	if b.bar != nil {
		_ = b.bar.Finish()
		fmt.Fprintln(os.Stderr, "✔ "+s.String())
	}
}
