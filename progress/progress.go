// Package progress reports progress through long sequential scans. On a
// terminal it draws a progress bar; otherwise it prints a line every N items
// so redirected output stays readable.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// DefaultEvery is the line interval used when none is configured
const DefaultEvery = 500

// Reporter counts processed items for one scan
type Reporter struct {
	verb   string
	total  int
	every  int
	count  int
	out    io.Writer
	bar    *progressbar.ProgressBar
	detail func() string
}

// Options configures a Reporter
type Options struct {
	// Verb describes the work, e.g. "indexed" or "scanned"
	Verb string
	// Total is the number of items expected, 0 if unknown
	Total int
	// Every is the line interval in non-interactive mode
	Every int
	// Out defaults to os.Stdout
	Out io.Writer
	// Interactive forces bar mode on or off; nil detects a terminal
	Interactive *bool
	// Detail appends extra text to each progress line
	Detail func() string
}

// New creates a Reporter
func New(opts Options) *Reporter {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	every := opts.Every
	if every <= 0 {
		every = DefaultEvery
	}

	r := &Reporter{
		verb:   opts.Verb,
		total:  opts.Total,
		every:  every,
		out:    out,
		detail: opts.Detail,
	}

	interactive := isTerminal(out)
	if opts.Interactive != nil {
		interactive = *opts.Interactive
	}
	if interactive && opts.Total > 0 {
		r.bar = progressbar.NewOptions(opts.Total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(opts.Verb),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Increment records one processed item
func (r *Reporter) Increment() {
	r.count++

	if r.bar != nil {
		_ = r.bar.Add(1)
		return
	}

	if r.count%r.every == 0 {
		line := fmt.Sprintf("  ...%s %d images.", r.verb, r.count)
		if r.detail != nil {
			if extra := r.detail(); extra != "" {
				line += " " + extra
			}
		}
		fmt.Fprintln(r.out, line)
	}
}

// Count returns the number of items recorded
func (r *Reporter) Count() int {
	return r.count
}

// Finish completes the bar, if any
func (r *Reporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
