// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Progress observes completed files. It never influences results.
type Progress interface {
	Increment(Result)
	Finish()
}

// ProgressFactory creates a Progress for a run of total files.
type ProgressFactory func(total int) Progress

// TerminalProgress draws a progress bar on f when f is a terminal and
// shows nothing otherwise.
func TerminalProgress(f *os.File) ProgressFactory {
	return func(total int) Progress {
		if f == nil || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return nopProgress{}
		}
		return newBarProgress(f, total)
	}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func newBarProgress(w io.Writer, total int) *barProgress {
	return &barProgress{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p *barProgress) Increment(Result) { _ = p.bar.Add(1) }
func (p *barProgress) Finish()          { _ = p.bar.Finish() }

type nopProgress struct{}

func (nopProgress) Increment(Result) {}
func (nopProgress) Finish()          {}
