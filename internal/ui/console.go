package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/kadraa-png/yt-fetch/internal/download"
	"github.com/kadraa-png/yt-fetch/internal/model"
)

// Bar rendering
const (
	BarDescription = "yt-fetch"
	MinBarItems    = 2
)

// Renderer writes run progress to the terminal.
type Renderer struct {
	out     io.Writer
	verbose bool
	isTTY   bool

	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	finished map[string]struct{}
}

// NewRenderer creates a renderer writing to stderr.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{
		out:      os.Stderr,
		verbose:  verbose,
		isTTY:    isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		finished: make(map[string]struct{}),
	}
}

// Start prepares the renderer for a run of total items. The bar only shows
// for bulk runs on a terminal; verbose mode passes downloader output through
// instead.
func (r *Renderer) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total < MinBarItems || !r.isTTY || r.verbose {
		return
	}

	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(BarDescription),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

// ItemUpdated handles an item state change. Wired as the download service
// update callback.
func (r *Renderer) ItemUpdated(item *model.WorkItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !item.Status.IsFinished() {
		return
	}
	if _, seen := r.finished[item.ID]; seen {
		return
	}
	r.finished[item.ID] = struct{}{}

	if r.bar != nil {
		_ = r.bar.Add(1)
		return
	}

	switch item.Status {
	case model.TaskStatusCompleted:
		fmt.Fprintf(r.out, "done: %s\n", item.GetDisplayTitle())
	case model.TaskStatusSkipped:
		fmt.Fprintf(r.out, "skip (archived): %s\n", item.GetDisplayTitle())
	case model.TaskStatusError:
		color.New(color.FgRed).Fprintf(r.out, "failed: %s: %s\n", item.GetDisplayTitle(), item.LastError)
	}
}

// TranscodeUpdated handles transcode task state changes.
func (r *Renderer) TranscodeUpdated(task *model.TranscodeTask) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !task.Status.IsFinished() {
		return
	}
	if _, seen := r.finished[task.ID]; seen {
		return
	}
	r.finished[task.ID] = struct{}{}

	switch task.Status {
	case model.TaskStatusCompleted:
		fmt.Fprintf(r.out, "compressed: %s\n", task.OutputPath)
	case model.TaskStatusError:
		color.New(color.FgRed).Fprintf(r.out, "compress failed: %s: %s\n", task.InputPath, task.LastError)
	}
}

// Finish closes out the bar and prints the run summary.
func (r *Renderer) Finish(summary *download.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
	if summary == nil {
		return
	}
	fmt.Fprintf(r.out, "completed %d, skipped %d, failed %d\n",
		summary.Completed, summary.Skipped, summary.Failed)
}

// PrintHints prints remediation tips for failure patterns seen during a
// failed run.
func (r *Renderer) PrintHints(hints download.Hints) {
	r.mu.Lock()
	defer r.mu.Unlock()

	warn := color.New(color.FgYellow)
	if hints.Seen403 {
		warn.Fprintln(r.out, "\nDetected HTTP 403 Forbidden on failed items.")
		fmt.Fprintln(r.out, "Tips:")
		fmt.Fprintln(r.out, "  - Disable external downloader: --no-aria2c")
		fmt.Fprintln(r.out, "  - Force IPv4: --force-ipv4")
		fmt.Fprintln(r.out, "  - Use cookies (age/region): --cookies-from-browser firefox (or your browser)")
	}
	if hints.FFmpegIssue {
		warn.Fprintln(r.out, "\nffmpeg hinted a problem. If outputs look corrupted or missing,")
		warn.Fprintln(r.out, "re-run with --redownload (and optionally -k to keep intermediates).")
	}
}
