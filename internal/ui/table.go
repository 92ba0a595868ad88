package ui

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/kadraa-png/yt-fetch/internal/model"
	"github.com/kadraa-png/yt-fetch/internal/platform"
)

// Table layout
const (
	TableMinWidth = 0
	TableTabWidth = 2
	TablePadding  = 2
)

// Markers
const (
	ArchivedMarker = "yes"
	EmptyCell      = "-"
)

// RenderDryRun prints the dry-run table of resolved entries to stdout.
func RenderDryRun(entries []model.ResolvedEntry) {
	renderDryRun(os.Stdout, entries)
}

func renderDryRun(out io.Writer, entries []model.ResolvedEntry) {
	color.New(color.Bold).Fprintf(out, "yt-fetch dry-run (no downloads): %d item(s)\n", len(entries))

	w := tabwriter.NewWriter(out, TableMinWidth, TableTabWidth, TablePadding, ' ', 0)
	fmt.Fprintln(w, "TITLE\tID\tUPLOADER\tDURATION\tARCHIVED\tURL")

	for _, e := range entries {
		if e.ResolveErr != "" {
			fmt.Fprintf(w, "[error resolving] %s\t%s\t%s\t%s\t%s\t%s\n",
				e.Title, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell)
			continue
		}

		duration := EmptyCell
		if e.DurationSec > 0 {
			duration = platform.FormatDuration(e.DurationSec)
		}
		archived := EmptyCell
		if e.Archived {
			archived = ArchivedMarker
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			orDash(e.Title), orDash(e.VideoID), orDash(e.Uploader), duration, archived, orDash(e.URL))
	}

	w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return EmptyCell
	}
	return s
}
