package model

import (
	"fmt"
	"strings"
	"time"
)

// WorkItem represents one unit of work in a run: a direct URL or a search
// expression resolved against the downloader.
type WorkItem struct {
	ID         string
	Input      string // raw input as given (URL or query line)
	Target     string // what is handed to the downloader (URL or ytsearchN: expression)
	Status     TaskStatus
	Progress   float64   // 0.0 to 1.0
	Percent    int       // 0 to 100
	Speed      string    // human readable speed (e.g., "1.2MB/s")
	ETASec     int       // ETA in seconds, -1 if unknown
	LastError  string    // last error message if any
	OutputPath string    // path to downloaded file
	VideoID    string    // resolved video ID, when known
	Title      string    // video title
	StartedAt  time.Time // when processing started
	FinishedAt time.Time // when processing finished
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (wi *WorkItem) GetETAString() string {
	if wi.ETASec <= 0 {
		return "—"
	}

	hours := wi.ETASec / 3600
	minutes := (wi.ETASec % 3600) / 60
	seconds := wi.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, filename, or the raw input in order of preference
func (wi *WorkItem) GetDisplayTitle() string {
	// First priority: video title (non-URL)
	if wi.Title != "" && !strings.HasPrefix(wi.Title, "http") {
		return wi.Title
	}

	// Second priority: filename from OutputPath
	if wi.OutputPath != "" {
		parts := strings.FieldsFunc(wi.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return wi.Input
}
