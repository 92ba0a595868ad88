package download

import (
	"regexp"
)

var (
	http403Re = regexp.MustCompile(`(?i)\bHTTP(?:\s+Error)?\s*403\b`)
	ffmpegRe  = regexp.MustCompile(`(?i)ffmpeg|post-?process`)
)

// Hints collects failure patterns seen in downloader output so the CLI can
// print remediation tips after a failed run.
type Hints struct {
	Seen403     bool
	FFmpegIssue bool
}

// Scan inspects one chunk of downloader output.
func (h *Hints) Scan(output string) {
	if output == "" {
		return
	}
	if !h.Seen403 && http403Re.MatchString(output) {
		h.Seen403 = true
	}
	if !h.FFmpegIssue && ffmpegRe.MatchString(output) {
		h.FFmpegIssue = true
	}
}
