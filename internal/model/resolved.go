package model

// ResolvedEntry is one row of a dry run: an input expanded to a concrete
// video without downloading anything.
type ResolvedEntry struct {
	VideoID     string
	Title       string
	Uploader    string
	DurationSec int // 0 when unknown
	URL         string
	Archived    bool   // already present in the download archive
	ResolveErr  string // non-empty when the input could not be resolved
}
