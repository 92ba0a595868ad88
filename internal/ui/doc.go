package ui

// Package ui renders run progress on the terminal: a bulk progress bar,
// per-item status lines, the dry-run table, and failure hints.
