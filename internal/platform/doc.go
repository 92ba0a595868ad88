package platform

// Package platform contains filesystem and external tooling glue: input
// classification and bulk-file parsing, yt-dlp JSON output parsing, and
// directory helpers.
