package download

// Package download implements the fetch pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It translates run options into
// downloader invocations, walks work items sequentially, checks and updates
// the download archive, and propagates progress to the console.
