// Package archive implements the download archive: an append-only text file
// of already-downloaded video IDs used as a set-membership check to skip
// duplicates. The on-disk format matches yt-dlp's own archive lines
// ("youtube <id>"), so an existing yt-dlp archive can be used directly.
package archive

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Record format
const (
	RecordExtractor = "youtube"
	CommentPrefix   = "#"
)

// File permissions
const (
	DefaultFilePermissions = 0644
)

// Archive is a file-backed set of downloaded video IDs.
// Absence of the file means an empty set. The file is append-only.
type Archive struct {
	path string
	mu   sync.Mutex
	ids  map[string]struct{}
}

// Open loads the archive at path. A missing file is not an error.
func Open(path string) (*Archive, error) {
	a := &Archive{
		path: path,
		ids:  make(map[string]struct{}),
	}
	if err := a.load(); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload merges IDs appended to the file by other writers (the downloader
// records into the same file) into the in-memory set.
func (a *Archive) Reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load()
}

// load reads the file into the in-memory set. Caller holds mu except
// during Open.
func (a *Archive) load() error {
	f, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		// Accept both "youtube <id>" and bare "<id>" lines
		if fields := strings.Fields(line); len(fields) == 2 && fields[0] == RecordExtractor {
			a.ids[fields[1]] = struct{}{}
		} else {
			a.ids[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	return nil
}

// Path returns the archive file path.
func (a *Archive) Path() string {
	return a.path
}

// Len returns the number of recorded IDs.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ids)
}

// Contains reports whether the given video ID is already recorded.
func (a *Archive) Contains(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.ids[id]
	return ok
}

// Add appends the video ID to the archive file and the in-memory set.
// Adding an already-recorded ID is a no-op.
func (a *Archive) Add(id string) error {
	if id == "" {
		return fmt.Errorf("empty video ID")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.ids[id]; ok {
		return nil
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open archive for append: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s %s\n", RecordExtractor, id); err != nil {
		return fmt.Errorf("failed to append to archive: %w", err)
	}

	a.ids[id] = struct{}{}
	return nil
}
