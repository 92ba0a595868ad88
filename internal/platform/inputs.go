package platform

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// URL scheme prefixes
const (
	HTTPPrefix  = "http://"
	HTTPSPrefix = "https://"
)

// Search expression format understood by the downloader
const (
	SearchExprFormat = "ytsearch%d:%s"
)

// Bulk file syntax
const (
	CommentPrefix = "#"
)

// IsURL reports whether the input is a direct URL rather than a search query.
func IsURL(s string) bool {
	return strings.HasPrefix(s, HTTPPrefix) || strings.HasPrefix(s, HTTPSPrefix)
}

// SearchExpr turns a free-text query into a downloader search expression
// returning the top limit results.
func SearchExpr(query string, limit int) string {
	return fmt.Sprintf(SearchExprFormat, limit, query)
}

// PrepareInputs builds the ordered input list for a single-target run.
// The target comes first (converted to a search expression when it is not a
// URL), followed by the extra search query when given.
func PrepareInputs(target, search string, searchLimit int) []string {
	var inputs []string
	if target != "" {
		if IsURL(target) {
			inputs = append(inputs, target)
		} else {
			inputs = append(inputs, SearchExpr(target, searchLimit))
		}
	}
	if search != "" {
		inputs = append(inputs, SearchExpr(search, searchLimit))
	}
	return inputs
}

// ParseBulkFile reads one input per line from path. Blank lines and lines
// starting with # are skipped; non-URL lines become search expressions.
func ParseBulkFile(path string, searchLimit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulk file: %w", err)
	}
	defer f.Close()

	var inputs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		if IsURL(line) {
			inputs = append(inputs, line)
		} else {
			inputs = append(inputs, SearchExpr(line, searchLimit))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bulk file: %w", err)
	}

	return inputs, nil
}
