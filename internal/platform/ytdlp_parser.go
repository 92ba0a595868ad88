package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/kadraa-png/yt-fetch/internal/model"
)

// Timeout constants
const (
	DefaultResolveTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	VideoParam     = "v"
	ParamSeparator = "&"
	ShortHostName  = "youtu.be"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// YTDLPParserService resolves playlist URLs and parses downloader JSON output.
type YTDLPParserService struct {
	timeout time.Duration
}

// NewYTDLPParserService creates a new parser service
func NewYTDLPParserService() *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultResolveTimeout,
	}
}

// IsPlaylistURL reports whether the URL carries a playlist parameter.
func (y *YTDLPParserService) IsPlaylistURL(u string) bool {
	return strings.Contains(u, PlaylistParam)
}

// ExpandPlaylist lists the videos of a playlist URL without downloading.
func (y *YTDLPParserService) ExpandPlaylist(ctx context.Context, u string) ([]model.ResolvedEntry, error) {
	playlistID := y.ExtractPlaylistID(u)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", u)
	}

	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := make([]model.ResolvedEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, model.ResolvedEntry{
			VideoID: it.VideoID,
			Title:   it.Title,
			URL:     fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return entries, nil
}

// ExtractPlaylistID extracts the playlist ID from various URL formats
func (y *YTDLPParserService) ExtractPlaylistID(u string) string {
	if strings.Contains(u, PlaylistParam) {
		parts := strings.Split(u, PlaylistParam)
		if len(parts) > 1 {
			playlistPart := parts[1]
			if strings.Contains(playlistPart, ParamSeparator) {
				playlistPart = strings.Split(playlistPart, ParamSeparator)[0]
			}
			return playlistPart
		}
	}
	return ""
}

// ExtractVideoID pulls the video ID out of a watch or short-link URL.
// Returns an empty string for search expressions and other URLs.
func ExtractVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if v := u.Query().Get(VideoParam); v != "" {
		return v
	}
	if strings.EqualFold(u.Host, ShortHostName) || strings.EqualFold(u.Host, "www."+ShortHostName) {
		return strings.Trim(u.Path, "/")
	}
	return ""
}

// ParseJSONLines parses downloader JSON-lines output into resolved entries.
// Malformed lines and entries without an ID are skipped.
func (y *YTDLPParserService) ParseJSONLines(output string) []model.ResolvedEntry {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	var entries []model.ResolvedEntry
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var videoData map[string]interface{}
		if err := json.Unmarshal([]byte(line), &videoData); err != nil {
			continue
		}
		id, ok := videoData["id"].(string)
		if !ok || id == "" {
			continue
		}
		entry := model.ResolvedEntry{VideoID: id}
		if title, ok := videoData["title"].(string); ok {
			entry.Title = title
		}
		if uploader, ok := videoData["uploader"].(string); ok && uploader != "" {
			entry.Uploader = uploader
		} else if channel, ok := videoData["channel"].(string); ok {
			entry.Uploader = channel
		}
		if duration, ok := videoData["duration"].(float64); ok {
			entry.DurationSec = int(duration)
		}
		if webpageURL, ok := videoData["webpage_url"].(string); ok && webpageURL != "" {
			entry.URL = webpageURL
		} else {
			entry.URL = fmt.Sprintf(YouTubeVideoURLTemplate, id)
		}
		entries = append(entries, entry)
	}
	return entries
}

// FormatDuration formats seconds into HH:MM:SS format
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
