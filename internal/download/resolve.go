package download

import (
	"context"

	"github.com/kadraa-png/yt-fetch/internal/model"
)

// Resolve expands each input into concrete videos without downloading.
// Playlist URLs are listed through the playlist API; everything else goes
// through the downloader in flat, skip-download mode. Inputs that fail to
// resolve become error-marked entries instead of aborting the run.
func (s *Service) Resolve(ctx context.Context, inputs []string) []model.ResolvedEntry {
	var entries []model.ResolvedEntry

	for _, input := range inputs {
		resolved, err := s.resolveOne(ctx, input)
		if err != nil {
			entries = append(entries, model.ResolvedEntry{
				Title:      input,
				ResolveErr: err.Error(),
			})
			continue
		}
		entries = append(entries, resolved...)
	}

	if s.arc != nil {
		for i := range entries {
			if entries[i].VideoID != "" {
				entries[i].Archived = s.arc.Contains(entries[i].VideoID)
			}
		}
	}

	return entries
}

func (s *Service) resolveOne(ctx context.Context, input string) ([]model.ResolvedEntry, error) {
	if s.parser.IsPlaylistURL(input) {
		return s.parser.ExpandPlaylist(ctx, input)
	}

	result, err := s.run(ctx, buildResolveCommand(s.opts), input)
	if err != nil {
		return nil, err
	}

	return s.parser.ParseJSONLines(result.Stdout), nil
}
