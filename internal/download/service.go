package download

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	"github.com/kadraa-png/yt-fetch/internal/archive"
	"github.com/kadraa-png/yt-fetch/internal/config"
	"github.com/kadraa-png/yt-fetch/internal/model"
	"github.com/kadraa-png/yt-fetch/internal/platform"
)

// Retry behavior for a single item
const (
	MaxRetries   = 1
	RetryBackoff = 2 * time.Second
)

// Progress reporting frequency
const (
	ProgressInterval = 500 * time.Millisecond
)

// ID prefix for work items
const (
	ItemIDPrefix = "item-"
)

// runFunc executes a configured downloader command against one target.
// Swappable in tests.
type runFunc func(ctx context.Context, dl *ytdlp.Command, target string) (*ytdlp.Result, error)

// Service handles fetch operations
type Service struct {
	opts       *config.Options
	arc        *archive.Archive // nil when the archive is disabled
	parser     *platform.YTDLPParserService
	items      []*model.WorkItem
	itemsMutex sync.RWMutex
	onUpdate   func(*model.WorkItem) // callback for console updates
	run        runFunc
	hints      Hints
}

var _ Fetcher = (*Service)(nil)

// NewService creates a new fetch service. arc may be nil when the archive
// is disabled.
func NewService(opts *config.Options, arc *archive.Archive) *Service {
	return &Service{
		opts:   opts,
		arc:    arc,
		parser: platform.NewYTDLPParserService(),
		run: func(ctx context.Context, dl *ytdlp.Command, target string) (*ytdlp.Result, error) {
			return dl.Run(ctx, target)
		},
	}
}

// SetUpdateCallback sets the callback function for item updates
func (s *Service) SetUpdateCallback(callback func(*model.WorkItem)) {
	s.onUpdate = callback
}

// Items returns all work items of the current run in order.
func (s *Service) Items() []*model.WorkItem {
	s.itemsMutex.RLock()
	defer s.itemsMutex.RUnlock()

	items := make([]*model.WorkItem, len(s.items))
	copy(items, s.items)
	return items
}

// Hints returns the failure hints collected during the run.
func (s *Service) Hints() Hints {
	return s.hints
}

// Run processes the prepared inputs one at a time, in order.
func (s *Service) Run(ctx context.Context, inputs []string) (*Summary, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs to process")
	}

	s.itemsMutex.Lock()
	s.items = make([]*model.WorkItem, 0, len(inputs))
	for _, input := range inputs {
		s.items = append(s.items, &model.WorkItem{
			ID:     generateItemID(),
			Input:  input,
			Target: input,
			Status: model.TaskStatusPending,
			ETASec: -1,
		})
	}
	items := s.items
	s.itemsMutex.Unlock()

	summary := &Summary{}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			s.markRemaining(items[i:], model.TaskStatusStopped)
			return summary, err
		}

		s.processItem(ctx, item)

		switch item.Status {
		case model.TaskStatusCompleted:
			summary.Completed++
		case model.TaskStatusSkipped:
			summary.Skipped++
		case model.TaskStatusStopped:
			s.markRemaining(items[i+1:], model.TaskStatusStopped)
			return summary, ctx.Err()
		default:
			summary.Failed++
		}

		if i < len(items)-1 {
			if err := s.sleepBetweenItems(ctx); err != nil {
				s.markRemaining(items[i+1:], model.TaskStatusStopped)
				return summary, err
			}
		}
	}

	return summary, nil
}

// processItem runs the archive check and the download for a single item.
func (s *Service) processItem(ctx context.Context, item *model.WorkItem) {
	s.setStatus(item, model.TaskStatusStarting)
	item.StartedAt = time.Now()

	if videoID := platform.ExtractVideoID(item.Target); videoID != "" {
		item.VideoID = videoID
		if s.opts.ArchiveEnabled() && s.arc != nil && s.arc.Contains(videoID) {
			item.FinishedAt = time.Now()
			s.setStatus(item, model.TaskStatusSkipped)
			return
		}
	}

	s.setStatus(item, model.TaskStatusDownloading)

	dl := buildCommand(s.opts)
	dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		s.updateItemProgress(item, &update)
	})

	result, err := s.downloadWithRetry(ctx, dl, item)

	s.itemsMutex.Lock()
	if err != nil {
		if ctx.Err() != nil {
			item.Status = model.TaskStatusStopped
		} else {
			item.Status = model.TaskStatusError
			item.LastError = err.Error()
		}
	} else {
		item.Status = model.TaskStatusCompleted
		item.Progress = 1.0
		item.Percent = 100
		s.applyExtractedInfo(item, result)
	}
	item.FinishedAt = time.Now()
	s.itemsMutex.Unlock()

	if result != nil {
		s.hints.Scan(result.Stdout)
		s.hints.Scan(result.Stderr)
	}
	if err != nil {
		s.hints.Scan(err.Error())
	}

	if item.Status == model.TaskStatusCompleted && s.opts.ArchiveEnabled() && s.arc != nil && item.VideoID != "" {
		// The downloader usually records the ID itself (the archive file is
		// forwarded on the command); reload before appending so the ID is
		// never written twice.
		if err := s.arc.Reload(); err != nil {
			log.Printf("Failed to reload archive %s: %v", s.arc.Path(), err)
		}
		if err := s.arc.Add(item.VideoID); err != nil {
			log.Printf("Failed to record %s in %s: %v", item.VideoID, s.arc.Path(), err)
		}
	}

	s.notifyUpdate(item)
}

// downloadWithRetry attempts download with retry logic
func (s *Service) downloadWithRetry(ctx context.Context, dl *ytdlp.Command, item *model.WorkItem) (*ytdlp.Result, error) {
	var lastErr error
	var result *ytdlp.Result

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(RetryBackoff):
			case <-ctx.Done():
				return result, ctx.Err()
			}

			log.Printf("Retrying download for item %s, attempt %d", item.ID, attempt+1)
		}

		res, err := s.run(ctx, dl, item.Target)
		if err == nil {
			return res, nil
		}

		lastErr = err
		result = res // keep last result even if there was an error
		log.Printf("Download attempt %d failed for item %s: %v", attempt+1, item.ID, err)

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	return result, lastErr
}

// updateItemProgress updates item progress from downloader info
func (s *Service) updateItemProgress(item *model.WorkItem, update *ytdlp.ProgressUpdate) {
	s.itemsMutex.Lock()

	if update.TotalBytes > 0 {
		percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		item.Percent = int(percent)
		item.Progress = percent / 100.0
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			item.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	eta := update.ETA()
	if eta > 0 {
		item.ETASec = int(eta.Seconds())
	}

	if update.Info != nil {
		if update.Info.Title != nil && *update.Info.Title != "" && item.Title == "" {
			item.Title = *update.Info.Title
		}
		if update.Info.ID != "" && item.VideoID == "" {
			item.VideoID = update.Info.ID
		}
	}

	s.itemsMutex.Unlock()

	s.notifyUpdate(item)
}

// applyExtractedInfo fills item fields from the downloader result.
// Caller holds itemsMutex.
func (s *Service) applyExtractedInfo(item *model.WorkItem, result *ytdlp.Result) {
	if result == nil {
		return
	}
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return
	}

	first := info[0]
	if first.Filename != nil {
		item.OutputPath = *first.Filename
	}
	if first.Title != nil && item.Title == "" {
		item.Title = *first.Title
	}
	if first.ID != "" && item.VideoID == "" {
		item.VideoID = first.ID
	}
}

// sleepBetweenItems pauses between downloads, randomized up to SleepMax when
// set, honoring cancellation.
func (s *Service) sleepBetweenItems(ctx context.Context) error {
	seconds := s.opts.Sleep
	if seconds <= 0 {
		return nil
	}
	if s.opts.SleepMax > seconds {
		seconds += rand.Float64() * (s.opts.SleepMax - seconds)
	}

	select {
	case <-time.After(time.Duration(seconds * float64(time.Second))):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// markRemaining sets a terminal status on unprocessed items.
func (s *Service) markRemaining(items []*model.WorkItem, status model.TaskStatus) {
	s.itemsMutex.Lock()
	for _, item := range items {
		if !item.Status.IsFinished() {
			item.Status = status
		}
	}
	s.itemsMutex.Unlock()
}

// setStatus updates an item status under lock and notifies.
func (s *Service) setStatus(item *model.WorkItem, status model.TaskStatus) {
	s.itemsMutex.Lock()
	item.Status = status
	s.itemsMutex.Unlock()
	s.notifyUpdate(item)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(item *model.WorkItem) {
	if s.onUpdate != nil {
		s.onUpdate(item)
	}
}

// generateItemID generates a unique item ID using UUID v7 for better
// uniqueness and time ordering
func generateItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(ItemIDPrefix+"%d", time.Now().UnixNano())
	}
	return ItemIDPrefix + id.String()
}
