package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lrstanley/go-ytdlp"

	"github.com/kadraa-png/yt-fetch/internal/archive"
	"github.com/kadraa-png/yt-fetch/internal/config"
	"github.com/kadraa-png/yt-fetch/internal/model"
)

func testOptions() *config.Options {
	opts := config.NewOptions()
	opts.Single = "https://youtube.com/watch?v=test"
	opts.Sleep = 0
	opts.Normalize()
	return opts
}

func testArchive(t *testing.T, ids ...string) *archive.Archive {
	t.Helper()
	arc, err := archive.Open(filepath.Join(t.TempDir(), "downloaded.txt"))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	for _, id := range ids {
		if err := arc.Add(id); err != nil {
			t.Fatalf("failed to seed archive: %v", err)
		}
	}
	return arc
}

// fakeRun records targets and returns canned results.
func fakeRun(calls *[]string, result *ytdlp.Result, err error) runFunc {
	return func(_ context.Context, _ *ytdlp.Command, target string) (*ytdlp.Result, error) {
		*calls = append(*calls, target)
		return result, err
	}
}

func TestNewService(t *testing.T) {
	opts := testOptions()
	service := NewService(opts, nil)

	if service.opts != opts {
		t.Error("Expected options to be retained")
	}

	if len(service.Items()) != 0 {
		t.Errorf("Expected no items before a run, got %d", len(service.Items()))
	}
}

func TestRunNoInputs(t *testing.T) {
	service := NewService(testOptions(), nil)

	if _, err := service.Run(context.Background(), nil); err == nil {
		t.Error("Expected error for empty input list")
	}
}

func TestRunArchivedItemIsSkipped(t *testing.T) {
	arc := testArchive(t, "dQw4w9WgXcQ")
	service := NewService(testOptions(), arc)

	var calls []string
	service.run = fakeRun(&calls, nil, nil)

	summary, err := service.Run(context.Background(), []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(calls) != 0 {
		t.Errorf("Archived item must not invoke the downloader, got %d calls", len(calls))
	}

	if summary.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", summary.Skipped)
	}

	items := service.Items()
	if len(items) != 1 || items[0].Status != model.TaskStatusSkipped {
		t.Errorf("Expected item status Skipped, got %v", items[0].Status)
	}
}

func TestRunRedownloadBypassesArchive(t *testing.T) {
	arc := testArchive(t, "dQw4w9WgXcQ")

	opts := testOptions()
	opts.Redownload = true
	service := NewService(opts, arc)

	var calls []string
	service.run = fakeRun(&calls, nil, nil)

	summary, err := service.Run(context.Background(), []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(calls) != 1 {
		t.Errorf("--redownload must bypass the archive check, got %d calls", len(calls))
	}

	if summary.Completed != 1 {
		t.Errorf("Expected 1 completed, got %d", summary.Completed)
	}
}

func TestRunRecordsSuccessInArchive(t *testing.T) {
	arc := testArchive(t)
	service := NewService(testOptions(), arc)

	var calls []string
	service.run = fakeRun(&calls, nil, nil)

	_, err := service.Run(context.Background(), []string{"https://www.youtube.com/watch?v=abc123xyz00"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !arc.Contains("abc123xyz00") {
		t.Error("Completed item should be recorded in the archive")
	}
}

func TestRunRedownloadDoesNotAppendArchive(t *testing.T) {
	arc := testArchive(t)

	opts := testOptions()
	opts.Redownload = true
	service := NewService(opts, arc)

	var calls []string
	service.run = fakeRun(&calls, nil, nil)

	_, err := service.Run(context.Background(), []string{"https://www.youtube.com/watch?v=abc123xyz00"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if arc.Contains("abc123xyz00") {
		t.Error("--redownload run should not append to the archive")
	}
}

func TestRunFailureIsolation(t *testing.T) {
	service := NewService(testOptions(), nil)

	var calls []string
	service.run = func(_ context.Context, _ *ytdlp.Command, target string) (*ytdlp.Result, error) {
		calls = append(calls, target)
		if strings.Contains(target, "bad") {
			return nil, fmt.Errorf("extraction failed")
		}
		return nil, nil
	}

	inputs := []string{
		"https://www.youtube.com/watch?v=bad0000000a",
		"https://www.youtube.com/watch?v=good000000b",
	}
	summary, err := service.Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.Failed != 1 || summary.Completed != 1 {
		t.Errorf("Expected 1 failed and 1 completed, got %+v", summary)
	}

	items := service.Items()
	if items[0].Status != model.TaskStatusError {
		t.Errorf("Expected first item Error, got %s", items[0].Status)
	}
	if items[0].LastError == "" {
		t.Error("Failed item should carry the error message")
	}
	if items[1].Status != model.TaskStatusCompleted {
		t.Errorf("Expected second item Completed, got %s", items[1].Status)
	}

	// One retry per failed item
	if len(calls) != 3 {
		t.Errorf("Expected 3 downloader calls (retry included), got %d", len(calls))
	}
}

func TestRunSequentialOrder(t *testing.T) {
	service := NewService(testOptions(), nil)

	var calls []string
	service.run = fakeRun(&calls, nil, nil)

	inputs := []string{
		"https://www.youtube.com/watch?v=first000000",
		"ytsearch2:some query",
		"https://www.youtube.com/watch?v=third000000",
	}
	if _, err := service.Run(context.Background(), inputs); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("Expected 3 calls, got %d", len(calls))
	}
	for i, input := range inputs {
		if calls[i] != input {
			t.Errorf("Call %d: expected %s, got %s", i, input, calls[i])
		}
	}
}

func TestRunCancellation(t *testing.T) {
	service := NewService(testOptions(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	service.run = func(runCtx context.Context, _ *ytdlp.Command, _ string) (*ytdlp.Result, error) {
		cancel()
		return nil, runCtx.Err()
	}

	inputs := []string{
		"https://www.youtube.com/watch?v=first000000",
		"https://www.youtube.com/watch?v=second00000",
	}
	_, err := service.Run(ctx, inputs)
	if err == nil {
		t.Fatal("Expected context error")
	}

	items := service.Items()
	if items[0].Status != model.TaskStatusStopped {
		t.Errorf("Expected first item Stopped, got %s", items[0].Status)
	}
	if items[1].Status != model.TaskStatusStopped {
		t.Errorf("Expected second item Stopped, got %s", items[1].Status)
	}
}

func TestUpdateCallback(t *testing.T) {
	service := NewService(testOptions(), nil)

	updateCalled := false
	var updatedItem *model.WorkItem

	service.SetUpdateCallback(func(item *model.WorkItem) {
		updateCalled = true
		updatedItem = item
	})

	item := &model.WorkItem{
		ID:     "test-id",
		Input:  "https://youtube.com/watch?v=test",
		Status: model.TaskStatusDownloading,
	}

	service.notifyUpdate(item)

	if !updateCalled {
		t.Error("Expected update callback to be called")
	}

	if updatedItem != item {
		t.Error("Expected updated item to be the same as input item")
	}
}

func TestUpdateItemProgressAppliesExtractedInfo(t *testing.T) {
	service := NewService(testOptions(), nil)

	item := &model.WorkItem{
		ID:     "test-id",
		Status: model.TaskStatusDownloading,
		ETASec: -1,
	}

	title := "Some Title"
	update := ytdlp.ProgressUpdate{
		TotalBytes:      200,
		DownloadedBytes: 100,
		Info: &ytdlp.ExtractedInfo{
			ID:    "abc123xyz00",
			Title: &title,
		},
	}
	service.updateItemProgress(item, &update)

	if item.VideoID != "abc123xyz00" {
		t.Errorf("expected video ID abc123xyz00, got %q", item.VideoID)
	}
	if item.Title != "Some Title" {
		t.Errorf("expected title from extracted info, got %q", item.Title)
	}
	if item.Percent != 50 {
		t.Errorf("expected 50 percent, got %d", item.Percent)
	}
}

func TestRunDoesNotDuplicateDownloaderArchiveWrites(t *testing.T) {
	arc := testArchive(t)
	service := NewService(testOptions(), arc)

	// The downloader records the ID into the forwarded archive file itself
	var calls []string
	service.run = func(_ context.Context, _ *ytdlp.Command, target string) (*ytdlp.Result, error) {
		calls = append(calls, target)
		f, err := os.OpenFile(arc.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			t.Fatalf("failed to open archive for append: %v", err)
		}
		fmt.Fprintln(f, "youtube abc123xyz00")
		f.Close()
		return nil, nil
	}

	_, err := service.Run(context.Background(), []string{"https://www.youtube.com/watch?v=abc123xyz00"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("Expected 1 downloader call, got %d", len(calls))
	}
	if !arc.Contains("abc123xyz00") {
		t.Error("Completed item should be in the archive")
	}

	data, err := os.ReadFile(arc.Path())
	if err != nil {
		t.Fatalf("failed to read archive file: %v", err)
	}
	if got := strings.Count(string(data), "abc123xyz00"); got != 1 {
		t.Errorf("archive should hold one line per ID, found %d", got)
	}
}

func TestGenerateItemID(t *testing.T) {
	id1 := generateItemID()
	id2 := generateItemID()

	if id1 == id2 {
		t.Error("Expected different item IDs")
	}

	if !strings.HasPrefix(id1, ItemIDPrefix) {
		t.Errorf("Expected ID to start with %q, got: %s", ItemIDPrefix, id1)
	}

	// item- + 36 chars for UUID
	if len(id1) != len(ItemIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(ItemIDPrefix)+36, len(id1), id1)
	}
}
