// Package transcode re-encodes downloaded video files through ffmpeg:
// H.264/AAC in an mp4 container with faststart, with ffprobe-derived
// progress reporting.
package transcode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kadraa-png/yt-fetch/internal/model"
)

// FFmpeg constants for encode settings
const (
	// Video codec settings
	VideoCodec  = "libx264"
	VideoPreset = "medium"
	VideoCRF    = "23"

	// Audio codec settings
	AudioCodec   = "aac"
	AudioBitrate = "128k"

	// Container flags
	FastStartFlag = "+faststart"

	// Output suffix
	CompressedSuffix = "-compressed"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	TaskIDPrefix        = "transcode-"
	OutputExtensionMP4  = ".mp4"
)

// Transcoder defines the interface for the transcode service.
type Transcoder interface {
	SetUpdateCallback(func(*model.TranscodeTask))
	Transcode(ctx context.Context, inputPath string) (*model.TranscodeTask, error)
}

// Service handles video re-encode operations
type Service struct {
	tasks      map[string]*model.TranscodeTask
	tasksMutex sync.RWMutex
	onUpdate   func(*model.TranscodeTask) // callback for console updates
}

// NewService creates a new transcode service
func NewService() *Service {
	return &Service{
		tasks: make(map[string]*model.TranscodeTask),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.TranscodeTask)) {
	s.onUpdate = callback
}

// Transcode re-encodes inputPath and blocks until done. The resulting file
// path is on the returned task. A partial output file is removed on failure
// or cancellation.
func (s *Service) Transcode(ctx context.Context, inputPath string) (*model.TranscodeTask, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	task := &model.TranscodeTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: generateOutputPath(inputPath),
		Status:     model.TaskStatusPending,
		StartedAt:  time.Now(),
	}

	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()

	if err := s.runFFmpeg(ctx, task); err != nil {
		return task, err
	}
	return task, nil
}

// runFFmpeg performs the actual re-encode
func (s *Service) runFFmpeg(ctx context.Context, task *model.TranscodeTask) error {
	s.setStatus(task, model.TaskStatusStarting)

	// Duration drives progress percentage
	duration, err := s.getVideoDuration(task.InputPath)
	if err != nil {
		s.setTaskError(task, err)
		return err
	}

	args := s.buildFFmpegArgs(task.InputPath, task.OutputPath)
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		err = fmt.Errorf("failed to create stderr pipe: %w", err)
		s.setTaskError(task, err)
		return err
	}

	if err := cmd.Start(); err != nil {
		err = fmt.Errorf("failed to start ffmpeg: %w", err)
		s.setTaskError(task, err)
		return err
	}

	s.setStatus(task, model.TaskStatusDownloading)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.monitorProgress(stderr, task, duration)
	}()

	waitErr := cmd.Wait()
	<-done

	s.tasksMutex.Lock()
	if ctx.Err() != nil {
		task.Status = model.TaskStatusStopped
		os.Remove(task.OutputPath)
		waitErr = ctx.Err()
	} else if waitErr != nil {
		task.Status = model.TaskStatusError
		task.LastError = waitErr.Error()
		os.Remove(task.OutputPath)
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	return waitErr
}

// buildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) buildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-c:v", VideoCodec,
		"-preset", VideoPreset,
		"-crf", VideoCRF,
		"-c:a", AudioCodec,
		"-b:a", AudioBitrate,
		"-movflags", FastStartFlag,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// getVideoDuration gets the duration of a video file using ffprobe
func (s *Service) getVideoDuration(filePath string) (float64, error) {
	cmd := exec.Command(FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// monitorProgress monitors ffmpeg progress output
func (s *Service) monitorProgress(stderr io.ReadCloser, task *model.TranscodeTask, totalDuration float64) {
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			timeStr := strings.TrimPrefix(line, ProgressTimePrefix)
			timeMicroseconds, err := strconv.ParseInt(timeStr, 10, 64)
			if err != nil {
				continue
			}

			timeSeconds := float64(timeMicroseconds) / 1000000.0

			if totalDuration > 0 {
				progress := timeSeconds / totalDuration
				if progress > 1.0 {
					progress = 1.0
				}

				s.tasksMutex.Lock()
				task.Progress = progress
				task.Percent = int(progress * 100)
				s.tasksMutex.Unlock()

				s.notifyUpdate(task)
			}
		}
	}
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.TranscodeTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// setStatus updates a task status and notifies
func (s *Service) setStatus(task *model.TranscodeTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.TranscodeTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateOutputPath generates the output path for the re-encoded file
func generateOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	baseName := strings.TrimSuffix(inputPath, ext)
	return baseName + CompressedSuffix + OutputExtensionMP4
}

// generateTaskID generates a unique task ID using UUID v7 for better
// uniqueness and time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
