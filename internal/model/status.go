package model

// TaskStatus represents the status of a work item or transcode task
type TaskStatus string

const (
	// TaskStatusPending means the item is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusStarting means the item is in the process of starting
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means the download is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusSkipped means the item was rejected by the archive check
	TaskStatusSkipped TaskStatus = "Skipped"

	// TaskStatusStopped means the item was cancelled before finishing
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the item finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the item failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusDownloading
}

// IsFinished returns true if the task is in a finished state (completed,
// skipped, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusSkipped || ts == TaskStatusStopped || ts == TaskStatusError
}
