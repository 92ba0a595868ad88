package model

import "time"

// TranscodeTask represents a single ffmpeg re-encode of a downloaded file
type TranscodeTask struct {
	ID         string
	InputPath  string
	OutputPath string
	Status     TaskStatus
	Progress   float64 // 0.0 to 1.0
	Percent    int     // 0 to 100
	LastError  string  // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}
