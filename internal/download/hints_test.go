package download

import "testing"

func TestHintsScan403(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected bool
	}{
		{
			name:     "HTTP Error 403",
			output:   "ERROR: unable to download video data: HTTP Error 403: Forbidden",
			expected: true,
		},
		{
			name:     "bare HTTP 403",
			output:   "WARNING: HTTP 403 on fragment 12",
			expected: true,
		},
		{
			name:     "different status",
			output:   "ERROR: HTTP Error 404: Not Found",
			expected: false,
		},
		{
			name:     "unrelated output",
			output:   "[download] 100% of 10MiB",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Hints
			h.Scan(tt.output)
			if h.Seen403 != tt.expected {
				t.Errorf("Seen403 = %v, expected %v for output: %s", h.Seen403, tt.expected, tt.output)
			}
		})
	}
}

func TestHintsScanFFmpeg(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected bool
	}{
		{
			name:     "ffmpeg error",
			output:   "ERROR: ffmpeg exited with code 1",
			expected: true,
		},
		{
			name:     "postprocessing error",
			output:   "ERROR: Postprocessing: audio conversion failed",
			expected: true,
		},
		{
			name:     "post-processing spelling",
			output:   "post-processing of the file failed",
			expected: true,
		},
		{
			name:     "unrelated output",
			output:   "[download] Destination: video.mkv",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Hints
			h.Scan(tt.output)
			if h.FFmpegIssue != tt.expected {
				t.Errorf("FFmpegIssue = %v, expected %v for output: %s", h.FFmpegIssue, tt.expected, tt.output)
			}
		})
	}
}

func TestHintsAccumulate(t *testing.T) {
	var h Hints
	h.Scan("HTTP Error 403: Forbidden")
	h.Scan("ffmpeg not found")
	h.Scan("")

	if !h.Seen403 || !h.FFmpegIssue {
		t.Errorf("Hints should accumulate across scans, got %+v", h)
	}
}
