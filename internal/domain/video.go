package domain

import "strings"

// VideoStatus is the closed set of asynchronous video task states.
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// NormalizeVideoStatus maps a vendor status string onto VideoStatus.
// Unrecognized values are reported as processing.
func NormalizeVideoStatus(raw string) VideoStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "succeeded":
		return VideoStatusCompleted
	case "failed":
		return VideoStatusFailed
	case "pending", "queued":
		return VideoStatusPending
	default:
		return VideoStatusProcessing
	}
}
