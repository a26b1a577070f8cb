package models

import "time"

// AnalysisJob is the transient record for an async detect run. It lives in
// redis with a TTL and is never archived.
type AnalysisJob struct {
	ID          string        `json:"id"`
	ImageURI    string        `json:"image_uri"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	Result      *DetectResult `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
