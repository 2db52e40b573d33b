package history

import "time"

type JobStatus string

const (
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
	JobRejected  JobStatus = "rejected"
)

// Job is one /photovideo upload.
type Job struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	OriginalFilename string    `gorm:"not null" json:"original_filename"`
	Extension        string    `gorm:"index" json:"extension"`
	Kind             string    `json:"kind"`
	Status           JobStatus `gorm:"not null;index" json:"status"`
	Frames           int       `json:"frames"`
	Faces            int       `json:"faces"`
	BytesIn          int       `json:"bytes_in"`
	BytesOut         int       `json:"bytes_out"`
	DurationMs       int64     `json:"duration_ms"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

type Summary struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Rejected  int64 `json:"rejected"`
	Faces     int64 `json:"faces"`
}
