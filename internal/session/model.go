package session

import (
	"strconv"
	"time"
)

// Record is the persisted lifecycle of one peer session.
type Record struct {
	ID          string     `json:"id"`
	State       string     `json:"state"`
	Tracks      int        `json:"tracks"`
	Frames      uint64     `json:"frames"`
	Transformed uint64     `json:"transformed"`
	Dropped     uint64     `json:"dropped"`
	Failed      uint64     `json:"failed"`
	Faces       uint64     `json:"faces"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

func (r *Record) RedisKey() string {
	return RecordRedisKey(r.ID)
}

func RecordRedisKey(id string) string {
	return "session:" + id
}

const recentKey = "sessions:recent"

type Metrics struct {
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	Sessions  int64  `json:"sessions"`
	Connected int64  `json:"connected"`
	Failed    int64  `json:"failed"`
	Closed    int64  `json:"closed"`
	Frames    int64  `json:"frames"`
	Faces     int64  `json:"faces"`
	Dropped   int64  `json:"dropped"`
}

func MetricsRedisKey(date string, hour int) string {
	return "metrics:" + date + ":" + strconv.Itoa(hour)
}
