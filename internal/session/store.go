package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/eleven-am/maskwatch/internal/realtime"
	"github.com/eleven-am/maskwatch/internal/shared"
	"github.com/redis/go-redis/v9"
)

const (
	sessionTTL = 24 * time.Hour
	metricsTTL = 7 * 24 * time.Hour
	recentMax  = 500
)

// Store keeps session lifecycle records and hourly counters in Redis.
type Store struct {
	redis *redis.Client
	now   func() time.Time
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient, now: time.Now}
}

// RecordSession stores the latest snapshot of a session and bumps the hourly
// counter for the state it entered.
func (s *Store) RecordSession(ctx context.Context, info realtime.SessionInfo) error {
	rec := recordFromInfo(info)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, rec.RedisKey(), data, sessionTTL)
	pipe.ZAdd(ctx, recentKey, redis.Z{Score: float64(rec.CreatedAt.UnixNano()), Member: rec.ID})
	pipe.ZRemRangeByRank(ctx, recentKey, 0, -recentMax-1)
	pipe.Expire(ctx, recentKey, sessionTTL)

	key := s.metricsKey(s.now())
	for field, value := range counters(info) {
		pipe.HIncrBy(ctx, key, field, value)
	}
	pipe.Expire(ctx, key, metricsTTL)

	_, err = pipe.Exec(ctx)
	return err
}

func recordFromInfo(info realtime.SessionInfo) *Record {
	return &Record{
		ID:          info.ID,
		State:       info.State.String(),
		Tracks:      info.Tracks,
		Frames:      info.Stats.FramesIn,
		Transformed: info.Stats.Transformed,
		Dropped:     info.Stats.Dropped,
		Failed:      info.Stats.Failed,
		Faces:       info.Stats.Faces,
		CreatedAt:   info.CreatedAt,
		UpdatedAt:   info.UpdatedAt,
		EndedAt:     info.EndedAt,
	}
}

// counters maps a state entry to metric increments. Frame totals are added
// once, when the session ends.
func counters(info realtime.SessionInfo) map[string]int64 {
	switch info.State {
	case realtime.StateNew:
		return map[string]int64{"sessions": 1}
	case realtime.StateConnected:
		return map[string]int64{"connected": 1}
	case realtime.StateFailed, realtime.StateClosed:
		field := "closed"
		if info.State == realtime.StateFailed {
			field = "failed"
		}
		return map[string]int64{
			field:     1,
			"frames":  int64(info.Stats.FramesIn),
			"faces":   int64(info.Stats.Faces),
			"dropped": int64(info.Stats.Dropped),
		}
	default:
		return nil
	}
}

func (s *Store) metricsKey(t time.Time) string {
	t = t.UTC()
	return MetricsRedisKey(t.Format("2006-01-02"), t.Hour())
}

func (s *Store) GetRecord(ctx context.Context, id string) (*Record, error) {
	data, err := s.redis.Get(ctx, RecordRedisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecent returns up to limit records, newest first. Records whose key has
// expired are skipped.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 || limit > recentMax {
		limit = 50
	}

	ids, err := s.redis.ZRevRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = RecordRedisKey(id)
	}

	values, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

// GetMetrics returns the non-empty hourly buckets for the last hours hours,
// newest first.
func (s *Store) GetMetrics(ctx context.Context, hours int) ([]*Metrics, error) {
	now := s.now().UTC()
	var metrics []*Metrics

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)

		data, err := s.redis.HGetAll(ctx, s.metricsKey(t)).Result()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}

		m := &Metrics{Date: t.Format("2006-01-02"), Hour: t.Hour()}
		m.Sessions = parseCounter(data, "sessions")
		m.Connected = parseCounter(data, "connected")
		m.Failed = parseCounter(data, "failed")
		m.Closed = parseCounter(data, "closed")
		m.Frames = parseCounter(data, "frames")
		m.Faces = parseCounter(data, "faces")
		m.Dropped = parseCounter(data, "dropped")

		metrics = append(metrics, m)
	}

	return metrics, nil
}

func parseCounter(data map[string]string, field string) int64 {
	n, _ := strconv.ParseInt(data[field], 10, 64)
	return n
}

func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
