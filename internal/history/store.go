package history

import (
	"context"
	"errors"

	"github.com/eleven-am/maskwatch/internal/shared"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Job{})
}

func (s *Store) Create(ctx context.Context, job *Job) error {
	if job.ID == "" {
		job.ID = shared.NewID("job_")
	}
	return s.db.WithContext(ctx).Create(job).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns the most recent jobs, newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status JobStatus, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var jobs []*Job
	err := q.Find(&jobs).Error
	return jobs, err
}

func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	var rows []struct {
		Status JobStatus
		Count  int64
		Faces  int64
	}
	err := s.db.WithContext(ctx).Model(&Job{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(faces), 0) AS faces").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	for _, r := range rows {
		sum.Total += r.Count
		sum.Faces += r.Faces
		switch r.Status {
		case JobSucceeded:
			sum.Succeeded = r.Count
		case JobFailed:
			sum.Failed = r.Count
		case JobRejected:
			sum.Rejected = r.Count
		}
	}
	return sum, nil
}
