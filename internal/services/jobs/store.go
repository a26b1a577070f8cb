// Package jobs keeps transient records for async analysis runs in redis.
// Records expire after the configured TTL; this is operational state, not a
// diagnosis archive.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cropcheckai/cropcheck/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("jobs: job not found or expired")

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Save writes the job record, resetting its TTL.
func (s *Store) Save(ctx context.Context, job *models.AnalysisJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := s.client.Set(ctx, jobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store job: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.AnalysisJob, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	var job models.AnalysisJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

func (s *Store) HealthCheck(ctx context.Context) string {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func jobKey(id string) string {
	return "analysis_job:" + id
}
