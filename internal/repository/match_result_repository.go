package repository

import (
	"context"
	"fmt"
	"time"

	"talentmatch/internal/infrastructure/cache"

	"github.com/google/uuid"
)

// MatchUpsert is the cached form of one computed match result. The
// JSON shape is what presentation layers read back out of the cache.
type MatchUpsert struct {
	CandidateID uuid.UUID        `json:"candidate_id"`
	JobID       uuid.UUID        `json:"job_id"`
	Score       float64          `json:"score"`
	Explanation MatchExplanation `json:"explanation"`
	Explore     bool             `json:"explore,omitempty"`
	MatchedAt   time.Time        `json:"matched_at"`
}

type MatchExplanation struct {
	Overall         float64 `json:"overall"`
	SkillsMatch     float64 `json:"skills_match"`
	LocationFit     float64 `json:"location_fit"`
	ExperienceLevel float64 `json:"experience_level"`
	SalaryFit       float64 `json:"salary_fit"`
	BenefitsFit     float64 `json:"benefits_fit"`
}

type MatchResultRepository interface {
	// UpsertMatches overwrites the cache entry for every (candidate,
	// job) pair in the batch; last writer wins per pair.
	UpsertMatches(ctx context.Context, matches []MatchUpsert) error
	GetMatch(ctx context.Context, candidateID, jobID uuid.UUID) (MatchUpsert, bool, error)
}

type RedisMatchResultRepository struct {
	cache *cache.Redis
	ttl   time.Duration
}

func NewRedisMatchResultRepository(c *cache.Redis, ttl time.Duration) *RedisMatchResultRepository {
	return &RedisMatchResultRepository{cache: c, ttl: ttl}
}

func matchKey(candidateID, jobID uuid.UUID) string {
	return fmt.Sprintf("match:%s:%s", candidateID, jobID)
}

func (r *RedisMatchResultRepository) UpsertMatches(ctx context.Context, matches []MatchUpsert) error {
	for _, m := range matches {
		if m.CandidateID == uuid.Nil || m.JobID == uuid.Nil {
			continue
		}
		if m.MatchedAt.IsZero() {
			m.MatchedAt = time.Now().UTC()
		}
		if err := r.cache.SetJSON(ctx, matchKey(m.CandidateID, m.JobID), m, r.ttl); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisMatchResultRepository) GetMatch(ctx context.Context, candidateID, jobID uuid.UUID) (MatchUpsert, bool, error) {
	var m MatchUpsert
	found, err := r.cache.GetJSON(ctx, matchKey(candidateID, jobID), &m)
	if err != nil {
		return MatchUpsert{}, false, err
	}
	return m, found, nil
}
