package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"talentmatch/internal/domain/matching"
	"talentmatch/internal/repository"

	"github.com/google/uuid"
)

type mockCandidateRepo struct {
	c   repository.Candidate
	err error
}

func (m mockCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Candidate, error) {
	if m.err != nil {
		return repository.Candidate{}, m.err
	}
	if m.c.ID != id {
		return repository.Candidate{}, repository.ErrCandidateNotFound
	}
	return m.c, nil
}

type mockJobRepo struct {
	items []repository.Job
	err   error
}

func (m mockJobRepo) ListActiveJobs(_ context.Context) ([]repository.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

type mockResultRepo struct {
	entries     map[string]repository.MatchUpsert
	upsertCalls int
	err         error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{entries: make(map[string]repository.MatchUpsert)}
}

func (m *mockResultRepo) UpsertMatches(_ context.Context, matches []repository.MatchUpsert) error {
	m.upsertCalls++
	if m.err != nil {
		return m.err
	}
	for _, it := range matches {
		m.entries[it.CandidateID.String()+":"+it.JobID.String()] = it
	}
	return nil
}

func (m *mockResultRepo) GetMatch(_ context.Context, candidateID, jobID uuid.UUID) (repository.MatchUpsert, bool, error) {
	if m.err != nil {
		return repository.MatchUpsert{}, false, m.err
	}
	it, ok := m.entries[candidateID.String()+":"+jobID.String()]
	return it, ok, nil
}

type fixedSampler struct{ n int }

func (f fixedSampler) Intn(n int) int {
	if f.n >= n {
		return n - 1
	}
	return f.n
}

func testCandidate() repository.Candidate {
	return repository.Candidate{
		ID:          uuid.New(),
		Embedding:   []float64{1, 0},
		HomeLat:     48.8566,
		HomeLng:     2.3522,
		CommuteMode: "car",
		Stage:       "available",
	}
}

func remoteJob(embedding []float64, benefits ...string) repository.Job {
	return repository.Job{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Remote:    true,
		Embedding: embedding,
		Benefits:  benefits,
	}
}

func newTestUsecase(cand repository.Candidate, jobs []repository.Job, results *mockResultRepo, sampler matching.Sampler) *Matching {
	return NewMatchingUsecase(
		mockCandidateRepo{c: cand},
		mockJobRepo{items: jobs},
		results,
		MatchingOptions{Engine: matching.DefaultConfig(), Sampler: sampler},
	)
}

func TestMatchCandidate_MissingID(t *testing.T) {
	uc := newTestUsecase(testCandidate(), nil, newMockResultRepo(), nil)
	_, err := uc.MatchCandidate(context.Background(), uuid.Nil, MatchParams{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchCandidate_UnknownCandidate(t *testing.T) {
	results := newMockResultRepo()
	uc := newTestUsecase(testCandidate(), nil, results, nil)

	unknown := uuid.New()
	_, err := uc.MatchCandidate(context.Background(), unknown, MatchParams{})
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
	want := fmt.Sprintf("NotFound: candidate %s", unknown)
	if err.Error() != want {
		t.Fatalf("expected error %q, got %q", want, err.Error())
	}
	if results.upsertCalls != 0 {
		t.Fatalf("no cache writes may occur for an unknown candidate")
	}
}

func TestMatchCandidate_StoreReadFailure(t *testing.T) {
	cand := testCandidate()
	results := newMockResultRepo()
	uc := NewMatchingUsecase(
		mockCandidateRepo{c: cand},
		mockJobRepo{err: errors.New("connection refused")},
		results,
		MatchingOptions{Engine: matching.DefaultConfig()},
	)

	_, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if results.upsertCalls != 0 {
		t.Fatalf("a read failure must abort the request before any cache write")
	}
}

func TestMatchCandidate_EmptyJobPool(t *testing.T) {
	cand := testCandidate()
	uc := newTestUsecase(cand, nil, newMockResultRepo(), nil)

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Matches) != 0 || out.TotalEligible != 0 || out.Returned != 0 {
		t.Fatalf("expected empty result, got %+v", out)
	}
}

func TestMatchCandidate_SinglePerfectMatch(t *testing.T) {
	cand := testCandidate()
	job := remoteJob([]float64{1, 0}, "health insurance")
	results := newMockResultRepo()
	uc := newTestUsecase(cand, []repository.Job{job}, results, nil)

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalEligible != 1 || out.Returned != 1 || len(out.Matches) != 1 {
		t.Fatalf("expected exactly one match, got %+v", out)
	}

	m := out.Matches[0]
	if math.Abs(m.Score-1.0) > 1e-9 {
		t.Fatalf("perfect match should score ~1.0, got %v", m.Score)
	}
	if m.Explore {
		t.Fatalf("ranked pick must not be flagged explore")
	}
	if m.JobID != job.ID || m.CandidateID != cand.ID {
		t.Fatalf("result identity mismatch")
	}
	if len(results.entries) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(results.entries))
	}
}

func TestMatchCandidate_OverSeniorJobExcluded(t *testing.T) {
	cand := testCandidate()
	good := remoteJob([]float64{1, 0}, "gym")
	senior := remoteJob([]float64{1, 0}, "gym")
	senior.MinExperienceMonths = 36

	uc := newTestUsecase(cand, []repository.Job{good, senior}, newMockResultRepo(), nil)

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalEligible != 1 {
		t.Fatalf("over-senior job must not count as eligible, got total_eligible=%d", out.TotalEligible)
	}
	for _, m := range out.Matches {
		if m.JobID == senior.ID {
			t.Fatalf("over-senior job must never appear in matches")
		}
	}
}

func TestMatchCandidate_InactiveCandidateGetsNothing(t *testing.T) {
	cand := testCandidate()
	cand.Stage = "inactive"
	jobs := []repository.Job{
		remoteJob([]float64{1, 0}, "gym"),
		remoteJob([]float64{0.9, 0.1}, "gym"),
	}
	uc := newTestUsecase(cand, jobs, newMockResultRepo(), fixedSampler{})

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalEligible != 0 || len(out.Matches) != 0 {
		t.Fatalf("inactive candidate must match nothing, got %+v", out)
	}
}

func TestMatchCandidate_RankingOrder(t *testing.T) {
	cand := testCandidate()
	jobs := []repository.Job{
		remoteJob([]float64{0, 1}, "gym"),
		remoteJob([]float64{1, 0}, "gym"),
		remoteJob([]float64{1, 0.5}, "gym"),
	}
	uc := newTestUsecase(cand, jobs, newMockResultRepo(), nil)

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 1; i < len(out.Matches); i++ {
		if out.Matches[i-1].Score < out.Matches[i].Score {
			t.Fatalf("matches not sorted descending at %d: %v < %v", i, out.Matches[i-1].Score, out.Matches[i].Score)
		}
	}
}

func TestMatchCandidate_LimitTruncates(t *testing.T) {
	cand := testCandidate()
	jobs := make([]repository.Job, 0, 6)
	for i := 0; i < 6; i++ {
		jobs = append(jobs, remoteJob([]float64{1, float64(i) * 0.3}, "gym"))
	}
	uc := newTestUsecase(cand, jobs, newMockResultRepo(), nil)

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Returned > 2 || len(out.Matches) > 2 {
		t.Fatalf("expected at most 2 results, got %d", len(out.Matches))
	}
}

func TestMatchCandidate_ExploreSlot(t *testing.T) {
	cand := testCandidate()

	strong := remoteJob([]float64{1, 0}, "gym")
	decent := remoteJob([]float64{0, 1}, "gym")
	// Weak: orthogonal embedding, far office, no commute budget, max
	// experience requirement, no benefits. Lands below the score floor.
	weak := repository.Job{
		ID:                  uuid.New(),
		CompanyID:           uuid.New(),
		Embedding:           []float64{-1, 0},
		MinExperienceMonths: 24,
		Locations:           []repository.JobLocation{{Lat: -33.86, Lng: 151.2, City: "Sydney"}},
	}
	candNoCar := cand
	candNoCar.CommuteMode = "walk"
	candNoCar.MaxCommuteMinutes = 0

	results := newMockResultRepo()
	uc := newTestUsecase(candNoCar, []repository.Job{strong, decent, weak}, results, fixedSampler{})

	out, err := uc.MatchCandidate(context.Background(), candNoCar.ID, MatchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	exploreCount := 0
	var explore *struct {
		score float64
		jobID uuid.UUID
	}
	for _, m := range out.Matches {
		if m.Explore {
			exploreCount++
			explore = &struct {
				score float64
				jobID uuid.UUID
			}{m.Score, m.JobID}
		}
	}
	if exploreCount != 1 {
		t.Fatalf("expected exactly one explore pick, got %d", exploreCount)
	}
	if explore.jobID != weak.ID {
		t.Fatalf("explore pick should come from the excluded pool")
	}
	if out.Matches[len(out.Matches)-1].JobID != explore.jobID {
		t.Fatalf("explore pick must be appended after the ranked list")
	}
	if len(out.Matches) < 2 {
		t.Fatalf("explore pick must not be the sole result for a multi-job pool")
	}
	if len(results.entries) != len(out.Matches) {
		t.Fatalf("every returned match must be cached, got %d entries for %d matches", len(results.entries), len(out.Matches))
	}
}

func TestMatchCandidate_NoExploreWhenNothingRanked(t *testing.T) {
	cand := testCandidate()
	cand.CommuteMode = "walk"
	cand.MaxCommuteMinutes = 0

	farJob := func() repository.Job {
		return repository.Job{
			ID:                  uuid.New(),
			CompanyID:           uuid.New(),
			Embedding:           []float64{-1, 0},
			MinExperienceMonths: 24,
			Locations:           []repository.JobLocation{{Lat: -33.86, Lng: 151.2}},
		}
	}
	uc := newTestUsecase(cand, []repository.Job{farJob(), farJob()}, newMockResultRepo(), fixedSampler{})

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Matches) != 0 {
		t.Fatalf("an explore pick must not be the sole result when the pool has several members, got %d", len(out.Matches))
	}
}

func TestMatchCandidate_IdempotentCacheWrites(t *testing.T) {
	cand := testCandidate()
	jobs := []repository.Job{
		remoteJob([]float64{1, 0}, "gym"),
		remoteJob([]float64{0.5, 0.5}, "gym"),
	}
	results := newMockResultRepo()
	uc := newTestUsecase(cand, jobs, results, nil)

	if _, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := make(map[string]float64, len(results.entries))
	for k, v := range results.entries {
		first[k] = v.Score
	}

	if _, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(results.entries) != len(first) {
		t.Fatalf("repeat run must overwrite, not duplicate: %d vs %d entries", len(results.entries), len(first))
	}
	for k, v := range results.entries {
		if first[k] != v.Score {
			t.Fatalf("repeat run changed the cached score for %s", k)
		}
	}
}

func TestMatchCandidate_CacheWriteFailureStillReturnsMatches(t *testing.T) {
	cand := testCandidate()
	results := newMockResultRepo()
	results.err = errors.New("redis gone")
	uc := newTestUsecase(cand, []repository.Job{remoteJob([]float64{1, 0}, "gym")}, results, nil)

	out, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if !errors.Is(err, ErrCacheWrite) {
		t.Fatalf("expected ErrCacheWrite, got %v", err)
	}
	if !errors.Is(err, ErrStore) {
		t.Fatalf("cache write failure must still be a StoreError")
	}
	if len(out.Matches) != 1 || out.Returned != 1 {
		t.Fatalf("computed matches must still be returned, got %+v", out)
	}
	if !strings.HasPrefix(err.Error(), "StoreError") {
		t.Fatalf("error string should name the kind, got %q", err.Error())
	}
}

func TestMatchCandidate_DimensionMismatch(t *testing.T) {
	cand := testCandidate() // 2-dim embedding
	bad := remoteJob([]float64{1, 0, 0}, "gym")
	results := newMockResultRepo()
	uc := newTestUsecase(cand, []repository.Job{bad}, results, nil)

	_, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if results.upsertCalls != 0 {
		t.Fatalf("no partial results may be cached on failure")
	}
}

func TestCachedMatch_Roundtrip(t *testing.T) {
	cand := testCandidate()
	job := remoteJob([]float64{1, 0}, "gym")
	results := newMockResultRepo()
	uc := newTestUsecase(cand, []repository.Job{job}, results, nil)

	if _, err := uc.MatchCandidate(context.Background(), cand.ID, MatchParams{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	m, found, err := uc.CachedMatch(context.Background(), cand.ID, job.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !found {
		t.Fatalf("expected a cached entry after a run")
	}
	if m.JobID != job.ID || m.CandidateID != cand.ID {
		t.Fatalf("cached entry identity mismatch")
	}

	_, found, err = uc.CachedMatch(context.Background(), cand.ID, uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if found {
		t.Fatalf("unknown pair must not be found")
	}
}
