package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"talentmatch/internal/domain/matching"
	"talentmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error kinds surfaced by the matching pipeline. The sentinel text is
// the kind name so wrapped errors read "NotFound: candidate <id>".
var (
	ErrInvalidInput      = errors.New("InvalidInput")
	ErrCandidateNotFound = errors.New("NotFound")
	ErrDimensionMismatch = errors.New("DimensionMismatch")
	ErrStore             = errors.New("StoreError")

	// ErrCacheWrite is a StoreError on the final result-cache write.
	// The computed matches are still returned alongside it: the ranked
	// list is valid even when persisting it failed.
	ErrCacheWrite = fmt.Errorf("%w (result cache write)", ErrStore)
)

type MatchParams struct {
	Limit int
}

type MatchOutput struct {
	Matches       []matching.Result
	TotalEligible int
	Returned      int
}

type MatchingUsecase interface {
	MatchCandidate(ctx context.Context, candidateID uuid.UUID, params MatchParams) (MatchOutput, error)
	CachedMatch(ctx context.Context, candidateID, jobID uuid.UUID) (repository.MatchUpsert, bool, error)
}

type Matching struct {
	candidates repository.CandidateRepository
	jobs       repository.JobRepository
	results    repository.MatchResultRepository

	cfg          matching.Config
	defaultLimit int
	maxLimit     int
	workers      int
	rnd          matching.Sampler
	logger       *zap.Logger
}

type MatchingOptions struct {
	Engine       matching.Config
	DefaultLimit int
	MaxLimit     int
	ScoreWorkers int
	Sampler      matching.Sampler
	Logger       *zap.Logger
}

func NewMatchingUsecase(
	candidates repository.CandidateRepository,
	jobs repository.JobRepository,
	results repository.MatchResultRepository,
	opts MatchingOptions,
) *Matching {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.ScoreWorkers <= 0 {
		opts.ScoreWorkers = 8
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Matching{
		candidates:   candidates,
		jobs:         jobs,
		results:      results,
		cfg:          opts.Engine,
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
		workers:      opts.ScoreWorkers,
		rnd:          opts.Sampler,
		logger:       opts.Logger,
	}
}

// MatchCandidate runs the full pipeline for one candidate: load,
// filter, score, floor, rank, diversify, explore, truncate, persist.
func (u *Matching) MatchCandidate(ctx context.Context, candidateID uuid.UUID, params MatchParams) (MatchOutput, error) {
	if candidateID == uuid.Nil {
		return MatchOutput{}, fmt.Errorf("%w: missing candidate id", ErrInvalidInput)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = u.defaultLimit
	}
	if limit > u.maxLimit {
		limit = u.maxLimit
	}

	row, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return MatchOutput{}, fmt.Errorf("%w: candidate %s", ErrCandidateNotFound, candidateID)
		}
		return MatchOutput{}, fmt.Errorf("%w: get candidate: %v", ErrStore, err)
	}
	cand := toEngineCandidate(row)

	jobRows, err := u.jobs.ListActiveJobs(ctx)
	if err != nil {
		return MatchOutput{}, fmt.Errorf("%w: list active jobs: %v", ErrStore, err)
	}

	eligible := make([]matching.Job, 0, len(jobRows))
	for _, jr := range jobRows {
		j := toEngineJob(jr)
		if matching.IsEligible(cand, j, u.cfg) {
			eligible = append(eligible, j)
		}
	}
	totalEligible := len(eligible)

	scored, err := u.scoreJobs(cand, eligible)
	if err != nil {
		if errors.Is(err, matching.ErrDimensionMismatch) {
			return MatchOutput{}, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		}
		if errors.Is(err, matching.ErrInvalidInput) {
			return MatchOutput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return MatchOutput{}, err
	}

	ranked := make([]matching.Result, 0, len(scored))
	for _, res := range scored {
		if res.Score >= u.cfg.MinScore {
			ranked = append(ranked, res)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	selected := matching.Rerank(ranked, limit, u.cfg)

	selected, err = u.fillExploreSlot(cand, eligible, selected, limit)
	if err != nil {
		return MatchOutput{}, err
	}
	if len(selected) > limit {
		selected = selected[:limit]
	}

	out := MatchOutput{
		Matches:       selected,
		TotalEligible: totalEligible,
		Returned:      len(selected),
	}

	if err := u.results.UpsertMatches(ctx, toUpserts(selected)); err != nil {
		u.logger.Warn("result cache upsert failed",
			zap.String("candidate_id", candidateID.String()),
			zap.Int("matches", len(selected)),
			zap.Error(err),
		)
		return out, fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}

	u.logger.Debug("matching run complete",
		zap.String("candidate_id", candidateID.String()),
		zap.Int("total_eligible", totalEligible),
		zap.Int("returned", out.Returned),
	)
	return out, nil
}

func (u *Matching) CachedMatch(ctx context.Context, candidateID, jobID uuid.UUID) (repository.MatchUpsert, bool, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return repository.MatchUpsert{}, false, fmt.Errorf("%w: missing candidate or job id", ErrInvalidInput)
	}
	m, found, err := u.results.GetMatch(ctx, candidateID, jobID)
	if err != nil {
		return repository.MatchUpsert{}, false, fmt.Errorf("%w: get cached match: %v", ErrStore, err)
	}
	return m, found, nil
}

// scoreJobs fans per-job scoring out over a bounded worker set. The
// result slice is index-addressed so the output order matches the
// input order regardless of worker interleaving. Scoring is cheap and
// CPU-bound; once started it runs to completion.
func (u *Matching) scoreJobs(cand matching.Candidate, jobs []matching.Job) ([]matching.Result, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	workers := u.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]matching.Result, len(jobs))
	errs := make([]error, len(jobs))

	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i], errs[i] = matching.ScorePair(cand, jobs[i], u.cfg)
			}
		}()
	}
	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// fillExploreSlot appends one discovery pick when the ranked shortlist
// came in under the limit and eligible jobs were left out. An explore
// pick is never the sole result unless the eligible pool had exactly
// one member.
func (u *Matching) fillExploreSlot(cand matching.Candidate, eligible []matching.Job, selected []matching.Result, limit int) ([]matching.Result, error) {
	if len(selected) >= limit || u.rnd == nil {
		return selected, nil
	}
	if len(selected) == 0 && len(eligible) > 1 {
		return selected, nil
	}

	chosen := make(map[uuid.UUID]bool, len(selected))
	for _, res := range selected {
		chosen[res.JobID] = true
	}
	excluded := make([]matching.Job, 0, len(eligible))
	for _, j := range eligible {
		if !chosen[j.ID] {
			excluded = append(excluded, j)
		}
	}

	pick, ok, err := matching.PickExplore(cand, excluded, u.cfg, u.rnd)
	if err != nil {
		if errors.Is(err, matching.ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if ok {
		selected = append(selected, pick)
	}
	return selected, nil
}

func toEngineCandidate(c repository.Candidate) matching.Candidate {
	return matching.Candidate{
		ID:                c.ID,
		Embedding:         c.Embedding,
		Home:              matching.Point{Lat: c.HomeLat, Lng: c.HomeLng},
		CommuteMode:       matching.CommuteMode(c.CommuteMode),
		MaxCommuteMinutes: c.MaxCommuteMinutes,
		RelocationWilling: c.RelocationWilling,
		RelocationCities:  c.RelocationCities,
		Stage:             matching.Stage(c.Stage),
		ExpectedSalary:    c.ExpectedSalary,
	}
}

func toEngineJob(j repository.Job) matching.Job {
	locations := make([]matching.Location, 0, len(j.Locations))
	for _, loc := range j.Locations {
		locations = append(locations, matching.Location{
			Point:   matching.Point{Lat: loc.Lat, Lng: loc.Lng},
			City:    loc.City,
			Address: loc.Address,
		})
	}
	return matching.Job{
		ID:                  j.ID,
		CompanyID:           j.CompanyID,
		Title:               j.Title,
		Description:         j.Description,
		Track:               j.Track,
		ContractType:        j.ContractType,
		Remote:              j.Remote,
		SalaryMin:           j.SalaryMin,
		SalaryMax:           j.SalaryMax,
		MinExperienceMonths: j.MinExperienceMonths,
		Benefits:            j.Benefits,
		Embedding:           j.Embedding,
		Locations:           locations,
		Active:              true,
	}
}

func toUpserts(results []matching.Result) []repository.MatchUpsert {
	now := time.Now().UTC()
	out := make([]repository.MatchUpsert, 0, len(results))
	for _, res := range results {
		out = append(out, repository.MatchUpsert{
			CandidateID: res.CandidateID,
			JobID:       res.JobID,
			Score:       res.Score,
			Explanation: repository.MatchExplanation{
				Overall:         res.Explanation.Overall,
				SkillsMatch:     res.Explanation.Skills,
				LocationFit:     res.Explanation.Location,
				ExperienceLevel: res.Explanation.Experience,
				SalaryFit:       res.Explanation.Salary,
				BenefitsFit:     res.Explanation.Benefits,
			},
			Explore:   res.Explore,
			MatchedAt: now,
		})
	}
	return out
}
