package matching

// Sampler yields a uniform integer in [0, n). It exists so tests can
// pin the explore pick to a known index; production wires *rand.Rand.
type Sampler interface {
	Intn(n int) int
}

// PickExplore samples one eligible job that the ranked shortlist left
// out, scores it normally, discounts it by the explore penalty and
// marks it as a discovery pick. Returns false when there is nothing
// left to sample from.
func PickExplore(c Candidate, excluded []Job, cfg Config, rnd Sampler) (Result, bool, error) {
	if len(excluded) == 0 || rnd == nil {
		return Result{}, false, nil
	}

	j := excluded[rnd.Intn(len(excluded))]
	res, err := ScorePair(c, j, cfg)
	if err != nil {
		return Result{}, false, err
	}

	res.Score *= cfg.ExplorePenalty
	if res.Score < 0 {
		res.Score = 0
	}
	res.Explanation.Overall = res.Score
	res.Explore = true
	return res, true, nil
}
