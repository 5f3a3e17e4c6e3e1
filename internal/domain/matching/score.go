package matching

// Aggregate combines the five subscores into one final score under the
// configured weights and builds the explanation payload.
func Aggregate(s Subscores, w Weights) (float64, Explanation) {
	score := s.Skills*w.Skills +
		s.Location*w.Location +
		s.Experience*w.Experience +
		s.Salary*w.Salary +
		s.Benefits*w.Benefits

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return score, Explanation{
		Overall:    score,
		Skills:     s.Skills,
		Location:   s.Location,
		Experience: s.Experience,
		Salary:     s.Salary,
		Benefits:   s.Benefits,
	}
}

// ScorePair computes the full match result for one eligible
// (candidate, job) pair.
func ScorePair(c Candidate, j Job, cfg Config) (Result, error) {
	subs, err := ComputeSubscores(c, j, cfg)
	if err != nil {
		return Result{}, err
	}
	score, expl := Aggregate(subs, cfg.Weights)
	return Result{
		CandidateID: c.ID,
		JobID:       j.ID,
		Score:       score,
		Explanation: expl,
	}, nil
}
