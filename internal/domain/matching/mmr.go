package matching

import "math"

// Rerank applies a single-pass maximal-marginal-relevance selection to
// a score-descending result list: the top result seeds the output, and
// each remaining result is admitted only while its marginal relevance
// against everything already selected clears the admission threshold.
// Skipped results are discarded from the run, not deferred, so the
// pass is O(n·k) and deterministic for a deterministic input order.
//
// Similarity between two results is approximated by closeness of their
// final scores rather than embedding distance. The proxy is observable
// behavior and kept deliberately; strengthening it to job-embedding
// cosine would change which near-duplicates get skipped.
func Rerank(results []Result, limit int, cfg Config) []Result {
	out := make([]Result, 0, limit)
	if len(results) == 0 || limit <= 0 {
		return out
	}

	lambda := cfg.MMRLambda
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}

	out = append(out, results[0])
	for _, cand := range results[1:] {
		if len(out) >= limit {
			break
		}

		maxSim := 0.0
		for _, sel := range out {
			if sim := scoreSimilarity(cand.Score, sel.Score); sim > maxSim {
				maxSim = sim
			}
		}

		mmr := lambda*cand.Score - (1-lambda)*maxSim
		if mmr > cfg.MMRThreshold {
			out = append(out, cand)
		}
	}
	return out
}

// scoreSimilarity treats two results as redundant when their final
// scores sit close together: 1.0 for identical scores, 0.0 once they
// are a full unit apart.
func scoreSimilarity(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 1 {
		d = 1
	}
	return 1 - d
}
