package matching

import (
	"math"
	"strings"
)

// neutralLocationScore applies when a job is neither remote nor has
// any physical location to measure against: no signal either way.
const neutralLocationScore = 0.5

// Subscores are the five independent [0,1] components of a final
// match score.
type Subscores struct {
	Skills     float64
	Location   float64
	Experience float64
	Salary     float64
	Benefits   float64
}

// ComputeSubscores scores one eligible (candidate, job) pair. Each
// subscore is a pure computation; the only failure modes are the geo
// and vector contract violations.
func ComputeSubscores(c Candidate, j Job, cfg Config) (Subscores, error) {
	skills, err := skillsFit(c.Embedding, j.Embedding)
	if err != nil {
		return Subscores{}, err
	}

	location, err := locationFit(c, j, cfg)
	if err != nil {
		return Subscores{}, err
	}

	return Subscores{
		Skills:     skills,
		Location:   location,
		Experience: experienceFit(j.MinExperienceMonths, cfg),
		Salary:     salaryFit(c, j),
		Benefits:   benefitsFit(j, cfg),
	}, nil
}

// skillsFit rescales cosine similarity from [-1,1] to [0,1].
func skillsFit(candidate, job []float64) (float64, error) {
	sim, err := CosineSimilarity(candidate, job)
	if err != nil {
		return 0, err
	}
	return (sim + 1) / 2, nil
}

// locationFit scores how reachable a job is. Remote jobs and jobs in a
// city the candidate is willing to relocate to score 1.0 outright;
// otherwise the minimum distance to any job location is scaled against
// the radius implied by the candidate's commute budget, holding 1.0
// inside the radius and decaying exponentially beyond it.
func locationFit(c Candidate, j Job, cfg Config) (float64, error) {
	if j.Remote {
		return 1, nil
	}
	if c.RelocationWilling && relocationMatch(c.RelocationCities, j.Locations) {
		return 1, nil
	}
	if len(j.Locations) == 0 {
		return neutralLocationScore, nil
	}

	minDist := math.Inf(1)
	for _, loc := range j.Locations {
		d, err := Haversine(c.Home, loc.Point)
		if err != nil {
			return 0, err
		}
		if d < minDist {
			minDist = d
		}
	}

	radius := commuteRadiusKm(c.CommuteMode, c.MaxCommuteMinutes, cfg)
	if radius <= 0 {
		if minDist == 0 {
			return 1, nil
		}
		return 0, nil
	}

	ratio := minDist / radius
	if ratio <= 1 {
		return 1, nil
	}
	return math.Exp(1 - ratio), nil
}

func relocationMatch(cities []string, locations []Location) bool {
	for _, city := range cities {
		for _, loc := range locations {
			if loc.City != "" && strings.EqualFold(strings.TrimSpace(city), strings.TrimSpace(loc.City)) {
				return true
			}
		}
	}
	return false
}

// experienceFit decreases linearly from 1.0 at zero required months to
// the configured floor at the eligibility ceiling. Jobs above the
// ceiling never reach scoring.
func experienceFit(requiredMonths int, cfg Config) float64 {
	if cfg.ExperienceCeilingMonths <= 0 {
		return 1
	}
	m := requiredMonths
	if m < 0 {
		m = 0
	}
	if m > cfg.ExperienceCeilingMonths {
		m = cfg.ExperienceCeilingMonths
	}
	return 1 - (1-cfg.ExperienceFloor)*float64(m)/float64(cfg.ExperienceCeilingMonths)
}

// salaryFit is a pluggable stub: with no candidate-side expectation
// modeled upstream, or no band on the job, it returns 1.0. When an
// expectation is present it scores against the top of the band.
func salaryFit(c Candidate, j Job) float64 {
	if c.ExpectedSalary == nil {
		return 1
	}
	if j.SalaryMin == nil && j.SalaryMax == nil {
		return 1
	}
	expected := *c.ExpectedSalary
	if expected <= 0 {
		return 1
	}
	if j.SalaryMax != nil && expected > *j.SalaryMax {
		s := *j.SalaryMax / expected
		if s < 0 {
			s = 0
		}
		return s
	}
	return 1
}

// benefitsFit is presence-based: fine-grained benefit preference
// matching is out of scope here.
func benefitsFit(j Job, cfg Config) float64 {
	if len(j.Benefits) > 0 {
		return 1
	}
	return cfg.BenefitsBaseline
}
