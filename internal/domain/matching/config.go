package matching

import (
	"fmt"
	"math"
)

// Weights combines the five subscores into the final score. The sum
// must stay normalized to 1.0.
type Weights struct {
	Skills     float64
	Location   float64
	Experience float64
	Salary     float64
	Benefits   float64
}

func (w Weights) Sum() float64 {
	return w.Skills + w.Location + w.Experience + w.Salary + w.Benefits
}

// Config holds every matching tunable. The defaults reproduce the
// behavior the product shipped with; all of them may be overridden
// through configuration.
type Config struct {
	// ExperienceCeilingMonths excludes postings aimed at very senior
	// hires before any scoring happens.
	ExperienceCeilingMonths int

	// ExperienceFloor is the lowest experience subscore an eligible
	// job can receive.
	ExperienceFloor float64

	// MinScore drops noise matches before ranking.
	MinScore float64

	// MMRLambda trades relevance against diversity; higher leans
	// relevance-heavy.
	MMRLambda float64

	// MMRThreshold is the admission cutoff for the marginal-relevance
	// value of a result competing against the already-selected set.
	MMRThreshold float64

	// ExplorePenalty discounts the score of the explore-slot pick.
	ExplorePenalty float64

	// BenefitsBaseline is the benefits subscore for a job listing no
	// benefits at all.
	BenefitsBaseline float64

	// CommuteSpeedsKmh maps commute mode to an assumed travel speed.
	CommuteSpeedsKmh map[CommuteMode]float64

	Weights Weights
}

func DefaultConfig() Config {
	return Config{
		ExperienceCeilingMonths: 24,
		ExperienceFloor:         0.3,
		MinScore:                0.3,
		MMRLambda:               0.7,
		MMRThreshold:            0.1,
		ExplorePenalty:          0.8,
		BenefitsBaseline:        0.5,
		CommuteSpeedsKmh: map[CommuteMode]float64{
			CommuteCar:           50,
			CommutePublicTransit: 30,
			CommuteBike:          15,
			CommuteWalk:          5,
		},
		Weights: Weights{
			Skills:     0.30,
			Location:   0.25,
			Experience: 0.20,
			Salary:     0.15,
			Benefits:   0.10,
		},
	}
}

func (c Config) Validate() error {
	if c.ExperienceCeilingMonths < 0 {
		return fmt.Errorf("%w: experience ceiling must be >= 0", ErrInvalidInput)
	}
	if c.MMRLambda < 0 || c.MMRLambda > 1 {
		return fmt.Errorf("%w: mmr lambda must be in [0,1]", ErrInvalidInput)
	}
	if c.ExplorePenalty < 0 || c.ExplorePenalty > 1 {
		return fmt.Errorf("%w: explore penalty must be in [0,1]", ErrInvalidInput)
	}
	if s := c.Weights.Sum(); math.Abs(s-1.0) > 1e-9 {
		return fmt.Errorf("%w: subscore weights sum to %.6f, want 1.0", ErrInvalidInput, s)
	}
	return nil
}
