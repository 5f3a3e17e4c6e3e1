package matching

import "github.com/google/uuid"

// Stage is a candidate's lifecycle stage. Inactive candidates are
// permanently excluded from matching until the stage changes upstream.
type Stage string

const (
	StageAvailable Stage = "available"
	StageEngaged   Stage = "engaged"
	StagePaused    Stage = "paused"
	StageInactive  Stage = "inactive"
)

// CommuteMode determines the assumed travel speed when converting a
// candidate's maximum commute minutes into a distance radius.
type CommuteMode string

const (
	CommuteCar           CommuteMode = "car"
	CommutePublicTransit CommuteMode = "public_transit"
	CommuteBike          CommuteMode = "bike"
	CommuteWalk          CommuteMode = "walk"
)

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

type Candidate struct {
	ID                uuid.UUID
	Embedding         []float64
	Home              Point
	CommuteMode       CommuteMode
	MaxCommuteMinutes int
	RelocationWilling bool
	RelocationCities  []string
	Stage             Stage

	// ExpectedSalary is not populated by any current caller; it is the
	// hook for band-overlap salary scoring when an upstream preference
	// model exists.
	ExpectedSalary *float64
}

type Location struct {
	Point   Point
	City    string
	Address string
}

type Job struct {
	ID                  uuid.UUID
	CompanyID           uuid.UUID
	Title               string
	Description         string
	Track               string
	ContractType        string
	Remote              bool
	SalaryMin           *float64
	SalaryMax           *float64
	MinExperienceMonths int
	Benefits            []string
	Embedding           []float64
	Locations           []Location
	Active              bool
}

// Explanation carries the overall score plus every named subscore so a
// presentation layer can show why a job was matched.
type Explanation struct {
	Overall    float64
	Skills     float64
	Location   float64
	Experience float64
	Salary     float64
	Benefits   float64
}

// Result is one scored (candidate, job) pair. Explore marks a
// discovery pick rather than a ranked pick.
type Result struct {
	CandidateID uuid.UUID
	JobID       uuid.UUID
	Score       float64
	Explanation Explanation
	Explore     bool
}
