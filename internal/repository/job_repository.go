package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"talentmatch/internal/database"

	"github.com/google/uuid"
)

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
	Locations           []JobLocation
}

type JobLocation struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city"`
	Address string  `json:"address"`
}

type JobRepository interface {
	ListActiveJobs(ctx context.Context) ([]Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) ListActiveJobs(ctx context.Context) ([]Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id,
		        company_id,
		        COALESCE(title, ''),
		        COALESCE(description, ''),
		        COALESCE(track, ''),
		        COALESCE(contract_type, ''),
		        COALESCE(remote, FALSE),
		        salary_min,
		        salary_max,
		        COALESCE(min_experience_months, 0),
		        COALESCE(benefits, '{}'),
		        COALESCE(embedding, '{}'),
		        COALESCE(locations, '[]'::jsonb)
		 FROM jobs
		 WHERE active = TRUE
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		var j Job
		var locations []byte
		if err := rows.Scan(
			&j.ID,
			&j.CompanyID,
			&j.Title,
			&j.Description,
			&j.Track,
			&j.ContractType,
			&j.Remote,
			&j.SalaryMin,
			&j.SalaryMax,
			&j.MinExperienceMonths,
			&j.Benefits,
			&j.Embedding,
			&locations,
		); err != nil {
			return nil, err
		}
		if len(locations) > 0 {
			if err := json.Unmarshal(locations, &j.Locations); err != nil {
				return nil, fmt.Errorf("job %s locations: %w", j.ID, err)
			}
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
