package repository

import (
	"context"
	"database/sql"
	"errors"

	"talentmatch/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
)

type Candidate struct {
	ID                uuid.UUID
	Embedding         []float64
	HomeLat           float64
	HomeLng           float64
	CommuteMode       string
	MaxCommuteMinutes int
	RelocationWilling bool
	RelocationCities  []string
	Stage             string
	ExpectedSalary    *float64
}

type CandidateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (Candidate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id,
		        COALESCE(embedding, '{}'),
		        home_lat,
		        home_lng,
		        COALESCE(commute_mode, ''),
		        COALESCE(max_commute_minutes, 0),
		        COALESCE(relocation_willing, FALSE),
		        COALESCE(relocation_cities, '{}'),
		        COALESCE(stage, ''),
		        expected_salary
		 FROM candidates
		 WHERE id = $1`,
		id,
	)

	var c Candidate
	if err := row.Scan(
		&c.ID,
		&c.Embedding,
		&c.HomeLat,
		&c.HomeLng,
		&c.CommuteMode,
		&c.MaxCommuteMinutes,
		&c.RelocationWilling,
		&c.RelocationCities,
		&c.Stage,
		&c.ExpectedSalary,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrCandidateNotFound
		}
		return Candidate{}, err
	}
	return c, nil
}
