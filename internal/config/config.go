package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"talentmatch/internal/domain/matching"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Matching MatchingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
	Debug       bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int

	// ResultTTL bounds how long a cached match result lives before it
	// ages out; overwritten entries reset it.
	ResultTTL time.Duration
}

// MatchingConfig carries the engine tunables plus orchestration knobs.
// Defaults reproduce the shipped behavior; every value can be
// overridden through MATCH_* environment variables.
type MatchingConfig struct {
	Engine       matching.Config
	DefaultLimit int
	MaxLimit     int
	ScoreWorkers int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     optBool("LOG_JSON", false),
		Debug:       optBool("LOG_DEBUG", false),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST"),
		DBPort:         opt("DB_PORT"),
		DBName:         opt("DB_NAME"),
		DBUser:         opt("DB_USER"),
		DBPassword:     opt("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE"),
		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT_SECONDS", 5*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:   int32(optInt("DB_POOL_MIN_CONNS", 0)),
	}

	cfg.Redis = RedisConfig{
		Host:      opt("REDIS_HOST"),
		Port:      opt("REDIS_PORT"),
		Password:  opt("REDIS_PASSWORD"),
		DB:        optInt("REDIS_DB", 0),
		ResultTTL: optDuration("MATCH_RESULT_TTL_SECONDS", 24*time.Hour),
	}

	engine := matching.DefaultConfig()
	engine.ExperienceCeilingMonths = optInt("MATCH_EXPERIENCE_CEILING_MONTHS", engine.ExperienceCeilingMonths)
	engine.ExperienceFloor = optFloat("MATCH_EXPERIENCE_FLOOR", engine.ExperienceFloor)
	engine.MinScore = optFloat("MATCH_MIN_SCORE", engine.MinScore)
	engine.MMRLambda = optFloat("MATCH_MMR_LAMBDA", engine.MMRLambda)
	engine.MMRThreshold = optFloat("MATCH_MMR_THRESHOLD", engine.MMRThreshold)
	engine.ExplorePenalty = optFloat("MATCH_EXPLORE_PENALTY", engine.ExplorePenalty)
	engine.BenefitsBaseline = optFloat("MATCH_BENEFITS_BASELINE", engine.BenefitsBaseline)
	engine.Weights.Skills = optFloat("MATCH_WEIGHT_SKILLS", engine.Weights.Skills)
	engine.Weights.Location = optFloat("MATCH_WEIGHT_LOCATION", engine.Weights.Location)
	engine.Weights.Experience = optFloat("MATCH_WEIGHT_EXPERIENCE", engine.Weights.Experience)
	engine.Weights.Salary = optFloat("MATCH_WEIGHT_SALARY", engine.Weights.Salary)
	engine.Weights.Benefits = optFloat("MATCH_WEIGHT_BENEFITS", engine.Weights.Benefits)

	cfg.Matching = MatchingConfig{
		Engine:       engine,
		DefaultLimit: optInt("MATCH_DEFAULT_LIMIT", 20),
		MaxLimit:     optInt("MATCH_MAX_LIMIT", 100),
		ScoreWorkers: optInt("MATCH_SCORE_WORKERS", 8),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if err := engine.Validate(); err != nil {
		return Config{}, fmt.Errorf("matching config: %w", err)
	}

	return cfg, nil
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func optBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
