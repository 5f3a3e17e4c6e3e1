package app

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"talentmatch/internal/config"
	"talentmatch/internal/delivery/http/handler"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/delivery/http/routes"
	"talentmatch/internal/repository"
	"talentmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	candidateRepo := repository.NewPostgresCandidateRepository(c.DB)
	jobRepo := repository.NewPostgresJobRepository(c.DB)
	resultRepo := repository.NewRedisMatchResultRepository(c.Cache, c.Config.Redis.ResultTTL)

	matchingUC := usecase.NewMatchingUsecase(candidateRepo, jobRepo, resultRepo, usecase.MatchingOptions{
		Engine:       c.Config.Matching.Engine,
		DefaultLimit: c.Config.Matching.DefaultLimit,
		MaxLimit:     c.Config.Matching.MaxLimit,
		ScoreWorkers: c.Config.Matching.ScoreWorkers,
		Sampler:      rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:       c.Logger,
	})

	registry := routes.NewRegistry(handler.NewMatchHandler(matchingUC))
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
