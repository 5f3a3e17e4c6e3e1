package routes

import (
	"talentmatch/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	match  *handler.MatchHandler
}

func NewRegistry(match *handler.MatchHandler) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(),
		match:  match,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	r.match.RegisterRoutes(v1)
}
