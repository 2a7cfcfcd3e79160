// Package server wires the aggregation pipeline behind a Fiber HTTP API.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/pfrederiksen/macrocal/internal/metrics"
)

// Register mounts all routes on the app.
func Register(app *fiber.App, h *Handler) {
	api := app.Group("/api/v1")
	api.Post("/scrape", h.Scrape)
	api.Get("/scrape/quick", h.QuickScrape)
	api.Get("/sessions", h.Sessions)
	api.Get("/health", h.Health)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}
