package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pfrederiksen/macrocal/internal/aggregator"
	"github.com/pfrederiksen/macrocal/internal/logger"
	"github.com/pfrederiksen/macrocal/internal/session"
)

// Runner executes scrape requests, satisfied by *aggregator.Aggregator.
type Runner interface {
	Run(ctx context.Context, req aggregator.Request) (*aggregator.Result, error)
}

// Handler maps HTTP requests onto the aggregation pipeline.
type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// Scrape handles POST /api/v1/scrape.
func (h *Handler) Scrape(c *fiber.Ctx) error {
	var req ScrapeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}
	return h.run(c, req)
}

// QuickScrape handles GET /api/v1/scrape/quick with query parameters for a
// single week: year, week, and optional comma-separated impact/pairs/sessions.
func (h *Handler) QuickScrape(c *fiber.Ctx) error {
	req := ScrapeRequest{
		Year:   c.QueryInt("year"),
		Format: string(aggregator.FormatWeekly),
	}
	if week := c.QueryInt("week"); week != 0 {
		req.Weeks = []int{week}
	}

	impact := splitParam(c.Query("impact"))
	pairs := splitParam(c.Query("pairs"))
	sessions := splitParam(c.Query("sessions"))
	keyword := c.Query("keyword")
	if len(impact) > 0 || len(pairs) > 0 || len(sessions) > 0 || keyword != "" {
		req.Filters = &FilterParams{
			Impact:   impact,
			Pairs:    pairs,
			Sessions: sessions,
			Keyword:  keyword,
		}
	}

	return h.run(c, req)
}

// run executes a normalized scrape request and writes the response envelope.
func (h *Handler) run(c *fiber.Ctx, req ScrapeRequest) error {
	if req.Format == "" {
		req.Format = string(aggregator.FormatWeekly)
	}

	if req.Filters != nil {
		for _, name := range req.Filters.Sessions {
			if !session.Valid(name) {
				return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
					Error:   "validation_error",
					Message: "unknown session: " + name,
				})
			}
		}
	}

	started := time.Now()
	result, err := h.runner.Run(c.UserContext(), aggregator.Request{
		Year:    req.Year,
		Weeks:   req.Weeks,
		Day:     req.Day,
		Filters: req.Filters.Spec(),
		Format:  aggregator.Format(req.Format),
	})
	if err != nil {
		var verr *aggregator.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation_error",
				Message: verr.Error(),
			})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return c.Status(http.StatusGatewayTimeout).JSON(ErrorResponse{
				Error: "request_cancelled",
			})
		default:
			logger.Error("scrape request failed", logger.Fields{"path": c.Path()}, err)
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.JSON(ScrapeResponse{
		Success:        true,
		Data:           result.Groups,
		TotalEvents:    result.Total,
		WeeksScraped:   result.Weeks,
		Partial:        result.Partial,
		FiltersApplied: req.Filters,
		ExecutionTime:  time.Since(started).Seconds(),
	})
}

// Sessions handles GET /api/v1/sessions with the static session table.
func (h *Handler) Sessions(c *fiber.Ctx) error {
	return c.JSON(SessionsResponse{Sessions: session.Table})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Service: "economic-calendar-scraper",
	})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
