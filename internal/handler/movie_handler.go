package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/venu1011/CineVault/internal/models"
	"github.com/venu1011/CineVault/internal/recommend"
	"github.com/venu1011/CineVault/internal/service"
)

// MovieHandler handles HTTP requests for the catalog and recommendations.
type MovieHandler struct {
	svc *service.DiscoveryService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.DiscoveryService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "cinevault",
	})
}

// Trending returns trending movies.
func (h *MovieHandler) Trending(c fiber.Ctx) error {
	window := c.Query("window", "week")
	page, err := h.svc.Trending(c.Context(), window)
	if err != nil {
		slog.Error("failed to fetch trending movies", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "failed to fetch trending movies"})
	}
	return c.JSON(page)
}

// Popular returns popular movies.
func (h *MovieHandler) Popular(c fiber.Ctx) error {
	return h.listPage(c, h.svc.Popular, "failed to fetch popular movies")
}

// TopRated returns top-rated movies.
func (h *MovieHandler) TopRated(c fiber.Ctx) error {
	return h.listPage(c, h.svc.TopRated, "failed to fetch top rated movies")
}

// NowPlaying returns movies currently in theaters.
func (h *MovieHandler) NowPlaying(c fiber.Ctx) error {
	return h.listPage(c, h.svc.NowPlaying, "failed to fetch now playing movies")
}

// Upcoming returns upcoming movies.
func (h *MovieHandler) Upcoming(c fiber.Ctx) error {
	return h.listPage(c, h.svc.Upcoming, "failed to fetch upcoming movies")
}

// Search runs a free-text movie search.
func (h *MovieHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query parameter is required"})
	}
	page := fiber.Query(c, "page", 1)

	result, err := h.svc.Search(c.Context(), query, page)
	if err != nil {
		slog.Error("failed to search movies", "query", query, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "failed to search movies"})
	}
	return c.JSON(result)
}

// MovieDetail returns detailed info for one movie and records the view.
func (h *MovieHandler) MovieDetail(c fiber.Ctx) error {
	id := fiber.Params[int](c, "id")
	if id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	detail, err := h.svc.MovieDetail(c.Context(), id)
	if err != nil {
		slog.Error("failed to fetch movie detail", "movie_id", id, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "failed to fetch movie detail"})
	}
	return c.JSON(detail)
}

// Genres returns the movie genre list.
func (h *MovieHandler) Genres(c fiber.Ctx) error {
	genres, err := h.svc.Genres(c.Context())
	if err != nil {
		slog.Error("failed to fetch genres", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "failed to fetch genres"})
	}
	return c.JSON(fiber.Map{"genres": genres})
}

// Recommendations returns the personalized recommendation result. Shortfall
// statuses (not-enough-data, no-genre-data) are 200 responses: they are
// designed outcomes, not errors.
func (h *MovieHandler) Recommendations(c fiber.Ctx) error {
	result := h.svc.Recommendations(c.Context())
	resp := fiber.Map{
		"recommendations": result.Recommendations,
		"status":          result.Status,
		"explanation":     recommend.Explanation(result.BasedOn),
	}
	if result.BasedOn != nil {
		resp["based_on"] = result.BasedOn
	}
	if result.Error != "" {
		resp["error"] = result.Error
	}
	return c.JSON(resp)
}

// Profile returns the user's taste-profile summary.
func (h *MovieHandler) Profile(c fiber.Ctx) error {
	return c.JSON(h.svc.Profile())
}

func (h *MovieHandler) listPage(c fiber.Ctx, fetch func(ctx context.Context, page int) (*models.MoviePage, error), errMsg string) error {
	page := fiber.Query(c, "page", 1)
	result, err := fetch(c.Context(), page)
	if err != nil {
		slog.Error(errMsg, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: errMsg})
	}
	return c.JSON(result)
}
