package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/venu1011/CineVault/internal/models"
	"github.com/venu1011/CineVault/internal/store"
)

// PreferenceHandler handles HTTP requests for the user's personal lists,
// ratings and theme.
type PreferenceHandler struct {
	store *store.Store
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(st *store.Store) *PreferenceHandler {
	return &PreferenceHandler{store: st}
}

// persistWarning is set on responses whose in-memory mutation succeeded but
// whose storage write failed. The mutation stands for the session.
const persistWarning = "state updated but could not be persisted"

// GetWatchlist returns the watchlist.
func (h *PreferenceHandler) GetWatchlist(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"watchlist": h.store.Watchlist()})
}

// AddToWatchlist inserts a movie into the watchlist.
func (h *PreferenceHandler) AddToWatchlist(c fiber.Ctx) error {
	return h.addMovie(c, h.store.AddToWatchlist)
}

// RemoveFromWatchlist removes a movie from the watchlist.
func (h *PreferenceHandler) RemoveFromWatchlist(c fiber.Ctx) error {
	return h.removeMovie(c, h.store.RemoveFromWatchlist)
}

// GetFavorites returns the favorites list.
func (h *PreferenceHandler) GetFavorites(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"favorites": h.store.Favorites()})
}

// AddToFavorites inserts a movie into favorites.
func (h *PreferenceHandler) AddToFavorites(c fiber.Ctx) error {
	return h.addMovie(c, h.store.AddToFavorites)
}

// RemoveFromFavorites removes a movie from favorites.
func (h *PreferenceHandler) RemoveFromFavorites(c fiber.Ctx) error {
	return h.removeMovie(c, h.store.RemoveFromFavorites)
}

// GetAlreadyWatched returns the already-watched list, most recent first.
func (h *PreferenceHandler) GetAlreadyWatched(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"alreadyWatched": h.store.AlreadyWatched()})
}

// AddToAlreadyWatched marks a movie as watched.
func (h *PreferenceHandler) AddToAlreadyWatched(c fiber.Ctx) error {
	return h.addMovie(c, h.store.AddToAlreadyWatched)
}

// RemoveFromAlreadyWatched unmarks a movie as watched.
func (h *PreferenceHandler) RemoveFromAlreadyWatched(c fiber.Ctx) error {
	return h.removeMovie(c, h.store.RemoveFromAlreadyWatched)
}

// GetRecentlyViewed returns the recently-viewed list, most recent first.
func (h *PreferenceHandler) GetRecentlyViewed(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"recentlyViewed": h.store.RecentlyViewed()})
}

// SetRating records a 1-5 star rating for a movie.
func (h *PreferenceHandler) SetRating(c fiber.Ctx) error {
	id := fiber.Params[int](c, "id")
	if id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp := fiber.Map{"id": id}
	if err := h.store.SetRating(id, req.Rating); err != nil {
		slog.Warn("rating persisted in memory only", "movie_id", id, "error", err)
		resp["warning"] = persistWarning
	}
	resp["rating"] = h.store.GetRating(id)
	return c.JSON(resp)
}

// GetRating returns the user's rating for a movie; 0 means unrated.
func (h *PreferenceHandler) GetRating(c fiber.Ctx) error {
	id := fiber.Params[int](c, "id")
	if id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}
	return c.JSON(fiber.Map{"id": id, "rating": h.store.GetRating(id)})
}

// GetTheme returns the persisted UI theme.
func (h *PreferenceHandler) GetTheme(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": h.store.Theme()})
}

// SetTheme persists the UI theme.
func (h *PreferenceHandler) SetTheme(c fiber.Ctx) error {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp := fiber.Map{}
	if err := h.store.SetTheme(req.Theme); err != nil {
		if errors.Is(err, store.ErrInvalidTheme) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		// Persist failure: the in-memory mutation stands.
		slog.Warn("theme persisted in memory only", "error", err)
		resp["warning"] = persistWarning
	}
	resp["theme"] = h.store.Theme()
	return c.JSON(resp)
}

// ---- shared plumbing ----

func (h *PreferenceHandler) addMovie(c fiber.Ctx, add func(models.Movie) (bool, error)) error {
	var movie models.Movie
	if err := c.Bind().JSON(&movie); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if movie.ID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "movie id is required"})
	}

	added, err := add(movie)
	resp := fiber.Map{"id": movie.ID, "added": added}
	if err != nil {
		slog.Warn("preference persisted in memory only", "movie_id", movie.ID, "error", err)
		resp["warning"] = persistWarning
	}

	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}

func (h *PreferenceHandler) removeMovie(c fiber.Ctx, remove func(int) error) error {
	id := fiber.Params[int](c, "id")
	if id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	resp := fiber.Map{"id": id, "removed": true}
	if err := remove(id); err != nil {
		slog.Warn("preference persisted in memory only", "movie_id", id, "error", err)
		resp["warning"] = persistWarning
	}
	return c.JSON(resp)
}
