package handler

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts the full API surface under /api/v1.
func RegisterRoutes(app *fiber.App, movies *MovieHandler, prefs *PreferenceHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", movies.Health)

	api.Get("/movies/trending", movies.Trending)
	api.Get("/movies/popular", movies.Popular)
	api.Get("/movies/top-rated", movies.TopRated)
	api.Get("/movies/now-playing", movies.NowPlaying)
	api.Get("/movies/upcoming", movies.Upcoming)
	api.Get("/movies/search", movies.Search)
	api.Get("/movies/:id", movies.MovieDetail)
	api.Get("/genres", movies.Genres)

	api.Get("/watchlist", prefs.GetWatchlist)
	api.Post("/watchlist", prefs.AddToWatchlist)
	api.Delete("/watchlist/:id", prefs.RemoveFromWatchlist)

	api.Get("/favorites", prefs.GetFavorites)
	api.Post("/favorites", prefs.AddToFavorites)
	api.Delete("/favorites/:id", prefs.RemoveFromFavorites)

	api.Get("/watched", prefs.GetAlreadyWatched)
	api.Post("/watched", prefs.AddToAlreadyWatched)
	api.Delete("/watched/:id", prefs.RemoveFromAlreadyWatched)

	api.Get("/recently-viewed", prefs.GetRecentlyViewed)

	api.Put("/ratings/:id", prefs.SetRating)
	api.Get("/ratings/:id", prefs.GetRating)

	api.Get("/recommendations", movies.Recommendations)
	api.Get("/profile", movies.Profile)

	api.Get("/theme", prefs.GetTheme)
	api.Put("/theme", prefs.SetTheme)
}
