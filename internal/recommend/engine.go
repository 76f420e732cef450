package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/venu1011/CineVault/internal/models"
	"github.com/venu1011/CineVault/internal/tmdb"
)

const (
	// MinWatchlistSize is the smallest watchlist that yields recommendations.
	MinWatchlistSize = 3

	// MaxRecommendations caps the returned list.
	MaxRecommendations = 8

	// minVoteCount filters out low-signal catalog entries.
	minVoteCount = 100
)

// Status classifies the outcome of a recommendation run.
type Status string

const (
	StatusSuccess       Status = "success"
	StatusNotEnoughData Status = "not-enough-data"
	StatusNoGenreData   Status = "no-genre-data"
	StatusError         Status = "error"
)

// BasedOn explains which preferences drove a successful recommendation run.
type BasedOn struct {
	TopGenre        string  `json:"top_genre"`
	SecondaryGenre  string  `json:"secondary_genre,omitempty"`
	PreferredRating float64 `json:"preferred_rating"`
	PreferRecent    bool    `json:"prefer_recent"`
}

// Result is the outcome of a recommendation run. Failures are reported as
// values: the discovery call's error ends up in Error with StatusError, never
// as a returned Go error.
type Result struct {
	Recommendations []models.Movie `json:"recommendations"`
	Status          Status         `json:"status"`
	BasedOn         *BasedOn       `json:"based_on,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// DiscoverFunc is the external catalog's discovery endpoint.
type DiscoverFunc func(ctx context.Context, params tmdb.DiscoverParams) (*models.MoviePage, error)

// GetPersonalizedRecommendations derives a taste profile from the watchlist,
// issues one discovery query shaped by it, and post-filters the response so
// nothing the user already tracks is recommended.
func GetPersonalizedRecommendations(ctx context.Context, watchlist, favorites []models.Movie, discover DiscoverFunc) Result {
	if len(watchlist) < MinWatchlistSize {
		return Result{Recommendations: []models.Movie{}, Status: StatusNotEnoughData}
	}

	affinity := AnalyzeGenreAffinity(watchlist)
	rating := AnalyzeRatingPreference(watchlist)
	year := AnalyzeYearPreference(watchlist)

	if len(affinity.TopGenres) == 0 {
		return Result{Recommendations: []models.Movie{}, Status: StatusNoGenreData}
	}

	// Both genres together mean "has at least one of", per the catalog's
	// comma-separated semantics.
	genres := []int{affinity.TopGenres[0].ID}
	if len(affinity.TopGenres) > 1 {
		genres = append(genres, affinity.TopGenres[1].ID)
	}

	minRating := 6.0
	if rating.PreferHighRated {
		minRating = 7.0
	}

	params := tmdb.DiscoverParams{
		WithGenres:     genres,
		SortBy:         "vote_average.desc",
		Page:           1,
		VoteCountGTE:   minVoteCount,
		VoteAverageGTE: minRating,
	}
	if year.PreferRecent {
		params.PrimaryReleaseYear = time.Now().Year()
	} else {
		params.PrimaryReleaseDateGTE = fmt.Sprintf("%04d-01-01", year.AverageYear-recentWindowYears)
	}

	page, err := discover(ctx, params)
	if err != nil {
		return Result{Recommendations: []models.Movie{}, Status: StatusError, Error: err.Error()}
	}

	// Never recommend what the user already tracks.
	known := make(map[int]struct{}, len(watchlist)+len(favorites))
	for _, m := range watchlist {
		known[m.ID] = struct{}{}
	}
	for _, m := range favorites {
		known[m.ID] = struct{}{}
	}

	recs := make([]models.Movie, 0, MaxRecommendations)
	for _, m := range page.Results {
		if _, ok := known[m.ID]; ok {
			continue
		}
		recs = append(recs, m)
		if len(recs) == MaxRecommendations {
			break
		}
	}

	basedOn := &BasedOn{
		TopGenre:        affinity.TopGenres[0].Name,
		PreferredRating: rating.AverageRating,
		PreferRecent:    year.PreferRecent,
	}
	if len(affinity.TopGenres) > 1 {
		basedOn.SecondaryGenre = affinity.TopGenres[1].Name
	}

	return Result{Recommendations: recs, Status: StatusSuccess, BasedOn: basedOn}
}

// Explanation renders the justification as a short human-readable sentence.
func Explanation(basedOn *BasedOn) string {
	if basedOn == nil {
		return "Recommended for you"
	}

	var parts []string
	if basedOn.TopGenre != "" {
		parts = append(parts, fmt.Sprintf("you love %s", basedOn.TopGenre))
	}
	if basedOn.SecondaryGenre != "" {
		parts = append(parts, fmt.Sprintf("%s movies", basedOn.SecondaryGenre))
	}
	if basedOn.PreferRecent {
		parts = append(parts, "recent releases")
	}

	if len(parts) == 0 {
		return "Based on your watchlist"
	}
	return "Because " + strings.Join(parts, " and ")
}
