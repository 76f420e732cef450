// Package recommend derives a taste profile from the user's lists and turns
// it into personalized discovery queries against the movie catalog.
package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/venu1011/CineVault/internal/models"
)

// recentWindowYears is how far back a mean release year may sit while still
// counting as a preference for recent releases.
const recentWindowYears = 5

// GenreStat is one genre's share of the watchlist's genre tags.
type GenreStat struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// GenreAffinity summarizes which genres dominate the watchlist.
type GenreAffinity struct {
	TopGenres    []GenreStat `json:"top_genres"`
	Distribution []GenreStat `json:"distribution"`
	TotalMovies  int         `json:"total_movies"`
}

// RatingPreference summarizes the watchlist's catalog-rating pattern.
type RatingPreference struct {
	AverageRating   float64 `json:"average_rating"`
	PreferHighRated bool    `json:"prefer_high_rated"`
	MinRating       float64 `json:"min_rating"`
	MaxRating       float64 `json:"max_rating"`
}

// YearPreference summarizes the watchlist's release-year pattern.
type YearPreference struct {
	AverageYear  int  `json:"average_year"`
	PreferRecent bool `json:"prefer_recent"`
	OldestYear   int  `json:"oldest_year"`
	NewestYear   int  `json:"newest_year"`
}

// TasteProfile is the full derived profile. It is recomputed on demand and
// never persisted.
type TasteProfile struct {
	TotalMovies      int              `json:"total_movies"`
	TotalFavorites   int              `json:"total_favorites"`
	GenreAffinity    GenreAffinity    `json:"genre_affinity"`
	RatingPreference RatingPreference `json:"rating_preference"`
	YearPreference   YearPreference   `json:"year_preference"`
	HasEnoughData    bool             `json:"has_enough_data"`
}

// AnalyzeGenreAffinity counts genre-tag occurrences across the watchlist. A
// multi-genre movie contributes one count per genre it carries; percentages
// are shares of the total tag count, not of the movie count. Genres are
// ranked by count descending with ties broken by first-encountered order,
// and the top 3 become the "top genres". An empty watchlist yields an empty
// result.
func AnalyzeGenreAffinity(watchlist []models.Movie) GenreAffinity {
	if len(watchlist) == 0 {
		return GenreAffinity{TopGenres: []GenreStat{}, Distribution: []GenreStat{}}
	}

	counts := make(map[int]int)
	order := make([]int, 0)
	total := 0
	for _, m := range watchlist {
		for _, id := range m.GenreIDs {
			if counts[id] == 0 {
				order = append(order, id)
			}
			counts[id]++
			total++
		}
	}

	dist := make([]GenreStat, 0, len(order))
	for _, id := range order {
		dist = append(dist, GenreStat{
			ID:         id,
			Name:       models.GenreName(id),
			Count:      counts[id],
			Percentage: int(math.Round(float64(counts[id]) / float64(total) * 100)),
		})
	}
	sort.SliceStable(dist, func(i, j int) bool { return dist[i].Count > dist[j].Count })

	top := dist
	if len(top) > 3 {
		top = top[:3]
	}

	return GenreAffinity{
		TopGenres:    top,
		Distribution: dist,
		TotalMovies:  len(watchlist),
	}
}

// AnalyzeRatingPreference computes the mean catalog rating across watchlist
// entries that carry one. Entries without a rating are ignored; an empty or
// all-unrated watchlist yields a zero mean and no high-rated preference.
func AnalyzeRatingPreference(watchlist []models.Movie) RatingPreference {
	var ratings []float64
	for _, m := range watchlist {
		if m.VoteAverage > 0 {
			ratings = append(ratings, m.VoteAverage)
		}
	}
	if len(ratings) == 0 {
		return RatingPreference{}
	}

	sum := 0.0
	min, max := ratings[0], ratings[0]
	for _, r := range ratings {
		sum += r
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	avg := sum / float64(len(ratings))

	return RatingPreference{
		AverageRating:   math.Round(avg*10) / 10,
		PreferHighRated: avg >= 7.0,
		MinRating:       min,
		MaxRating:       max,
	}
}

// AnalyzeYearPreference computes the mean release year across watchlist
// entries with a parseable release date. With no usable years the current
// year is assumed and treated as a preference for recent releases.
func AnalyzeYearPreference(watchlist []models.Movie) YearPreference {
	currentYear := time.Now().Year()

	var years []int
	for _, m := range watchlist {
		if y := m.Year(); y > 0 {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return YearPreference{AverageYear: currentYear, PreferRecent: true}
	}

	sum := 0
	oldest, newest := years[0], years[0]
	for _, y := range years {
		sum += y
		if y < oldest {
			oldest = y
		}
		if y > newest {
			newest = y
		}
	}
	avg := int(math.Round(float64(sum) / float64(len(years))))

	return YearPreference{
		AverageYear:  avg,
		PreferRecent: avg >= currentYear-recentWindowYears,
		OldestYear:   oldest,
		NewestYear:   newest,
	}
}

// Profile computes the full taste profile for the given lists.
func Profile(watchlist, favorites []models.Movie) TasteProfile {
	return TasteProfile{
		TotalMovies:      len(watchlist),
		TotalFavorites:   len(favorites),
		GenreAffinity:    AnalyzeGenreAffinity(watchlist),
		RatingPreference: AnalyzeRatingPreference(watchlist),
		YearPreference:   AnalyzeYearPreference(watchlist),
		HasEnoughData:    len(watchlist) >= MinWatchlistSize,
	}
}
