package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venu1011/CineVault/internal/models"
)

func TestAnalyzeGenreAffinityEmpty(t *testing.T) {
	affinity := AnalyzeGenreAffinity(nil)
	assert.Empty(t, affinity.TopGenres)
	assert.Empty(t, affinity.Distribution)
	assert.Zero(t, affinity.TotalMovies)
}

func TestAnalyzeGenreAffinity(t *testing.T) {
	watchlist := []models.Movie{
		{ID: 1, GenreIDs: []int{28, 53}},
		{ID: 2, GenreIDs: []int{28, 18}},
		{ID: 3, GenreIDs: []int{28}},
		{ID: 4, GenreIDs: []int{53}},
	}

	affinity := AnalyzeGenreAffinity(watchlist)
	require.Len(t, affinity.TopGenres, 3)
	assert.Equal(t, 4, affinity.TotalMovies)

	top := affinity.TopGenres[0]
	assert.Equal(t, 28, top.ID)
	assert.Equal(t, "Action", top.Name)
	assert.Equal(t, 3, top.Count)
	// Share of the 6 genre tags, not of the 4 movies.
	assert.Equal(t, 50, top.Percentage)

	assert.Equal(t, 53, affinity.TopGenres[1].ID)
	assert.Equal(t, 18, affinity.TopGenres[2].ID)
}

func TestAnalyzeGenreAffinityTieBreak(t *testing.T) {
	// 35 and 27 both appear twice; 35 is encountered first and must rank first.
	watchlist := []models.Movie{
		{ID: 1, GenreIDs: []int{35, 27}},
		{ID: 2, GenreIDs: []int{35, 27}},
	}

	affinity := AnalyzeGenreAffinity(watchlist)
	require.Len(t, affinity.Distribution, 2)
	assert.Equal(t, 35, affinity.Distribution[0].ID)
	assert.Equal(t, 27, affinity.Distribution[1].ID)
}

func TestAnalyzeGenreAffinityNoTags(t *testing.T) {
	watchlist := []models.Movie{{ID: 1}, {ID: 2}}
	affinity := AnalyzeGenreAffinity(watchlist)
	assert.Empty(t, affinity.TopGenres)
}

func TestAnalyzeRatingPreference(t *testing.T) {
	watchlist := []models.Movie{
		{ID: 1, VoteAverage: 9},
		{ID: 2, VoteAverage: 8},
		{ID: 3, VoteAverage: 7},
		{ID: 4}, // unrated, ignored
	}

	pref := AnalyzeRatingPreference(watchlist)
	assert.InDelta(t, 8.0, pref.AverageRating, 0.01)
	assert.True(t, pref.PreferHighRated)
	assert.Equal(t, 7.0, pref.MinRating)
	assert.Equal(t, 9.0, pref.MaxRating)
}

func TestAnalyzeRatingPreferenceLow(t *testing.T) {
	watchlist := []models.Movie{
		{ID: 1, VoteAverage: 5.5},
		{ID: 2, VoteAverage: 6.0},
	}

	pref := AnalyzeRatingPreference(watchlist)
	assert.False(t, pref.PreferHighRated)
}

func TestAnalyzeRatingPreferenceAllUnrated(t *testing.T) {
	pref := AnalyzeRatingPreference([]models.Movie{{ID: 1}, {ID: 2}})
	assert.Zero(t, pref.AverageRating)
	assert.False(t, pref.PreferHighRated)

	pref = AnalyzeRatingPreference(nil)
	assert.Zero(t, pref.AverageRating)
	assert.False(t, pref.PreferHighRated)
}

func TestAnalyzeYearPreference(t *testing.T) {
	currentYear := time.Now().Year()
	watchlist := []models.Movie{
		{ID: 1, ReleaseDate: "2001-05-01"},
		{ID: 2, ReleaseDate: "2003-05-01"},
		{ID: 3, ReleaseDate: "garbage"}, // unparseable, excluded from the mean
	}

	pref := AnalyzeYearPreference(watchlist)
	assert.Equal(t, 2002, pref.AverageYear)
	assert.False(t, pref.PreferRecent)
	assert.Equal(t, 2001, pref.OldestYear)
	assert.Equal(t, 2003, pref.NewestYear)

	recent := AnalyzeYearPreference([]models.Movie{
		{ID: 1, ReleaseDate: "2024-01-01"},
		{ID: 2, ReleaseDate: "2025-01-01"},
	})
	assert.True(t, recent.AverageYear >= currentYear-recentWindowYears)
	assert.True(t, recent.PreferRecent)
}

func TestAnalyzeYearPreferenceNoDates(t *testing.T) {
	pref := AnalyzeYearPreference([]models.Movie{{ID: 1}})
	assert.Equal(t, time.Now().Year(), pref.AverageYear)
	assert.True(t, pref.PreferRecent)
}

func TestProfile(t *testing.T) {
	watchlist := []models.Movie{
		{ID: 1, GenreIDs: []int{28}, VoteAverage: 8, ReleaseDate: "2024-01-01"},
		{ID: 2, GenreIDs: []int{28}, VoteAverage: 7, ReleaseDate: "2024-01-01"},
	}
	favorites := []models.Movie{{ID: 3}}

	profile := Profile(watchlist, favorites)
	assert.Equal(t, 2, profile.TotalMovies)
	assert.Equal(t, 1, profile.TotalFavorites)
	assert.False(t, profile.HasEnoughData)

	watchlist = append(watchlist, models.Movie{ID: 4, GenreIDs: []int{53}})
	profile = Profile(watchlist, favorites)
	assert.True(t, profile.HasEnoughData)
	assert.Equal(t, 28, profile.GenreAffinity.TopGenres[0].ID)
}
