package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venu1011/CineVault/internal/models"
	"github.com/venu1011/CineVault/internal/tmdb"
)

// fakeDiscover records calls and serves a canned page.
type fakeDiscover struct {
	calls  int
	params tmdb.DiscoverParams
	page   *models.MoviePage
	err    error
}

func (f *fakeDiscover) fn(_ context.Context, params tmdb.DiscoverParams) (*models.MoviePage, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func actionMovie(id int, rating float64) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       fmt.Sprintf("Movie %d", id),
		GenreIDs:    []int{28},
		VoteAverage: rating,
		ReleaseDate: fmt.Sprintf("%d-03-01", time.Now().Year()),
	}
}

func TestNotEnoughData(t *testing.T) {
	discover := &fakeDiscover{}

	result := GetPersonalizedRecommendations(context.Background(),
		[]models.Movie{actionMovie(1, 8), actionMovie(2, 7)}, nil, discover.fn)

	assert.Equal(t, StatusNotEnoughData, result.Status)
	assert.Empty(t, result.Recommendations)
	// The discovery collaborator must not be invoked at all.
	assert.Zero(t, discover.calls)
}

func TestNoGenreData(t *testing.T) {
	discover := &fakeDiscover{}
	watchlist := []models.Movie{{ID: 1}, {ID: 2}, {ID: 3}}

	result := GetPersonalizedRecommendations(context.Background(), watchlist, nil, discover.fn)

	assert.Equal(t, StatusNoGenreData, result.Status)
	assert.Empty(t, result.Recommendations)
	assert.Zero(t, discover.calls)
}

func TestDiscoverParamsFromProfile(t *testing.T) {
	watchlist := []models.Movie{
		actionMovie(1, 9),
		actionMovie(2, 8),
		actionMovie(3, 7),
	}
	discover := &fakeDiscover{page: &models.MoviePage{Results: []models.Movie{
		actionMovie(1, 8), // already in the watchlist, must be filtered
		actionMovie(50, 8),
		actionMovie(51, 7.5),
	}}}

	result := GetPersonalizedRecommendations(context.Background(), watchlist, nil, discover.fn)

	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, discover.calls)

	params := discover.params
	assert.Equal(t, []int{28}, params.WithGenres)
	assert.Equal(t, "vote_average.desc", params.SortBy)
	assert.Equal(t, 100, params.VoteCountGTE)
	// Mean rating 8.0 => high-rated preference => 7.0 floor.
	assert.Equal(t, 7.0, params.VoteAverageGTE)
	// All releases this year => recent preference => current-year constraint.
	assert.Equal(t, time.Now().Year(), params.PrimaryReleaseYear)
	assert.Empty(t, params.PrimaryReleaseDateGTE)

	ids := make([]int, 0, len(result.Recommendations))
	for _, m := range result.Recommendations {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{50, 51}, ids)

	require.NotNil(t, result.BasedOn)
	assert.Equal(t, "Action", result.BasedOn.TopGenre)
	assert.Empty(t, result.BasedOn.SecondaryGenre)
	assert.True(t, result.BasedOn.PreferRecent)
	assert.InDelta(t, 8.0, result.BasedOn.PreferredRating, 0.01)
}

func TestSecondaryGenreAndOlderTaste(t *testing.T) {
	watchlist := []models.Movie{
		{ID: 1, GenreIDs: []int{18, 10749}, VoteAverage: 6.1, ReleaseDate: "1998-01-01"},
		{ID: 2, GenreIDs: []int{18}, VoteAverage: 6.0, ReleaseDate: "2000-01-01"},
		{ID: 3, GenreIDs: []int{18, 10749}, VoteAverage: 5.9, ReleaseDate: "2002-01-01"},
	}
	discover := &fakeDiscover{page: &models.MoviePage{}}

	result := GetPersonalizedRecommendations(context.Background(), watchlist, nil, discover.fn)
	require.Equal(t, StatusSuccess, result.Status)

	params := discover.params
	// Primary and secondary genres are passed together ("at least one of").
	assert.Equal(t, []int{18, 10749}, params.WithGenres)
	// Mean rating 6.0 => relaxed floor.
	assert.Equal(t, 6.0, params.VoteAverageGTE)
	// Mean year 2000 is not recent => releases no older than mean-5.
	assert.Zero(t, params.PrimaryReleaseYear)
	assert.Equal(t, "1995-01-01", params.PrimaryReleaseDateGTE)

	assert.Equal(t, "Drama", result.BasedOn.TopGenre)
	assert.Equal(t, "Romance", result.BasedOn.SecondaryGenre)
	assert.False(t, result.BasedOn.PreferRecent)
}

func TestFavoritesAlsoFiltered(t *testing.T) {
	watchlist := []models.Movie{actionMovie(1, 8), actionMovie(2, 8), actionMovie(3, 8)}
	favorites := []models.Movie{actionMovie(60, 8)}
	discover := &fakeDiscover{page: &models.MoviePage{Results: []models.Movie{
		actionMovie(60, 8),
		actionMovie(61, 8),
	}}}

	result := GetPersonalizedRecommendations(context.Background(), watchlist, favorites, discover.fn)
	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, 61, result.Recommendations[0].ID)
}

func TestTruncatesToEight(t *testing.T) {
	watchlist := []models.Movie{actionMovie(1, 8), actionMovie(2, 8), actionMovie(3, 8)}
	var pool []models.Movie
	for id := 100; id < 120; id++ {
		pool = append(pool, actionMovie(id, 7.5))
	}
	discover := &fakeDiscover{page: &models.MoviePage{Results: pool}}

	result := GetPersonalizedRecommendations(context.Background(), watchlist, nil, discover.fn)
	require.Equal(t, StatusSuccess, result.Status)
	assert.Len(t, result.Recommendations, MaxRecommendations)
}

func TestDiscoverFailureBecomesErrorStatus(t *testing.T) {
	watchlist := []models.Movie{actionMovie(1, 8), actionMovie(2, 8), actionMovie(3, 8)}
	discover := &fakeDiscover{err: errors.New("catalog unavailable")}

	result := GetPersonalizedRecommendations(context.Background(), watchlist, nil, discover.fn)
	assert.Equal(t, StatusError, result.Status)
	assert.Empty(t, result.Recommendations)
	assert.Contains(t, result.Error, "catalog unavailable")
}

func TestExplanation(t *testing.T) {
	assert.Equal(t, "Recommended for you", Explanation(nil))
	assert.Equal(t, "Based on your watchlist", Explanation(&BasedOn{}))

	assert.Equal(t,
		"Because you love Action",
		Explanation(&BasedOn{TopGenre: "Action"}))

	assert.Equal(t,
		"Because you love Action and Thriller movies and recent releases",
		Explanation(&BasedOn{TopGenre: "Action", SecondaryGenre: "Thriller", PreferRecent: true}))
}
