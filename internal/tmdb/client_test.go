package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", srv.URL)
}

func TestDiscoverBuildsQuery(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": 1,
			"results": [{"id": 7, "title": "Heat", "genre_ids": [28, 80], "vote_average": 8.3}],
			"total_pages": 1,
			"total_results": 1
		}`))
	})

	page, err := c.Discover(context.Background(), DiscoverParams{
		WithGenres:         []int{28, 53},
		SortBy:             "vote_average.desc",
		Page:               1,
		VoteCountGTE:       100,
		VoteAverageGTE:     7.0,
		PrimaryReleaseYear: 2025,
	})
	require.NoError(t, err)

	assert.Equal(t, "test-key", got.Get("api_key"))
	assert.Equal(t, "28,53", got.Get("with_genres"))
	assert.Equal(t, "vote_average.desc", got.Get("sort_by"))
	assert.Equal(t, "100", got.Get("vote_count.gte"))
	assert.Equal(t, "7", got.Get("vote_average.gte"))
	assert.Equal(t, "2025", got.Get("primary_release_year"))
	assert.Empty(t, got.Get("primary_release_date.gte"))

	require.Len(t, page.Results, 1)
	assert.Equal(t, 7, page.Results[0].ID)
	assert.Equal(t, "Heat", page.Results[0].Title)
	assert.Equal(t, []int{28, 80}, page.Results[0].GenreIDs)
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "alien", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"page": 2, "results": [], "total_pages": 3, "total_results": 45}`))
	})

	page, err := c.Search(context.Background(), "alien", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 45, page.TotalResults)
}

func TestTrendingWindowFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/movie/week", r.URL.Path)
		_, _ = w.Write([]byte(`{"page": 1, "results": []}`))
	})

	_, err := c.Trending(context.Background(), "month")
	require.NoError(t, err)
}

func TestDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"release_date": "1999-03-31",
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}],
			"vote_average": 8.2,
			"runtime": 136,
			"poster_path": "/matrix.jpg",
			"backdrop_path": "/matrix-wide.jpg"
		}`))
	})

	detail, err := c.Detail(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", detail.Title)
	assert.Equal(t, 136, detail.Runtime)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", detail.PosterURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/matrix-wide.jpg", detail.BackdropURL)

	movie := detail.ToMovie()
	assert.Equal(t, 603, movie.ID)
	assert.Equal(t, []int{28, 878}, movie.GenreIDs)
	assert.Equal(t, 1999, movie.Year())
}

func TestNon200IsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message": "Invalid API key"}`))
	})

	_, err := c.Popular(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
