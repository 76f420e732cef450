package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/venu1011/CineVault/internal/models"
)

// Trending fetches trending movies for the given time window ("day" or
// "week"). An unrecognized window falls back to "week".
func (c *Client) Trending(ctx context.Context, window string) (*models.MoviePage, error) {
	if window != "day" && window != "week" {
		window = "week"
	}
	var page models.MoviePage
	if err := c.get(ctx, "/trending/movie/"+window, nil, &page); err != nil {
		return nil, fmt.Errorf("fetch trending movies: %w", err)
	}
	return &page, nil
}

// Popular fetches a page of popular movies.
func (c *Client) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.listPage(ctx, "/movie/popular", page)
}

// TopRated fetches a page of top-rated movies.
func (c *Client) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.listPage(ctx, "/movie/top_rated", page)
}

// NowPlaying fetches a page of movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.listPage(ctx, "/movie/now_playing", page)
}

// Upcoming fetches a page of upcoming movies.
func (c *Client) Upcoming(ctx context.Context, page int) (*models.MoviePage, error) {
	return c.listPage(ctx, "/movie/upcoming", page)
}

// Search runs a free-text movie search.
func (c *Client) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var result models.MoviePage
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return &result, nil
}

// Discover fetches movies matching the given filter parameters.
func (c *Client) Discover(ctx context.Context, params DiscoverParams) (*models.MoviePage, error) {
	var result models.MoviePage
	if err := c.get(ctx, "/discover/movie", params.values(), &result); err != nil {
		return nil, fmt.Errorf("discover movies: %w", err)
	}
	return &result, nil
}

// Detail fetches detailed info for one movie.
func (c *Client) Detail(ctx context.Context, id int) (*models.MovieDetail, error) {
	var result models.MovieDetail
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &result); err != nil {
		return nil, fmt.Errorf("fetch movie detail: %w", err)
	}
	result.PosterURL = models.PosterURL(result.PosterPath)
	result.BackdropURL = models.BackdropURL(result.BackdropPath)
	return &result, nil
}

// Genres fetches the full movie genre list.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var result struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}
	return result.Genres, nil
}

func (c *Client) listPage(ctx context.Context, path string, page int) (*models.MoviePage, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var result models.MoviePage
	if err := c.get(ctx, path, params, &result); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return &result, nil
}
