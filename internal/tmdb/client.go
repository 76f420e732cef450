// Package tmdb is the TMDB API client. Responses are normalized into the
// service's canonical movie shape at this boundary.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// DiscoverParams are the filter parameters for the discover endpoint.
// Zero-valued fields are omitted from the query.
type DiscoverParams struct {
	WithGenres            []int
	SortBy                string
	Page                  int
	VoteCountGTE          int
	VoteAverageGTE        float64
	PrimaryReleaseYear    int
	PrimaryReleaseDateGTE string
}

func (p DiscoverParams) values() url.Values {
	v := url.Values{}
	if len(p.WithGenres) > 0 {
		ids := make([]string, len(p.WithGenres))
		for i, g := range p.WithGenres {
			ids[i] = strconv.Itoa(g)
		}
		// Comma-separated genre ids mean "has at least one of".
		v.Set("with_genres", strings.Join(ids, ","))
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.VoteCountGTE > 0 {
		v.Set("vote_count.gte", strconv.Itoa(p.VoteCountGTE))
	}
	if p.VoteAverageGTE > 0 {
		v.Set("vote_average.gte", strconv.FormatFloat(p.VoteAverageGTE, 'f', -1, 64))
	}
	if p.PrimaryReleaseYear > 0 {
		v.Set("primary_release_year", strconv.Itoa(p.PrimaryReleaseYear))
	}
	if p.PrimaryReleaseDateGTE != "" {
		v.Set("primary_release_date.gte", p.PrimaryReleaseDateGTE)
	}
	return v
}

// get issues an authenticated GET against the given path and decodes the
// JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	slog.Debug("fetching TMDB", "path", path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
