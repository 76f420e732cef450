package models

import (
	"strconv"
	"time"
)

// Movie is the normalized movie record used throughout the service.
// Records are normalized once at the ingestion boundary (the TMDB client),
// so internal logic always operates on a canonical integer identifier.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	VoteCount    int     `json:"vote_count,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
}

// Year returns the release year, or 0 if the release date is absent or unparseable.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// PosterURL builds the full poster image URL for a TMDB poster path,
// or "" if the path is empty.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return TMDBImageBaseW500 + path
}

// BackdropURL builds the full backdrop image URL for a TMDB backdrop path,
// or "" if the path is empty.
func BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return TMDBImageBaseW1280 + path
}

// Genre is a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the detailed movie record returned by the detail endpoint.
type MovieDetail struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Genres       []Genre `json:"genres"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	PosterURL    string  `json:"poster_url,omitempty"`
	BackdropURL  string  `json:"backdrop_url,omitempty"`
	Runtime      int     `json:"runtime"`
	Tagline      string  `json:"tagline,omitempty"`
}

// ToMovie normalizes a detail record back into the canonical movie shape.
func (d MovieDetail) ToMovie() Movie {
	ids := make([]int, 0, len(d.Genres))
	for _, g := range d.Genres {
		ids = append(ids, g.ID)
	}
	return Movie{
		ID:           d.ID,
		Title:        d.Title,
		Overview:     d.Overview,
		ReleaseDate:  d.ReleaseDate,
		GenreIDs:     ids,
		VoteAverage:  d.VoteAverage,
		VoteCount:    d.VoteCount,
		Popularity:   d.Popularity,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
	}
}

// MoviePage is a paginated list of movies.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// ViewedMovie is a movie plus the time its detail view was last opened.
type ViewedMovie struct {
	Movie
	ViewedAt int64 `json:"viewedAt"`
}

// WatchedMovie is a movie plus the time it was marked as watched.
type WatchedMovie struct {
	Movie
	WatchedAt int64 `json:"watchedAt"`
}

// NowUnixMilli is the clock used for viewed/watched timestamps.
// Swappable in tests.
var NowUnixMilli = func() int64 { return time.Now().UnixMilli() }

const (
	TMDBImageBaseW500  = "https://image.tmdb.org/t/p/w500"
	TMDBImageBaseW1280 = "https://image.tmdb.org/t/p/w1280"
)
