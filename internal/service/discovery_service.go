// Package service glues the catalog client, the preference store and the
// recommendation engine together, with Redis response caching on the catalog
// side.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venu1011/CineVault/internal/models"
	"github.com/venu1011/CineVault/internal/recommend"
	"github.com/venu1011/CineVault/internal/store"
	"github.com/venu1011/CineVault/internal/tmdb"
)

const (
	movieListCacheTTL   = 5 * time.Minute
	movieDetailCacheTTL = 30 * time.Minute
	genreCacheTTL       = 24 * time.Hour

	recomputeTimeout = 20 * time.Second
)

// DiscoveryService handles catalog browsing, preference state and
// personalized recommendations.
type DiscoveryService struct {
	tmdb  *tmdb.Client
	store *store.Store
	redis *redis.Client

	recMu    sync.RWMutex
	rec      recommend.Result
	recValid bool

	unsubscribe func()
}

// NewDiscoveryService creates the service and subscribes to watchlist and
// favorites changes so recommendations are recomputed reactively. rdb may be
// nil; the service then runs without catalog caching.
func NewDiscoveryService(tmdbClient *tmdb.Client, st *store.Store, rdb *redis.Client) *DiscoveryService {
	s := &DiscoveryService{
		tmdb:  tmdbClient,
		store: st,
		redis: rdb,
	}
	// If two recomputes overlap, whichever finishes last wins; results are
	// idempotent given the same inputs.
	s.unsubscribe = st.Subscribe(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
			defer cancel()
			s.refreshRecommendations(ctx)
		}()
	})
	return s
}

// Close removes the store subscription.
func (s *DiscoveryService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Store exposes the preference store to the handler layer.
func (s *DiscoveryService) Store() *store.Store {
	return s.store
}

// ---- Catalog ----

// Trending returns trending movies for the given time window. The window is
// normalized before the cache key is built so unrecognized values share the
// "week" cache entry they resolve to.
func (s *DiscoveryService) Trending(ctx context.Context, window string) (*models.MoviePage, error) {
	if window != "day" && window != "week" {
		window = "week"
	}
	key := fmt.Sprintf("movies:trending:%s", window)
	return s.cachedPage(ctx, key, func() (*models.MoviePage, error) {
		return s.tmdb.Trending(ctx, window)
	})
}

// Popular returns a page of popular movies.
func (s *DiscoveryService) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	key := fmt.Sprintf("movies:popular:%d", page)
	return s.cachedPage(ctx, key, func() (*models.MoviePage, error) {
		return s.tmdb.Popular(ctx, page)
	})
}

// TopRated returns a page of top-rated movies.
func (s *DiscoveryService) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	key := fmt.Sprintf("movies:top_rated:%d", page)
	return s.cachedPage(ctx, key, func() (*models.MoviePage, error) {
		return s.tmdb.TopRated(ctx, page)
	})
}

// NowPlaying returns a page of movies currently in theaters.
func (s *DiscoveryService) NowPlaying(ctx context.Context, page int) (*models.MoviePage, error) {
	key := fmt.Sprintf("movies:now_playing:%d", page)
	return s.cachedPage(ctx, key, func() (*models.MoviePage, error) {
		return s.tmdb.NowPlaying(ctx, page)
	})
}

// Upcoming returns a page of upcoming movies.
func (s *DiscoveryService) Upcoming(ctx context.Context, page int) (*models.MoviePage, error) {
	key := fmt.Sprintf("movies:upcoming:%d", page)
	return s.cachedPage(ctx, key, func() (*models.MoviePage, error) {
		return s.tmdb.Upcoming(ctx, page)
	})
}

// Search runs a free-text search. Results are not cached.
func (s *DiscoveryService) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	return s.tmdb.Search(ctx, query, page)
}

// MovieDetail returns detailed info for one movie and records the view in
// the recently-viewed list.
func (s *DiscoveryService) MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	cacheKey := fmt.Sprintf("movie:detail:%d", id)

	var detail *models.MovieDetail
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var d models.MovieDetail
		if json.Unmarshal([]byte(cached), &d) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			detail = &d
		}
	}

	if detail == nil {
		d, err := s.tmdb.Detail(ctx, id)
		if err != nil {
			return nil, err
		}
		detail = d
		if data, err := json.Marshal(detail); err == nil {
			s.setCache(ctx, cacheKey, string(data), movieDetailCacheTTL)
		}
	}

	// Opening a detail view counts as a recently-viewed event.
	if err := s.store.AddToRecentlyViewed(detail.ToMovie()); err != nil {
		slog.Warn("failed to persist recently viewed", "movie_id", id, "error", err)
	}

	return detail, nil
}

// Genres returns the full genre list.
func (s *DiscoveryService) Genres(ctx context.Context) ([]models.Genre, error) {
	cacheKey := "movies:genres"
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var genres []models.Genre
		if json.Unmarshal([]byte(cached), &genres) == nil {
			return genres, nil
		}
	}

	genres, err := s.tmdb.Genres(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(genres); err == nil {
		s.setCache(ctx, cacheKey, string(data), genreCacheTTL)
	}
	return genres, nil
}

// ---- Recommendations ----

// Recommendations returns the current personalized recommendation result,
// computing it on demand when no up-to-date snapshot exists.
func (s *DiscoveryService) Recommendations(ctx context.Context) recommend.Result {
	s.recMu.RLock()
	if s.recValid {
		rec := s.rec
		s.recMu.RUnlock()
		return rec
	}
	s.recMu.RUnlock()

	return s.refreshRecommendations(ctx)
}

// refreshRecommendations recomputes from the store's current lists and
// stores the snapshot (last writer wins).
func (s *DiscoveryService) refreshRecommendations(ctx context.Context) recommend.Result {
	result := recommend.GetPersonalizedRecommendations(
		ctx,
		s.store.Watchlist(),
		s.store.Favorites(),
		s.tmdb.Discover,
	)

	s.recMu.Lock()
	s.rec = result
	s.recValid = true
	s.recMu.Unlock()

	slog.Debug("recommendations refreshed", "status", result.Status, "count", len(result.Recommendations))
	return result
}

// Profile returns the user's taste-profile summary.
func (s *DiscoveryService) Profile() recommend.TasteProfile {
	return recommend.Profile(s.store.Watchlist(), s.store.Favorites())
}

// ---- Redis helpers ----

func (s *DiscoveryService) cachedPage(ctx context.Context, key string, fetch func() (*models.MoviePage, error)) (*models.MoviePage, error) {
	if cached, err := s.getFromCache(ctx, key); err == nil {
		var page models.MoviePage
		if json.Unmarshal([]byte(cached), &page) == nil {
			slog.Debug("cache hit", "key", key)
			return &page, nil
		}
	}

	page, err := fetch()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(page); err == nil {
		s.setCache(ctx, key, string(data), movieListCacheTTL)
	}
	return page, nil
}

func (s *DiscoveryService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *DiscoveryService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
