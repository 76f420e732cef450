// Package store implements the user's preference store: watchlist, favorites,
// already-watched, recently-viewed and ratings, mirrored synchronously to a
// persisted key-value backend. The store is the single owner of this state;
// callers only ever see copies.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/venu1011/CineVault/internal/models"
	"github.com/venu1011/CineVault/internal/storage"
)

const (
	// Storage keys. One serialized record per key, wrapped in {"state": ...}.
	PreferenceKey = "watchlist-storage"
	ThemeKey      = "theme-storage"

	// RecentlyViewedCap bounds the recently-viewed list; the oldest entry is
	// evicted once the cap is reached.
	RecentlyViewedCap = 20
)

// State is the persisted preference record.
type State struct {
	Watchlist      []models.Movie        `json:"watchlist"`
	Favorites      []models.Movie        `json:"favorites"`
	Ratings        map[int]int           `json:"ratings"`
	RecentlyViewed []models.ViewedMovie  `json:"recentlyViewed"`
	AlreadyWatched []models.WatchedMovie `json:"alreadyWatched"`
}

func emptyState() State {
	return State{
		Watchlist:      []models.Movie{},
		Favorites:      []models.Movie{},
		Ratings:        map[int]int{},
		RecentlyViewed: []models.ViewedMovie{},
		AlreadyWatched: []models.WatchedMovie{},
	}
}

type persistedRecord struct {
	State State `json:"state"`
}

type persistedTheme struct {
	State struct {
		Theme string `json:"theme"`
	} `json:"state"`
}

// Store is the preference store. All operations are synchronous; every
// mutation rewrites the full persisted record before returning. A failed
// write is surfaced as the returned error but never rolls back the in-memory
// mutation.
type Store struct {
	mu      sync.Mutex
	backend storage.Storage
	state   State
	theme   string

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New creates a store backed by the given storage, loading any previously
// persisted state. Malformed or absent records fall back to empty defaults.
func New(backend storage.Storage) *Store {
	s := &Store{
		backend: backend,
		state:   emptyState(),
		theme:   "dark",
		subs:    make(map[int]func()),
	}
	s.load()
	return s
}

func (s *Store) load() {
	if raw, err := s.backend.Get(PreferenceKey); err == nil {
		var rec persistedRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			slog.Warn("malformed preference record, starting empty", "error", err)
		} else {
			s.state = normalize(rec.State)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("could not read preference record, starting empty", "error", err)
	}

	if raw, err := s.backend.Get(ThemeKey); err == nil {
		var rec persistedTheme
		if err := json.Unmarshal([]byte(raw), &rec); err == nil {
			if t := rec.State.Theme; t == "dark" || t == "light" {
				s.theme = t
			}
		}
	}
}

// normalize fills nil collections so older or partial records load cleanly.
func normalize(st State) State {
	if st.Watchlist == nil {
		st.Watchlist = []models.Movie{}
	}
	if st.Favorites == nil {
		st.Favorites = []models.Movie{}
	}
	if st.Ratings == nil {
		st.Ratings = map[int]int{}
	}
	if st.RecentlyViewed == nil {
		st.RecentlyViewed = []models.ViewedMovie{}
	}
	if st.AlreadyWatched == nil {
		st.AlreadyWatched = []models.WatchedMovie{}
	}
	return st
}

// persist writes the full preference record. Called with s.mu held.
func (s *Store) persist() error {
	data, err := json.Marshal(persistedRecord{State: s.state})
	if err != nil {
		return fmt.Errorf("marshal preference record: %w", err)
	}
	if err := s.backend.Set(PreferenceKey, string(data)); err != nil {
		slog.Warn("failed to persist preferences, in-memory state retained", "error", err)
		return err
	}
	return nil
}

// Subscribe registers fn to run after every watchlist or favorites change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// ---- Watchlist ----

// AddToWatchlist inserts the movie if absent. Returns whether insertion
// occurred; adding a movie that is already present is a no-op, not an error.
// A non-nil error means the persisted write failed (the mutation stands).
func (s *Store) AddToWatchlist(movie models.Movie) (bool, error) {
	s.mu.Lock()
	if containsMovie(s.state.Watchlist, movie.ID) {
		s.mu.Unlock()
		return false, nil
	}
	s.state.Watchlist = append(s.state.Watchlist, movie)
	err := s.persist()
	s.mu.Unlock()

	s.notify()
	return true, err
}

// RemoveFromWatchlist removes the movie if present; absent is a no-op.
func (s *Store) RemoveFromWatchlist(id int) error {
	s.mu.Lock()
	before := len(s.state.Watchlist)
	s.state.Watchlist = removeMovie(s.state.Watchlist, id)
	changed := len(s.state.Watchlist) != before
	var err error
	if changed {
		err = s.persist()
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return err
}

// IsInWatchlist reports watchlist membership.
func (s *Store) IsInWatchlist(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return containsMovie(s.state.Watchlist, id)
}

// Watchlist returns a copy of the watchlist.
func (s *Store) Watchlist() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Movie(nil), s.state.Watchlist...)
}

// ---- Favorites ----

// AddToFavorites inserts the movie if absent; see AddToWatchlist.
func (s *Store) AddToFavorites(movie models.Movie) (bool, error) {
	s.mu.Lock()
	if containsMovie(s.state.Favorites, movie.ID) {
		s.mu.Unlock()
		return false, nil
	}
	s.state.Favorites = append(s.state.Favorites, movie)
	err := s.persist()
	s.mu.Unlock()

	s.notify()
	return true, err
}

// RemoveFromFavorites removes the movie if present; absent is a no-op.
func (s *Store) RemoveFromFavorites(id int) error {
	s.mu.Lock()
	before := len(s.state.Favorites)
	s.state.Favorites = removeMovie(s.state.Favorites, id)
	changed := len(s.state.Favorites) != before
	var err error
	if changed {
		err = s.persist()
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return err
}

// IsInFavorites reports favorites membership.
func (s *Store) IsInFavorites(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return containsMovie(s.state.Favorites, id)
}

// Favorites returns a copy of the favorites list.
func (s *Store) Favorites() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Movie(nil), s.state.Favorites...)
}

// ---- Already watched ----

// AddToAlreadyWatched prepends the movie with the current timestamp if
// absent. A duplicate is a no-op: the existing timestamp and position are
// kept.
func (s *Store) AddToAlreadyWatched(movie models.Movie) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.state.AlreadyWatched {
		if w.ID == movie.ID {
			return false, nil
		}
	}
	entry := models.WatchedMovie{Movie: movie, WatchedAt: models.NowUnixMilli()}
	s.state.AlreadyWatched = append([]models.WatchedMovie{entry}, s.state.AlreadyWatched...)
	return true, s.persist()
}

// RemoveFromAlreadyWatched removes the movie if present; absent is a no-op.
func (s *Store) RemoveFromAlreadyWatched(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state.AlreadyWatched[:0]
	for _, w := range s.state.AlreadyWatched {
		if w.ID != id {
			out = append(out, w)
		}
	}
	if len(out) == len(s.state.AlreadyWatched) {
		return nil
	}
	s.state.AlreadyWatched = out
	return s.persist()
}

// IsInAlreadyWatched reports already-watched membership.
func (s *Store) IsInAlreadyWatched(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.state.AlreadyWatched {
		if w.ID == id {
			return true
		}
	}
	return false
}

// AlreadyWatched returns a copy of the already-watched list, most recent first.
func (s *Store) AlreadyWatched() []models.WatchedMovie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WatchedMovie(nil), s.state.AlreadyWatched...)
}

// ---- Recently viewed ----

// AddToRecentlyViewed records a detail-view open: any existing entry for the
// movie is removed, a fresh timestamped entry is prepended, and the list is
// truncated to the most recent RecentlyViewedCap entries.
func (s *Store) AddToRecentlyViewed(movie models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := make([]models.ViewedMovie, 0, len(s.state.RecentlyViewed)+1)
	filtered = append(filtered, models.ViewedMovie{Movie: movie, ViewedAt: models.NowUnixMilli()})
	for _, v := range s.state.RecentlyViewed {
		if v.ID != movie.ID {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) > RecentlyViewedCap {
		filtered = filtered[:RecentlyViewedCap]
	}
	s.state.RecentlyViewed = filtered
	return s.persist()
}

// RecentlyViewed returns a copy of the recently-viewed list, most recent first.
func (s *Store) RecentlyViewed() []models.ViewedMovie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ViewedMovie(nil), s.state.RecentlyViewed...)
}

// ---- Ratings ----

// SetRating records a 1-5 star rating, overwriting any previous value.
// A rating of 0 (or below) removes the rating; values above 5 are clamped.
func (s *Store) SetRating(id, rating int) error {
	if rating > 5 {
		rating = 5
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rating <= 0 {
		if _, ok := s.state.Ratings[id]; !ok {
			return nil
		}
		delete(s.state.Ratings, id)
	} else {
		s.state.Ratings[id] = rating
	}
	return s.persist()
}

// GetRating returns the user's rating for the movie, or 0 if unrated.
func (s *Store) GetRating(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Ratings[id]
}

// Ratings returns a copy of the rating map.
func (s *Store) Ratings() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.state.Ratings))
	for k, v := range s.state.Ratings {
		out[k] = v
	}
	return out
}

// ---- Theme ----

// Theme returns the persisted UI theme, "dark" by default.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ErrInvalidTheme is returned by SetTheme for themes other than "dark" and
// "light". The in-memory state is untouched in that case.
var ErrInvalidTheme = errors.New("invalid theme")

// SetTheme persists the UI theme. Only "dark" and "light" are accepted.
// Any other error means the persisted write failed; the in-memory theme
// change stands.
func (s *Store) SetTheme(theme string) error {
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("%w %q", ErrInvalidTheme, theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme

	var rec persistedTheme
	rec.State.Theme = theme
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal theme record: %w", err)
	}
	if err := s.backend.Set(ThemeKey, string(data)); err != nil {
		slog.Warn("failed to persist theme, in-memory state retained", "error", err)
		return err
	}
	return nil
}

// ---- helpers ----

func containsMovie(list []models.Movie, id int) bool {
	for _, m := range list {
		if m.ID == id {
			return true
		}
	}
	return false
}

func removeMovie(list []models.Movie, id int) []models.Movie {
	out := list[:0]
	for _, m := range list {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
