package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"absolute-cinema-cli/model"
)

const (
	appDir            = "absolute-cinema-cli"
	movieCacheTTL     = time.Hour
	cinemaCacheTTL    = 24 * time.Hour
	showtimeCacheTTL  = 10 * time.Minute
	maxRecentShowtime = 8
	authTokenFile     = "auth_token"
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type RecentShowtime struct {
	ShowtimeID int64     `json:"showtime_id"`
	MovieTitle string    `json:"movie_title"`
	CinemaName string    `json:"cinema_name"`
	Screening  time.Time `json:"screening"`
}

type showtimeHistory struct {
	Showtimes []RecentShowtime `json:"showtimes"`
}

func LoadMovieCache() ([]model.Movie, bool, error) {
	return loadFresh[[]model.Movie]("movies.json", movieCacheTTL)
}

func SaveMovieCache(movies []model.Movie) error {
	path, err := cachePath("movies.json")
	if err != nil {
		return err
	}
	return saveCache(path, movies)
}

func LoadCinemaCache() ([]model.Cinema, bool, error) {
	return loadFresh[[]model.Cinema]("cinemas.json", cinemaCacheTTL)
}

func SaveCinemaCache(cinemas []model.Cinema) error {
	path, err := cachePath("cinemas.json")
	if err != nil {
		return err
	}
	return saveCache(path, cinemas)
}

func LoadShowtimeCache() ([]model.LazyShowtime, bool, error) {
	return loadFresh[[]model.LazyShowtime]("showtimes.json", showtimeCacheTTL)
}

func SaveShowtimeCache(showtimes []model.LazyShowtime) error {
	path, err := cachePath("showtimes.json")
	if err != nil {
		return err
	}
	return saveCache(path, showtimes)
}

// InvalidateShowtimeCache drops cached showtimes after admin writes.
func InvalidateShowtimeCache() error {
	return removeCache("showtimes.json")
}

// InvalidateMovieCache drops cached movies after admin writes.
func InvalidateMovieCache() error {
	return removeCache("movies.json")
}

func LoadRecentShowtimes() ([]RecentShowtime, error) {
	path, err := configPath("recent_showtimes.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history showtimeHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid showtime history format")
	}
	return history.Showtimes, nil
}

func RememberShowtime(showtime model.LazyShowtime) error {
	if showtime.Id == 0 {
		return errors.New("showtime id is required")
	}
	history, _ := LoadRecentShowtimes()
	next := []RecentShowtime{{
		ShowtimeID: showtime.Id,
		MovieTitle: showtime.MovieTitle,
		CinemaName: showtime.CinemaName,
		Screening:  showtime.ScreeningTime.Time,
	}}
	for _, existing := range history {
		if existing.ShowtimeID == showtime.Id {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentShowtime {
			break
		}
	}

	path, err := configPath("recent_showtimes.json")
	if err != nil {
		return err
	}
	return writeJSON(path, showtimeHistory{Showtimes: next}, 0o644)
}

// LoadAuthToken returns the stored bearer token, or "" when none is stored.
func LoadAuthToken() (string, error) {
	path, err := configPath(authTokenFile)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func SaveAuthToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	path, err := configPath(authTokenFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	// Write then rename so readers never see a half-written token.
	tmp, err := os.CreateTemp(filepath.Dir(path), authTokenFile+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(token + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ClearAuthToken() error {
	path, err := configPath(authTokenFile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CacheDir returns the application cache directory.
func CacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

func loadFresh[T any](name string, ttl time.Duration) (T, bool, error) {
	var zero T
	path, err := cachePath(name)
	if err != nil {
		return zero, false, err
	}
	cache, err := loadCache[T](path)
	if err != nil {
		return zero, false, err
	}
	if cache.UpdatedAt.IsZero() {
		return cache.Data, false, nil
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= ttl, nil
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	return writeJSON(path, cache, 0o644)
}

func removeCache(name string) error {
	path, err := cachePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func writeJSON(path string, v any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, perm)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
