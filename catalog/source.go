package catalog

import (
	"context"
	"log/slog"
	"sync"

	"absolute-cinema-cli/logger"
	"absolute-cinema-cli/model"
	"absolute-cinema-cli/store"
)

type API interface {
	GetMovies(ctx context.Context) ([]model.Movie, error)
	GetCinemas(ctx context.Context) ([]model.Cinema, error)
	GetShowtimes(ctx context.Context) ([]model.LazyShowtime, error)
}

// Listing is everything needed for the showtimes-by-date view.
type Listing struct {
	Movies    []model.Movie
	Cinemas   []model.Cinema
	Showtimes []model.LazyShowtime
}

// Source reads the catalog through the local cache.
type Source struct {
	api     API
	log     *logger.Logger
	refresh bool
}

func NewSource(api API, log *logger.Logger) *Source {
	if log == nil {
		log = logger.Discard()
	}
	return &Source{api: api, log: log.WithComponent("catalog")}
}

// Refresh makes later reads skip the cache.
func (s *Source) Refresh() *Source {
	next := *s
	next.refresh = true
	return &next
}

func (s *Source) Movies(ctx context.Context) ([]model.Movie, error) {
	return cached(ctx, s, "movies", store.LoadMovieCache, s.api.GetMovies, store.SaveMovieCache)
}

func (s *Source) Cinemas(ctx context.Context) ([]model.Cinema, error) {
	return cached(ctx, s, "cinemas", store.LoadCinemaCache, s.api.GetCinemas, store.SaveCinemaCache)
}

func (s *Source) Showtimes(ctx context.Context) ([]model.LazyShowtime, error) {
	return cached(ctx, s, "showtimes", store.LoadShowtimeCache, s.api.GetShowtimes, store.SaveShowtimeCache)
}

// Listing fetches movies, cinemas and showtimes in parallel.
func (s *Source) Listing(ctx context.Context) (Listing, error) {
	var (
		wg      sync.WaitGroup
		listing Listing
		errs    [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		listing.Movies, errs[0] = s.Movies(ctx)
	}()
	go func() {
		defer wg.Done()
		listing.Cinemas, errs[1] = s.Cinemas(ctx)
	}()
	go func() {
		defer wg.Done()
		listing.Showtimes, errs[2] = s.Showtimes(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Listing{}, err
		}
	}
	return listing, nil
}

func cached[T any](
	ctx context.Context,
	s *Source,
	name string,
	load func() (T, bool, error),
	fetch func(context.Context) (T, error),
	save func(T) error,
) (T, error) {
	if !s.refresh {
		data, ok, err := load()
		if err != nil {
			s.log.Debug("cache read failed", slog.String("cache", name), slog.String("error", err.Error()))
		}
		if ok {
			return data, nil
		}
	}
	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := save(data); err != nil {
		s.log.Warn("cache write failed", slog.String("cache", name), slog.String("error", err.Error()))
	}
	return data, nil
}
