package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"absolute-cinema-cli/model"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
}

func at(day, hour int) model.Timestamp {
	return model.Timestamp{Time: time.Date(2026, 10, day, hour, 0, 0, 0, time.Local)}
}

func sampleShowtimes() []model.LazyShowtime {
	return []model.LazyShowtime{
		{Id: 1, MovieTitle: "Dune", CinemaName: "Mid Valley", ScreeningTime: at(18, 20), Hall: 1},
		{Id: 2, MovieTitle: "Alien", CinemaName: "Pavilion", ScreeningTime: at(17, 14), Hall: 2},
		{Id: 3, MovieTitle: "Dune", CinemaName: "Pavilion", ScreeningTime: at(18, 11), Hall: 3},
		{Id: 4, MovieTitle: "Heat", CinemaName: "Mid Valley", ScreeningTime: at(19, 21), Hall: 1},
		{Id: 5, MovieTitle: "Ghost", CinemaName: "Nowhere"},
	}
}

func TestDateOptions_UniqueAndSorted(t *testing.T) {
	options := DateOptions(sampleShowtimes())
	want := []string{"2026-10-17", "2026-10-18", "2026-10-19"}
	if len(options) != len(want) {
		t.Fatalf("expected %d options, got %+v", len(want), options)
	}
	for i, opt := range options {
		if opt.Value != want[i] {
			t.Fatalf("option %d: expected %s, got %s", i, want[i], opt.Value)
		}
	}
	if options[1].Day != "Sun" || options[1].Date != "Oct 18" || options[1].Display != "Sunday, October 18" {
		t.Fatalf("unexpected labels %+v", options[1])
	}
}

func TestShowtimesOn_SortedByTime(t *testing.T) {
	got := ShowtimesOn(sampleShowtimes(), "2026-10-18")
	if len(got) != 2 || got[0].Id != 3 || got[1].Id != 1 {
		t.Fatalf("unexpected showtimes %+v", got)
	}
}

func TestMoviesAndCinemasOn(t *testing.T) {
	movies := []model.Movie{{Id: 1, Title: "Alien"}, {Id: 2, Title: "Dune"}, {Id: 3, Title: "Heat"}}
	cinemas := []model.Cinema{{Id: 1, Name: "Mid Valley"}, {Id: 2, Name: "Pavilion"}}

	gotMovies := MoviesOn(movies, sampleShowtimes(), "2026-10-18")
	if len(gotMovies) != 1 || gotMovies[0].Title != "Dune" {
		t.Fatalf("unexpected movies %+v", gotMovies)
	}
	gotCinemas := CinemasOn(cinemas, sampleShowtimes(), "2026-10-18")
	if len(gotCinemas) != 2 {
		t.Fatalf("unexpected cinemas %+v", gotCinemas)
	}
	if got := CinemasOn(cinemas, sampleShowtimes(), "2026-10-17"); len(got) != 1 || got[0].Name != "Pavilion" {
		t.Fatalf("unexpected cinemas for 17th %+v", got)
	}
}

type fakeAPI struct {
	movieCalls int
	err        error
}

func (f *fakeAPI) GetMovies(ctx context.Context) ([]model.Movie, error) {
	f.movieCalls++
	return []model.Movie{{Id: 1, Title: "Dune"}}, f.err
}

func (f *fakeAPI) GetCinemas(ctx context.Context) ([]model.Cinema, error) {
	return []model.Cinema{{Id: 1, Name: "Mid Valley"}}, nil
}

func (f *fakeAPI) GetShowtimes(ctx context.Context) ([]model.LazyShowtime, error) {
	return sampleShowtimes(), nil
}

func TestSource_UsesCacheUntilRefresh(t *testing.T) {
	setTestConfigDir(t)
	api := &fakeAPI{}
	src := NewSource(api, nil)

	for i := 0; i < 2; i++ {
		movies, err := src.Movies(context.Background())
		if err != nil || len(movies) != 1 {
			t.Fatalf("unexpected result %+v %v", movies, err)
		}
	}
	if api.movieCalls != 1 {
		t.Fatalf("expected 1 fetch, got %d", api.movieCalls)
	}

	if _, err := src.Refresh().Movies(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.movieCalls != 2 {
		t.Fatalf("expected refresh to fetch, got %d", api.movieCalls)
	}
}

func TestSource_ListingPropagatesErrors(t *testing.T) {
	setTestConfigDir(t)
	boom := errors.New("boom")
	src := NewSource(&fakeAPI{err: boom}, nil)

	if _, err := src.Listing(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSource_Listing(t *testing.T) {
	setTestConfigDir(t)
	listing, err := NewSource(&fakeAPI{}, nil).Listing(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listing.Movies) != 1 || len(listing.Cinemas) != 1 || len(listing.Showtimes) != 5 {
		t.Fatalf("unexpected listing %+v", listing)
	}
}
