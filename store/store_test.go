package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"absolute-cinema-cli/model"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
}

func TestAuthToken_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	token, err := LoadAuthToken()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token, got %q", token)
	}

	if err := SaveAuthToken("  abc.def.ghi "); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	token, err = LoadAuthToken()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", token)
	}

	if err := ClearAuthToken(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := ClearAuthToken(); err != nil {
		t.Fatalf("expected clearing twice to succeed, got %v", err)
	}
	token, _ = LoadAuthToken()
	if token != "" {
		t.Fatalf("expected token removed, got %q", token)
	}
}

func TestSaveAuthToken_ReplacesWithoutLeftovers(t *testing.T) {
	setTestConfigDir(t)

	for _, token := range []string{"first-token", "second"} {
		if err := SaveAuthToken(token); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	token, err := LoadAuthToken()
	if err != nil || token != "second" {
		t.Fatalf("expected second token, got %q %v", token, err)
	}

	path, err := configPath(authTokenFile)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != authTokenFile {
			t.Fatalf("unexpected file left behind: %s", e.Name())
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}
}

func TestSaveAuthToken_Empty(t *testing.T) {
	setTestConfigDir(t)

	if err := SaveAuthToken("   "); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestMovieCache_FreshAfterSave(t *testing.T) {
	setTestConfigDir(t)

	_, fresh, err := LoadMovieCache()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if fresh {
		t.Fatal("expected empty cache to be stale")
	}

	if err := SaveMovieCache([]model.Movie{{Id: 1, Title: "Dune"}}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	movies, fresh, err := LoadMovieCache()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !fresh || len(movies) != 1 || movies[0].Title != "Dune" {
		t.Fatalf("unexpected cache: fresh=%v movies=%+v", fresh, movies)
	}

	if err := InvalidateMovieCache(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, fresh, _ := LoadMovieCache(); fresh {
		t.Fatal("expected cache to be stale after invalidation")
	}
}

func TestRememberShowtime_MostRecentFirst(t *testing.T) {
	setTestConfigDir(t)

	at := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)
	for _, id := range []int64{1, 2, 1} {
		err := RememberShowtime(model.LazyShowtime{Id: id, MovieTitle: "Dune", ScreeningTime: model.Timestamp{Time: at}})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	recents, err := LoadRecentShowtimes()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recents) != 2 {
		t.Fatalf("expected 2 recent showtimes, got %+v", recents)
	}
	if recents[0].ShowtimeID != 1 || recents[1].ShowtimeID != 2 {
		t.Fatalf("unexpected order: %+v", recents)
	}
}

func TestRememberShowtime_InvalidInput(t *testing.T) {
	setTestConfigDir(t)

	if err := RememberShowtime(model.LazyShowtime{}); err == nil {
		t.Fatal("expected error for missing showtime id")
	}
}
