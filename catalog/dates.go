// Package catalog groups movies, cinemas and showtimes for browsing.
package catalog

import (
	"slices"
	"strings"
	"time"

	"absolute-cinema-cli/model"
)

const dateLayout = time.DateOnly

// DateOption is one selectable screening day.
type DateOption struct {
	Value   string // YYYY-MM-DD
	Day     string // Mon
	Date    string // Jan 2
	Display string // Monday, January 2
}

func (d DateOption) Title() string       { return d.Day + " " + d.Date }
func (d DateOption) Description() string { return d.Display }
func (d DateOption) FilterValue() string { return strings.ToLower(d.Display + " " + d.Value) }

// DateKey is the local calendar day of a screening.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(dateLayout)
}

// DateOptions returns the unique screening days in ascending order.
func DateOptions(showtimes []model.LazyShowtime) []DateOption {
	seen := make(map[string]bool)
	var keys []string
	for _, st := range showtimes {
		if st.ScreeningTime.IsZero() {
			continue
		}
		key := DateKey(st.ScreeningTime.Time)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	options := make([]DateOption, 0, len(keys))
	for _, key := range keys {
		day, err := time.ParseInLocation(dateLayout, key, time.Local)
		if err != nil {
			continue
		}
		options = append(options, DateOption{
			Value:   key,
			Day:     day.Format("Mon"),
			Date:    day.Format("Jan 2"),
			Display: day.Format("Monday, January 2"),
		})
	}
	return options
}

// ShowtimesOn returns the showtimes on date, earliest first.
func ShowtimesOn(showtimes []model.LazyShowtime, date string) []model.LazyShowtime {
	var out []model.LazyShowtime
	for _, st := range showtimes {
		if !st.ScreeningTime.IsZero() && DateKey(st.ScreeningTime.Time) == date {
			out = append(out, st)
		}
	}
	slices.SortStableFunc(out, func(a, b model.LazyShowtime) int {
		return a.ScreeningTime.Compare(b.ScreeningTime.Time)
	})
	return out
}

// MoviesOn returns the movies with at least one screening on date, in
// catalog order. Showtimes reference movies by title.
func MoviesOn(movies []model.Movie, showtimes []model.LazyShowtime, date string) []model.Movie {
	titles := make(map[string]bool)
	for _, st := range ShowtimesOn(showtimes, date) {
		titles[st.MovieTitle] = true
	}
	var out []model.Movie
	for _, m := range movies {
		if titles[m.Title] {
			out = append(out, m)
		}
	}
	return out
}

// CinemasOn returns the cinemas with at least one screening on date.
func CinemasOn(cinemas []model.Cinema, showtimes []model.LazyShowtime, date string) []model.Cinema {
	names := make(map[string]bool)
	for _, st := range ShowtimesOn(showtimes, date) {
		names[st.CinemaName] = true
	}
	var out []model.Cinema
	for _, c := range cinemas {
		if names[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// ShowtimesForMovie narrows a day's listing to one movie title.
func ShowtimesForMovie(showtimes []model.LazyShowtime, title string) []model.LazyShowtime {
	var out []model.LazyShowtime
	for _, st := range showtimes {
		if st.MovieTitle == title {
			out = append(out, st)
		}
	}
	return out
}

// FindMovie looks a movie up by title.
func FindMovie(movies []model.Movie, title string) (model.Movie, bool) {
	for _, m := range movies {
		if m.Title == title {
			return m, true
		}
	}
	return model.Movie{}, false
}
