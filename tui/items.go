package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"absolute-cinema-cli/booking"
	"absolute-cinema-cli/catalog"
	"absolute-cinema-cli/model"
	"absolute-cinema-cli/store"
)

type dateItem struct {
	option catalog.DateOption
	today  bool
}

func (d dateItem) Title() string {
	if d.today {
		return fmt.Sprintf("%s • %s (Today)", d.option.Day, d.option.Date)
	}
	return fmt.Sprintf("%s • %s", d.option.Day, d.option.Date)
}

func (d dateItem) Description() string {
	return d.option.Display
}

func (d dateItem) FilterValue() string {
	return d.option.FilterValue()
}

func buildDateItems(options []catalog.DateOption) []list.Item {
	today := catalog.DateKey(time.Now())
	items := make([]list.Item, 0, len(options))
	for _, opt := range options {
		items = append(items, dateItem{option: opt, today: opt.Value == today})
	}
	return items
}

type movieItem struct {
	movie model.Movie
}

func (m movieItem) Title() string {
	if m.movie.IsFavourite {
		return "★ " + m.movie.Title
	}
	return m.movie.Title
}

func (m movieItem) Description() string {
	parts := []string{}
	if m.movie.Genre != "" {
		parts = append(parts, m.movie.Genre)
	}
	if m.movie.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m.movie.Duration))
	}
	if m.movie.Rating != "" {
		parts = append(parts, m.movie.Rating)
	}
	parts = append(parts, booking.FormatMoney(m.movie.Price))
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(m.movie.Title + " " + m.movie.Genre + " " + m.movie.Director)
}

func buildMovieItems(movies []model.Movie) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieItem{movie: movie})
	}
	return items
}

type showtimeItem struct {
	showtime model.LazyShowtime
	price    float64
}

func (s showtimeItem) Title() string {
	return fmt.Sprintf("%s • %s", s.showtime.ScreeningTime.Format("15:04"), s.showtime.CinemaName)
}

func (s showtimeItem) Description() string {
	desc := fmt.Sprintf("Hall %d", s.showtime.Hall)
	quote := booking.QuotePrice(s.price, s.showtime.ScreeningTime.Time, 1)
	desc += " • " + booking.FormatMoney(quote.TicketPrice)
	if quote.WeekendNight {
		desc += " (weekend night)"
	}
	return desc
}

func (s showtimeItem) FilterValue() string {
	return strings.ToLower(s.showtime.CinemaName + " " + s.showtime.ScreeningTime.Format("15:04"))
}

func buildShowtimeItems(showtimes []model.LazyShowtime, movie model.Movie) []list.Item {
	items := make([]list.Item, 0, len(showtimes))
	for _, st := range showtimes {
		items = append(items, showtimeItem{showtime: st, price: movie.Price})
	}
	return items
}

type recentItem struct {
	recent store.RecentShowtime
}

func (r recentItem) Title() string {
	return r.recent.MovieTitle
}

func (r recentItem) Description() string {
	return fmt.Sprintf("%s • %s", r.recent.CinemaName, r.recent.Screening.Format("Mon 02/01 15:04"))
}

func (r recentItem) FilterValue() string {
	return strings.ToLower(r.recent.MovieTitle + " " + r.recent.CinemaName)
}

func buildRecentItems(recents []store.RecentShowtime) []list.Item {
	items := make([]list.Item, 0, len(recents))
	for _, recent := range recents {
		items = append(items, recentItem{recent: recent})
	}
	return items
}
