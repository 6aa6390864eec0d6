package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"absolute-cinema-cli/booking"
	"absolute-cinema-cli/model"
)

const screeningLayout = "Mon 02 Jan 15:04"

func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(header)
	return t
}

func renderMovies(out io.Writer, movies []model.Movie) {
	t := newTable(out, table.Row{"ID", "Title", "Genre", "Duration", "Language", "Rating", "Price"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 36},
		{Number: 7, Align: text.AlignRight},
	})
	for _, m := range movies {
		title := m.Title
		if m.IsFavourite {
			title += " ★"
		}
		t.AppendRow(table.Row{m.Id, title, m.Genre, fmt.Sprintf("%d min", m.Duration), m.Language, m.Rating, booking.FormatMoney(m.Price)})
	}
	t.Render()
}

func renderCinemas(out io.Writer, cinemas []model.Cinema) {
	t := newTable(out, table.Row{"ID", "Name", "Location", "Screens"})
	for _, c := range cinemas {
		t.AppendRow(table.Row{c.Id, c.Name, c.Location, c.TotalScreens})
	}
	t.Render()
}

func renderShowtimes(out io.Writer, showtimes []model.LazyShowtime, movies []model.Movie) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := newTable(out, table.Row{"Movie", "ID", "Cinema", "Hall", "Time", "Ticket"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 30},
		{Number: 6, Align: text.AlignRight},
	})
	for _, st := range showtimes {
		price := "-"
		for _, m := range movies {
			if m.Title == st.MovieTitle {
				quote := booking.QuotePrice(m.Price, st.ScreeningTime.Time, 1)
				price = booking.FormatMoney(quote.TicketPrice)
				if quote.WeekendNight {
					price += " (weekend night)"
				}
				break
			}
		}
		t.AppendRow(table.Row{st.MovieTitle, st.Id, st.CinemaName, st.Hall, formatTime(st.ScreeningTime.Time), price}, rowConfigAutoMerge)
	}
	t.Render()
}

// renderSeatGrid prints one line per row; taken seats are shown as "--".
func renderSeatGrid(out io.Writer, grid booking.Grid) {
	if grid.Len() == 0 {
		fmt.Fprintln(out, "No seats for this showtime.")
		return
	}
	fmt.Fprintln(out, "            SCREEN")
	for _, row := range grid.Rows {
		var cells []string
		for _, seat := range row.Seats {
			if seat.Status.Selectable() {
				cells = append(cells, fmt.Sprintf("%2d", seat.Number))
			} else {
				cells = append(cells, "--")
			}
		}
		fmt.Fprintf(out, "%-3s %s\n", row.Label, strings.Join(cells, " "))
	}

	t := newTable(out, table.Row{"Seat", "ID", "Status"})
	for _, seat := range grid.Seats() {
		t.AppendRow(table.Row{booking.Label(seat), seat.Id, seat.Status})
	}
	t.Render()
}

func renderBookings(out io.Writer, bookings []model.Booking) {
	t := newTable(out, table.Row{"ID", "Status", "Movie", "Screening", "Seats", "Total", "Created"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 6, Align: text.AlignRight}})
	for _, b := range bookings {
		movie, screening := "-", "-"
		if st, ok := b.Showtime(); ok {
			movie = st.Movie.Title
			screening = formatTime(st.ScreeningTime.Time)
		}
		t.AppendRow(table.Row{b.Id, b.Status, movie, screening, len(b.BookingSeats), booking.FormatMoney(b.TotalPrice), formatTime(b.CreatedAt.Time)})
	}
	t.Render()
}

func renderBookingDetail(out io.Writer, b model.Booking) {
	t := newTable(out, table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Booking", b.Id})
	t.AppendRow(table.Row{"Status", b.Status})
	if st, ok := b.Showtime(); ok {
		t.AppendRow(table.Row{"Movie", st.Movie.Title})
		t.AppendRow(table.Row{"Cinema", st.Cinema.Name})
		t.AppendRow(table.Row{"Hall", st.Hall})
		t.AppendRow(table.Row{"Screening", formatTime(st.ScreeningTime.Time)})
		quote := booking.QuotePrice(st.Movie.Price, st.ScreeningTime.Time, len(b.BookingSeats))
		t.AppendRow(table.Row{"Pricing", quote.Display()})
	}
	var seats []string
	for _, bs := range b.BookingSeats {
		name := bs.Seat.SeatNumber
		if name == "" {
			name = bs.Seat.Id.String()
		}
		seats = append(seats, name)
	}
	t.AppendRow(table.Row{"Seats", strings.Join(seats, ", ")})
	t.AppendRow(table.Row{"Total", booking.FormatMoney(b.TotalPrice)})
	t.AppendRow(table.Row{"Created", formatTime(b.CreatedAt.Time)})
	t.Render()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(time.Local).Format(screeningLayout)
}

func renderMovie(out io.Writer, m model.Movie) {
	t := newTable(out, table.Row{"Field", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 60}})
	t.AppendRow(table.Row{"Title", m.Title})
	t.AppendRow(table.Row{"Director", m.Director})
	t.AppendRow(table.Row{"Genre", m.Genre})
	t.AppendRow(table.Row{"Duration", fmt.Sprintf("%d min", m.Duration)})
	if m.Language != "" {
		t.AppendRow(table.Row{"Language", m.Language})
	}
	if m.Rating != "" {
		t.AppendRow(table.Row{"Rating", m.Rating})
	}
	if m.ReleaseDate != "" {
		t.AppendRow(table.Row{"Released", m.ReleaseDate})
	}
	t.AppendRow(table.Row{"Price", booking.FormatMoney(m.Price)})
	if m.Description != "" {
		t.AppendRow(table.Row{"About", m.Description})
	}
	t.Render()
}

func renderMovieDetails(out io.Writer, d model.MovieDetails) {
	t := newTable(out, table.Row{"Field", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 60}})
	t.AppendRow(table.Row{"Title", strings.TrimSpace(d.Title + " (" + d.Year + ")")})
	for _, row := range []struct{ name, value string }{
		{"Rated", d.Rated},
		{"Runtime", d.Runtime},
		{"Genre", d.Genre},
		{"Director", d.Director},
		{"Cast", d.Actors},
		{"Plot", d.Plot},
		{"Awards", d.Awards},
		{"IMDb", d.IMDbRating},
		{"Metascore", d.Metascore},
		{"Box office", d.BoxOffice},
	} {
		if row.value != "" && row.value != "N/A" {
			t.AppendRow(table.Row{row.name, row.value})
		}
	}
	for _, r := range d.Ratings {
		t.AppendRow(table.Row{r.Source, r.Value})
	}
	t.Render()
}
