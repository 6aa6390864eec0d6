package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"absolute-cinema-cli/model"
	"absolute-cinema-cli/store"
	"absolute-cinema-cli/validate"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage movies and showtimes (admin accounts)",
	}
	cmd.AddCommand(newAdminMovieCmd(a), newAdminShowtimeCmd(a))
	return cmd
}

func bindMovieFlags(cmd *cobra.Command, m *model.Movie) {
	fl := cmd.Flags()
	fl.StringVar(&m.Title, "title", "", "movie title")
	fl.StringVar(&m.Director, "director", "", "director")
	fl.StringVar(&m.Genre, "genre", "", "genre")
	fl.IntVar(&m.Duration, "duration", 0, "running time in minutes")
	fl.IntVar(&m.ReleaseYear, "year", 0, "release year")
	fl.StringVar(&m.ReleaseDate, "release-date", "", "release date as YYYY-MM-DD")
	fl.StringVar(&m.Rating, "rating", "", "age rating")
	fl.StringVar(&m.Language, "language", "", "language")
	fl.StringVar(&m.Description, "description", "", "synopsis")
	fl.StringVar(&m.PosterURL, "poster-url", "", "poster image URL")
	fl.StringVar(&m.TrailerURL, "trailer-url", "", "trailer URL")
	fl.Float64Var(&m.Price, "price", 0, "base ticket price")
	fl.Float64Var(&m.Review, "review", 0, "review score out of 10")
}

func newAdminMovieCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "movie", Short: "Create, update or delete movies"}

	var created model.Movie
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a movie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.New().Movie(&created); err != nil {
				return err
			}
			movie, err := a.client.CreateMovie(cmd.Context(), created)
			if err != nil {
				return err
			}
			a.dropCache(store.InvalidateMovieCache)
			fmt.Fprintf(cmd.OutOrStdout(), "Created movie %d: %s\n", movie.Id, movie.Title)
			return nil
		},
	}
	bindMovieFlags(create, &created)

	var updated model.Movie
	update := &cobra.Command{
		Use:   "update <movieId>",
		Short: "Replace a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := validate.New().Movie(&updated); err != nil {
				return err
			}
			movie, err := a.client.UpdateMovie(cmd.Context(), id, updated)
			if err != nil {
				return err
			}
			a.dropCache(store.InvalidateMovieCache)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated movie %d: %s\n", id, movie.Title)
			return nil
		},
	}
	bindMovieFlags(update, &updated)

	remove := &cobra.Command{
		Use:   "delete <movieId>",
		Short: "Delete a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteMovie(cmd.Context(), id); err != nil {
				return err
			}
			a.dropCache(store.InvalidateMovieCache)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted movie %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, update, remove)
	return cmd
}

type showtimeFlags struct {
	movie  string
	cinema string
	at     string
	hall   int
}

func (f *showtimeFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.movie, "movie", "", "movie title")
	fl.StringVar(&f.cinema, "cinema", "", "cinema name")
	fl.StringVar(&f.at, "at", "", "screening time, RFC3339 or YYYY-MM-DDTHH:MM")
	fl.IntVar(&f.hall, "hall", 0, "hall number")
}

func (f *showtimeFlags) showtime() (model.LazyShowtime, error) {
	st := model.LazyShowtime{MovieTitle: f.movie, CinemaName: f.cinema, Hall: f.hall}
	if f.at != "" {
		at, err := model.ParseTimestamp(f.at)
		if err != nil {
			return model.LazyShowtime{}, err
		}
		st.ScreeningTime = model.Timestamp{Time: at}
	}
	if err := validate.New().Showtime(&st); err != nil {
		return model.LazyShowtime{}, err
	}
	return st, nil
}

func newAdminShowtimeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "showtime", Short: "Create, update or delete showtimes"}

	var createFlags showtimeFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Schedule a showtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := createFlags.showtime()
			if err != nil {
				return err
			}
			created, err := a.client.CreateShowtime(cmd.Context(), st)
			if err != nil {
				return err
			}
			a.dropCache(store.InvalidateShowtimeCache)
			fmt.Fprintf(cmd.OutOrStdout(), "Created showtime %d: %s at %s\n", created.Id, st.MovieTitle, st.ScreeningTime.Format(time.DateTime))
			return nil
		},
	}
	createFlags.bind(create)

	var updateFlags showtimeFlags
	update := &cobra.Command{
		Use:   "update <showtimeId>",
		Short: "Replace a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := updateFlags.showtime()
			if err != nil {
				return err
			}
			if _, err := a.client.UpdateShowtime(cmd.Context(), id, st); err != nil {
				return err
			}
			a.dropCache(store.InvalidateShowtimeCache)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated showtime %d\n", id)
			return nil
		},
	}
	updateFlags.bind(update)

	remove := &cobra.Command{
		Use:   "delete <showtimeId>",
		Short: "Delete a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteShowtime(cmd.Context(), id); err != nil {
				return err
			}
			a.dropCache(store.InvalidateShowtimeCache)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted showtime %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, update, remove)
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (a *app) dropCache(invalidate func() error) {
	if err := invalidate(); err != nil {
		a.log.Warn("cache invalidation failed", "error", err)
	}
}
