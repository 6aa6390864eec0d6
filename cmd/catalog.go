package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"absolute-cinema-cli/catalog"
)

func newMoviesCmd(a *app) *cobra.Command {
	var category, criteria string
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "List movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if category != "" {
				movies, err := a.client.FilterMovies(ctx, category, criteria)
				if err != nil {
					return err
				}
				renderMovies(cmd.OutOrStdout(), movies)
				return nil
			}
			movies, err := a.catalog.Movies(ctx)
			if err != nil {
				return err
			}
			renderMovies(cmd.OutOrStdout(), movies)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter category such as genre or language")
	cmd.Flags().StringVar(&criteria, "criteria", "", "value to match in the filter category")

	options := &cobra.Command{
		Use:   "options <category>",
		Short: "List filter values for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := a.client.GetFilterOptions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.AddCommand(options)
	return cmd
}

func newMovieCmd(a *app) *cobra.Command {
	var details bool
	var title string
	cmd := &cobra.Command{
		Use:   "movie [id]",
		Short: "Show one movie, optionally with critic details",
		Long:  `With --details the ratings and plot are fetched as well. --title looks up details for any title, listed or not.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if title != "" {
				d, err := a.client.GetMovieDetailsByTitle(ctx, title)
				if err != nil {
					return err
				}
				renderMovieDetails(out, d)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("movie id or --title is required")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
			if details {
				d, err := a.client.GetMovieDetails(ctx, id)
				if err != nil {
					return err
				}
				renderMovieDetails(out, d)
				return nil
			}
			movie, err := a.client.GetMovie(ctx, id)
			if err != nil {
				return err
			}
			renderMovie(out, movie)
			return nil
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "include ratings, cast and plot")
	cmd.Flags().StringVar(&title, "title", "", "look up details by title instead of id")
	return cmd
}

func newCinemasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cinemas",
		Short: "List cinemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cinemas, err := a.catalog.Cinemas(cmd.Context())
			if err != nil {
				return err
			}
			renderCinemas(cmd.OutOrStdout(), cinemas)
			return nil
		},
	}
}

func newShowtimesCmd(a *app) *cobra.Command {
	var date, movie string
	cmd := &cobra.Command{
		Use:   "showtimes",
		Short: "List showtimes grouped by date",
		Long:  `Without --date the earliest screening day is shown along with the other available days.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := a.catalog.Listing(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			options := catalog.DateOptions(listing.Showtimes)
			if len(options) == 0 {
				fmt.Fprintln(out, "No showtimes scheduled.")
				return nil
			}
			if date == "" {
				date = options[0].Value
				fmt.Fprint(out, "Days:")
				for _, opt := range options {
					fmt.Fprintf(out, " %s", opt.Value)
				}
				fmt.Fprintln(out)
			}
			showtimes := catalog.ShowtimesOn(listing.Showtimes, date)
			if movie != "" {
				showtimes = catalog.ShowtimesForMovie(showtimes, movie)
			}
			if len(showtimes) == 0 {
				fmt.Fprintf(out, "No showtimes on %s.\n", date)
				return nil
			}
			fmt.Fprintf(out, "Showtimes on %s\n", date)
			renderShowtimes(out, showtimes, listing.Movies)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "screening day as YYYY-MM-DD")
	cmd.Flags().StringVar(&movie, "movie", "", "only this movie title")
	return cmd
}

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favourite movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			movies, err := a.client.GetFavorites(cmd.Context())
			if err != nil {
				return err
			}
			renderMovies(cmd.OutOrStdout(), movies)
			return nil
		},
	}
	for _, add := range []bool{true, false} {
		use, short := "remove <movieId>", "Remove a movie from favourites"
		if add {
			use, short = "add <movieId>", "Add a movie to favourites"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid movie id %q", args[0])
				}
				if err := a.client.SetFavorite(cmd.Context(), id, add); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Favourites updated.")
				return nil
			},
		})
	}
	return cmd
}
