package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"absolute-cinema-cli/model"
)

// GetMovies returns the full movie catalog.
func (c *Client) GetMovies(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.getJSON(ctx, c.endpoint("/movies/all", nil), &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) GetMovie(ctx context.Context, movieID int64) (model.Movie, error) {
	if movieID <= 0 {
		return model.Movie{}, errors.New("movie id is required")
	}
	var movie model.Movie
	if err := c.getJSON(ctx, c.endpoint("/movies/"+strconv.FormatInt(movieID, 10), nil), &movie); err != nil {
		return model.Movie{}, err
	}
	return movie, nil
}

// FilterMovies returns movies whose category (genre, language, rating...)
// matches criteria.
func (c *Client) FilterMovies(ctx context.Context, category string, criteria string) ([]model.Movie, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errors.New("filter category is required")
	}
	query := url.Values{}
	query.Set("category", category)
	query.Set("criteria", strings.TrimSpace(criteria))

	var movies []model.Movie
	if err := c.getJSON(ctx, c.endpoint("/movies/filter", query), &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) GetFilterOptions(ctx context.Context, category string) ([]string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errors.New("filter category is required")
	}
	var options []string
	if err := c.getJSON(ctx, c.endpoint("/movies/filter-options/"+url.PathEscape(category), nil), &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (c *Client) CreateMovie(ctx context.Context, movie model.Movie) (model.Movie, error) {
	movie.Id = 0
	var created model.Movie
	if err := c.do(ctx, http.MethodPost, c.endpoint("/movies", nil), movie, &created); err != nil {
		return model.Movie{}, fmt.Errorf("create movie: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateMovie(ctx context.Context, movieID int64, movie model.Movie) (model.Movie, error) {
	if movieID <= 0 {
		return model.Movie{}, errors.New("movie id is required")
	}
	movie.Id = 0
	var updated model.Movie
	if err := c.do(ctx, http.MethodPut, c.endpoint("/movies/"+strconv.FormatInt(movieID, 10), nil), movie, &updated); err != nil {
		return model.Movie{}, fmt.Errorf("update movie: %w", err)
	}
	return updated, nil
}

func (c *Client) DeleteMovie(ctx context.Context, movieID int64) error {
	if movieID <= 0 {
		return errors.New("movie id is required")
	}
	if err := c.do(ctx, http.MethodDelete, c.endpoint("/movies/"+strconv.FormatInt(movieID, 10), nil), nil, nil); err != nil {
		return fmt.Errorf("delete movie %d: %w", movieID, err)
	}
	return nil
}

// GetShowtimes returns the flattened listing of all showtimes.
func (c *Client) GetShowtimes(ctx context.Context) ([]model.LazyShowtime, error) {
	var showtimes []model.LazyShowtime
	if err := c.getJSON(ctx, c.endpoint("/showtimes", nil), &showtimes); err != nil {
		return nil, err
	}
	return showtimes, nil
}

func (c *Client) GetShowtimesByMovie(ctx context.Context, movieID int64) ([]model.Showtime, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id is required")
	}
	var showtimes []model.Showtime
	if err := c.getJSON(ctx, c.endpoint("/showtimes/movies/"+strconv.FormatInt(movieID, 10), nil), &showtimes); err != nil {
		return nil, err
	}
	return showtimes, nil
}

func (c *Client) GetShowtimesByCinema(ctx context.Context, cinemaID int64) ([]model.Showtime, error) {
	if cinemaID <= 0 {
		return nil, errors.New("cinema id is required")
	}
	var showtimes []model.Showtime
	if err := c.getJSON(ctx, c.endpoint("/showtimes/cinemas/"+strconv.FormatInt(cinemaID, 10), nil), &showtimes); err != nil {
		return nil, err
	}
	return showtimes, nil
}

// GetShowtime fetches one showtime with its movie and cinema.
func (c *Client) GetShowtime(ctx context.Context, showtimeID int64) (model.Showtime, error) {
	if showtimeID <= 0 {
		return model.Showtime{}, errors.New("showtime id is required")
	}
	var showtime model.Showtime
	if err := c.getJSON(ctx, c.endpoint("/showtimes/showtime/"+strconv.FormatInt(showtimeID, 10), nil), &showtime); err != nil {
		return model.Showtime{}, err
	}
	return showtime, nil
}

func (c *Client) CreateShowtime(ctx context.Context, showtime model.LazyShowtime) (model.LazyShowtime, error) {
	showtime.Id = 0
	var created model.LazyShowtime
	if err := c.do(ctx, http.MethodPost, c.endpoint("/showtimes", nil), showtime, &created); err != nil {
		return model.LazyShowtime{}, fmt.Errorf("create showtime: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateShowtime(ctx context.Context, showtimeID int64, showtime model.LazyShowtime) (model.LazyShowtime, error) {
	if showtimeID <= 0 {
		return model.LazyShowtime{}, errors.New("showtime id is required")
	}
	showtime.Id = 0
	var updated model.LazyShowtime
	if err := c.do(ctx, http.MethodPut, c.endpoint("/showtimes/"+strconv.FormatInt(showtimeID, 10), nil), showtime, &updated); err != nil {
		return model.LazyShowtime{}, fmt.Errorf("update showtime: %w", err)
	}
	return updated, nil
}

func (c *Client) DeleteShowtime(ctx context.Context, showtimeID int64) error {
	if showtimeID <= 0 {
		return errors.New("showtime id is required")
	}
	if err := c.do(ctx, http.MethodDelete, c.endpoint("/showtimes/"+strconv.FormatInt(showtimeID, 10), nil), nil, nil); err != nil {
		return fmt.Errorf("delete showtime %d: %w", showtimeID, err)
	}
	return nil
}

func (c *Client) GetCinemas(ctx context.Context) ([]model.Cinema, error) {
	var cinemas []model.Cinema
	if err := c.getJSON(ctx, c.endpoint("/cinemas", nil), &cinemas); err != nil {
		return nil, err
	}
	return cinemas, nil
}

func (c *Client) GetCinema(ctx context.Context, cinemaID int64) (model.Cinema, error) {
	if cinemaID <= 0 {
		return model.Cinema{}, errors.New("cinema id is required")
	}
	var cinema model.Cinema
	if err := c.getJSON(ctx, c.endpoint("/cinemas/"+strconv.FormatInt(cinemaID, 10), nil), &cinema); err != nil {
		return model.Cinema{}, err
	}
	return cinema, nil
}

func (c *Client) GetFavorites(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.getJSON(ctx, c.endpoint("/favorites", nil), &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// SetFavorite adds or removes a movie from the user's favourites.
func (c *Client) SetFavorite(ctx context.Context, movieID int64, favorite bool) error {
	if movieID <= 0 {
		return errors.New("movie id is required")
	}
	action := "remove"
	if favorite {
		action = "add"
	}
	path := fmt.Sprintf("/favorites/%s/%d", action, movieID)
	if err := c.do(ctx, http.MethodPost, c.endpoint(path, nil), nil, nil); err != nil {
		return fmt.Errorf("%s favorite: %w", action, err)
	}
	return nil
}

// GetMovieDetails returns critic details and ratings for a catalog movie.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (model.MovieDetails, error) {
	if movieID <= 0 {
		return model.MovieDetails{}, errors.New("movie id is required")
	}
	return c.movieDetails(ctx, c.endpoint("/movies/review/byId/"+strconv.FormatInt(movieID, 10), nil))
}

// GetMovieDetailsByTitle looks up details for any title, listed or not.
func (c *Client) GetMovieDetailsByTitle(ctx context.Context, title string) (model.MovieDetails, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.MovieDetails{}, errors.New("movie title is required")
	}
	return c.movieDetails(ctx, c.endpoint("/movies/review/byTitle/"+url.PathEscape(title), nil))
}

func (c *Client) movieDetails(ctx context.Context, endpoint string) (model.MovieDetails, error) {
	var details model.MovieDetails
	if err := c.getJSON(ctx, endpoint, &details); err != nil {
		if IsNotFound(err) {
			return model.MovieDetails{}, errors.New("no details found for this movie")
		}
		return model.MovieDetails{}, err
	}
	if strings.EqualFold(details.Response, "False") {
		reason := details.Error
		if reason == "" {
			reason = "no details found for this movie"
		}
		return model.MovieDetails{}, errors.New(reason)
	}
	return details, nil
}
