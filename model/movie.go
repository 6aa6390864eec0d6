package model

type Movie struct {
	Id          int64   `json:"id,omitempty"`
	Title       string  `json:"title" validate:"required,max=200"`
	Director    string  `json:"director" validate:"required"`
	ReleaseYear int     `json:"releaseYear,omitempty" validate:"omitempty,gte=1888,lte=2100"`
	Genre       string  `json:"genre" validate:"required"`
	Duration    int     `json:"duration" validate:"gt=0"`
	ReleaseDate string  `json:"releaseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Rating      string  `json:"rating,omitempty"`
	PosterURL   string  `json:"posterUrl,omitempty" validate:"omitempty,url"`
	Description string  `json:"description,omitempty"`
	TrailerURL  string  `json:"trailerUrl,omitempty" validate:"omitempty,url"`
	Review      float64 `json:"review,omitempty" validate:"gte=0,lte=10"`
	Language    string  `json:"language,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsFavourite bool    `json:"isFavourite,omitempty"`
}

type PopularMovie struct {
	MovieId      int64   `json:"movieId"`
	Title        string  `json:"title"`
	Director     string  `json:"director"`
	Genre        string  `json:"genre"`
	PosterURL    string  `json:"posterUrl"`
	Rating       string  `json:"rating"`
	Price        float64 `json:"price"`
	BookingCount int     `json:"bookingCount"`
}

// MovieDetails is the review record the backend proxies from OMDb, so the
// field names follow that API.
type MovieDetails struct {
	Title      string         `json:"Title"`
	Year       string         `json:"Year"`
	Rated      string         `json:"Rated"`
	Released   string         `json:"Released"`
	Runtime    string         `json:"Runtime"`
	Genre      string         `json:"Genre"`
	Director   string         `json:"Director"`
	Writer     string         `json:"Writer"`
	Actors     string         `json:"Actors"`
	Plot       string         `json:"Plot"`
	Language   string         `json:"Language"`
	Country    string         `json:"Country"`
	Awards     string         `json:"Awards"`
	Poster     string         `json:"Poster"`
	Ratings    []ReviewRating `json:"Ratings"`
	Metascore  string         `json:"Metascore"`
	IMDbRating string         `json:"imdbRating"`
	IMDbVotes  string         `json:"imdbVotes"`
	IMDbID     string         `json:"imdbID"`
	BoxOffice  string         `json:"BoxOffice"`
	Response   string         `json:"Response"`
	Error      string         `json:"Error,omitempty"`
}

type ReviewRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}
