package model

type Cinema struct {
	Id           int64  `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	TotalScreens int    `json:"totalScreens"`
}

type Showtime struct {
	Id            int64     `json:"id"`
	Movie         Movie     `json:"movie"`
	Cinema        Cinema    `json:"cinema"`
	ScreeningTime Timestamp `json:"screeningTime"`
	Hall          int       `json:"hall"`
	TotalSeats    int       `json:"totalSeats,omitempty"`
}

// LazyShowtime is the flattened listing shape, also used for admin writes.
type LazyShowtime struct {
	Id            int64     `json:"id,omitempty"`
	MovieTitle    string    `json:"movieTitle" validate:"required"`
	CinemaName    string    `json:"cinemaName" validate:"required"`
	ScreeningTime Timestamp `json:"screeningTime" validate:"required"`
	Hall          int       `json:"hall" validate:"gt=0"`
}
