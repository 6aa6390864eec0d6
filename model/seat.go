package model

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "AVAILABLE"
	SeatBooked      SeatStatus = "BOOKED"
	SeatUnconfirmed SeatStatus = "UNCONFIRMED"
)

// Selectable reports whether a seat with this status may be picked.
func (s SeatStatus) Selectable() bool {
	return s != SeatBooked && s != SeatUnconfirmed
}

type Seat struct {
	Id         FlexID     `json:"id"`
	Status     SeatStatus `json:"status"`
	SeatNumber string     `json:"seatNumber,omitempty"`
	SeatType   string     `json:"seatType,omitempty"`

	// Row and Number are derived from position in the sorted seat list,
	// never read from the server.
	Row    string `json:"-"`
	Number int    `json:"-"`
}
