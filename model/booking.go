package model

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	Id           FlexID        `json:"id"`
	TotalPrice   float64       `json:"totalPrice"`
	Status       BookingStatus `json:"status"`
	CreatedAt    Timestamp     `json:"createdAt"`
	BookingSeats []BookingSeat `json:"bookingSeats,omitempty"`
}

type BookingSeat struct {
	BookingSeatId FlexID     `json:"bookingSeatId"`
	Seat          BookedSeat `json:"seat"`
}

// BookedSeat is a seat as nested inside a booking, carrying its showtime.
type BookedSeat struct {
	Id         FlexID     `json:"id"`
	SeatNumber string     `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
	Showtime   *Showtime  `json:"showtime,omitempty"`
}

// Showtime returns the showtime of the first seat that carries one.
func (b Booking) Showtime() (Showtime, bool) {
	for _, bs := range b.BookingSeats {
		if bs.Seat.Showtime != nil {
			return *bs.Seat.Showtime, true
		}
	}
	return Showtime{}, false
}

func (b Booking) SeatIds() []string {
	ids := make([]string, 0, len(b.BookingSeats))
	for _, bs := range b.BookingSeats {
		ids = append(ids, bs.Seat.Id.String())
	}
	return ids
}
