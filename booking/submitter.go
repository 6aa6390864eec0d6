package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"absolute-cinema-cli/logger"
	"absolute-cinema-cli/model"
)

var (
	ErrEmptySelection  = errors.New("no seats selected")
	ErrSeatUnavailable = errors.New("seat no longer available")
)

type BookingCreator interface {
	CreateBooking(ctx context.Context, seatIDs []string) (model.Booking, error)
}

type SeatFetcher interface {
	GetSeats(ctx context.Context, showtimeID string) ([]model.Seat, error)
}

// Navigator is told where to go once a booking exists.
type Navigator interface {
	ShowBooking(bookingID string)
}

type NavigatorFunc func(bookingID string)

func (f NavigatorFunc) ShowBooking(bookingID string) { f(bookingID) }

// Submitter turns a seat selection into a booking.
type Submitter struct {
	creator    BookingCreator
	nav        Navigator
	seats      SeatFetcher
	showtimeID string
	log        *logger.Logger
}

type SubmitterOption func(*Submitter)

// WithRevalidation re-reads the showtime's seats before booking and refuses
// to submit when a selected seat was taken in the meantime.
func WithRevalidation(seats SeatFetcher, showtimeID string) SubmitterOption {
	return func(s *Submitter) {
		s.seats = seats
		s.showtimeID = showtimeID
	}
}

func WithSubmitLogger(log *logger.Logger) SubmitterOption {
	return func(s *Submitter) {
		if log != nil {
			s.log = log.WithComponent("booking")
		}
	}
}

func NewSubmitter(creator BookingCreator, nav Navigator, opts ...SubmitterOption) *Submitter {
	s := &Submitter{creator: creator, nav: nav, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit books the given seats. An empty list fails without touching the
// network. On failure the navigator is not called.
func (s *Submitter) Submit(ctx context.Context, seatIDs []string) (model.Booking, error) {
	if len(seatIDs) == 0 {
		return model.Booking{}, ErrEmptySelection
	}
	if s.seats != nil && s.showtimeID != "" {
		if err := s.revalidate(ctx, seatIDs); err != nil {
			return model.Booking{}, err
		}
	}

	booking, err := s.creator.CreateBooking(ctx, seatIDs)
	if err != nil {
		s.log.Warn("booking failed", slog.Int("seats", len(seatIDs)), slog.String("error", err.Error()))
		return model.Booking{}, err
	}
	s.log.Info("booking created", slog.String("booking_id", booking.Id.String()), slog.Int("seats", len(seatIDs)))
	if s.nav != nil {
		s.nav.ShowBooking(booking.Id.String())
	}
	return booking, nil
}

func (s *Submitter) revalidate(ctx context.Context, seatIDs []string) error {
	seats, err := s.seats.GetSeats(ctx, s.showtimeID)
	if err != nil {
		return fmt.Errorf("refresh seats: %w", err)
	}
	status := make(map[string]model.SeatStatus, len(seats))
	for _, seat := range seats {
		status[seat.Id.String()] = seat.Status
	}
	var taken []string
	for _, id := range seatIDs {
		if st, ok := status[id]; !ok || !st.Selectable() {
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		return fmt.Errorf("%w: %s", ErrSeatUnavailable, strings.Join(taken, ", "))
	}
	return nil
}
