package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"absolute-cinema-cli/model"
)

// GetSeats fetches the seat inventory of a showtime.
func (c *Client) GetSeats(ctx context.Context, showtimeID string) ([]model.Seat, error) {
	showtimeID = strings.TrimSpace(showtimeID)
	if showtimeID == "" {
		return nil, errors.New("showtime id is required")
	}
	var seats []model.Seat
	if err := c.getJSON(ctx, c.endpoint("/seats/"+url.PathEscape(showtimeID), nil), &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// CreateBooking books the given seats. Ids are sent as a repeated
// selectedSeatIds query parameter in the order given, with no body.
func (c *Client) CreateBooking(ctx context.Context, seatIDs []string) (model.Booking, error) {
	if len(seatIDs) == 0 {
		return model.Booking{}, errors.New("at least one seat is required")
	}
	query := url.Values{}
	for _, id := range seatIDs {
		query.Add("selectedSeatIds", id)
	}

	var booking model.Booking
	if err := c.do(ctx, http.MethodPost, c.endpoint("/bookings", query), nil, &booking); err != nil {
		return model.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	if booking.Id == "" {
		return model.Booking{}, errors.New("create booking: response has no booking id")
	}
	return booking, nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (model.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return model.Booking{}, errors.New("booking id is required")
	}
	var booking model.Booking
	if err := c.getJSON(ctx, c.endpoint("/bookings/"+url.PathEscape(bookingID), nil), &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

// GetBookingHistory lists the current user's bookings.
func (c *Client) GetBookingHistory(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.getJSON(ctx, c.endpoint("/bookings/users", nil), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return errors.New("booking id is required")
	}
	if err := c.do(ctx, http.MethodDelete, c.endpoint("/bookings/"+url.PathEscape(bookingID), nil), nil, nil); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	return nil
}

// DownloadTicket streams the booking e-ticket PDF into w.
func (c *Client) DownloadTicket(ctx context.Context, bookingID string, w io.Writer) error {
	return c.downloadDocument(ctx, bookingID, "e-ticket", w)
}

// DownloadReceipt streams the booking receipt PDF into w.
func (c *Client) DownloadReceipt(ctx context.Context, bookingID string, w io.Writer) error {
	return c.downloadDocument(ctx, bookingID, "receipt", w)
}

func (c *Client) downloadDocument(ctx context.Context, bookingID string, kind string, w io.Writer) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return errors.New("booking id is required")
	}
	if w == nil {
		return errors.New("destination is required")
	}
	endpoint := c.endpoint(fmt.Sprintf("/bookings/%s/%s", url.PathEscape(bookingID), kind), nil)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, w); err != nil {
		return fmt.Errorf("download %s: %w", kind, err)
	}
	return nil
}

// CreatePayment opens a pending payment for a booking.
func (c *Client) CreatePayment(ctx context.Context, bookingID string) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return errors.New("booking id is required")
	}
	query := url.Values{}
	query.Set("bookingId", bookingID)
	if err := c.do(ctx, http.MethodPost, c.endpoint("/payments/create", query), nil, nil); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// GetPayment returns the pending payment of a booking.
func (c *Client) GetPayment(ctx context.Context, bookingID string) (model.Payment, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return model.Payment{}, errors.New("booking id is required")
	}
	var payment model.Payment
	if err := c.getJSON(ctx, c.endpoint("/payments/"+url.PathEscape(bookingID), nil), &payment); err != nil {
		return model.Payment{}, err
	}
	if payment.BookingId == "" {
		payment.BookingId = model.FlexID(bookingID)
	}
	return payment, nil
}

// Pay finalizes a payment and returns the backend confirmation text.
func (c *Client) Pay(ctx context.Context, paymentID string, method model.PaymentMethod, amount float64) (string, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return "", errors.New("payment id is required")
	}
	if method != model.PaymentCreditCard && method != model.PaymentDigitalWallet {
		return "", fmt.Errorf("unsupported payment method %q", method)
	}
	query := url.Values{}
	query.Set("paymentId", paymentID)
	query.Set("paymentMethod", string(method))
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	var confirmation string
	if err := c.do(ctx, http.MethodPost, c.endpoint("/payments/pay", query), nil, &confirmation); err != nil {
		return "", fmt.Errorf("payment confirmation failed: %w", err)
	}
	return confirmation, nil
}

func (c *Client) RequestRefund(ctx context.Context, paymentID string) (string, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return "", errors.New("payment id is required")
	}
	query := url.Values{}
	query.Set("paymentId", paymentID)

	var confirmation string
	if err := c.do(ctx, http.MethodPost, c.endpoint("/payments/refund", query), nil, &confirmation); err != nil {
		return "", fmt.Errorf("refund request failed: %w", err)
	}
	return confirmation, nil
}
