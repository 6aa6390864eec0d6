package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"

	"absolute-cinema-cli/model"
	"absolute-cinema-cli/service"
)

type recordingNavigator struct {
	visited []string
}

func (r *recordingNavigator) ShowBooking(id string) {
	r.visited = append(r.visited, id)
}

type fakeCreator struct {
	calls int
	got   []string
	err   error
}

func (f *fakeCreator) CreateBooking(ctx context.Context, ids []string) (model.Booking, error) {
	f.calls++
	f.got = slices.Clone(ids)
	if f.err != nil {
		return model.Booking{}, f.err
	}
	return model.Booking{Id: "99", Status: model.BookingPending}, nil
}

type fakeSeats []model.Seat

func (f fakeSeats) GetSeats(ctx context.Context, showtimeID string) ([]model.Seat, error) {
	return f, nil
}

func TestSubmit_EmptySelectionMakesNoRequest(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	nav := &recordingNavigator{}
	submitter := NewSubmitter(service.NewClient(server.URL, server.Client()), nav)

	_, err := submitter.Submit(context.Background(), nil)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no requests, got %d", hits)
	}
	if len(nav.visited) != 0 {
		t.Fatalf("unexpected navigation %v", nav.visited)
	}
}

func TestSubmit_SendsSelectionOrderAndNavigates(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"id": 31, "status": "PENDING"}`))
	}))
	defer server.Close()

	sel := NewSelection(0)
	_, _ = sel.Toggle(model.Seat{Id: "5", Status: model.SeatAvailable})
	_, _ = sel.Toggle(model.Seat{Id: "7", Status: model.SeatAvailable})

	nav := &recordingNavigator{}
	submitter := NewSubmitter(service.NewClient(server.URL, server.Client()), nav)
	booking, err := submitter.Submit(context.Background(), sel.IDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "selectedSeatIds=5&selectedSeatIds=7" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if booking.Id != "31" || !slices.Equal(nav.visited, []string{"31"}) {
		t.Fatalf("expected navigation to 31, got booking %s nav %v", booking.Id, nav.visited)
	}
}

func TestSubmit_FailureKeepsSelectionAndDoesNotNavigate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("Seat 5 is already booked"))
	}))
	defer server.Close()

	sel := NewSelection(0)
	_, _ = sel.Toggle(model.Seat{Id: "5", Status: model.SeatAvailable})
	before := sel.IDs()

	nav := &recordingNavigator{}
	submitter := NewSubmitter(service.NewClient(server.URL, server.Client()), nav)
	_, err := submitter.Submit(context.Background(), sel.IDs())

	var apiErr *service.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	if apiErr.Body != "Seat 5 is already booked" {
		t.Fatalf("expected body in error, got %q", apiErr.Body)
	}
	if !slices.Equal(before, sel.IDs()) {
		t.Fatalf("selection changed: %v", sel.IDs())
	}
	if len(nav.visited) != 0 {
		t.Fatalf("unexpected navigation %v", nav.visited)
	}
}

func TestSubmit_RevalidationRejectsTakenSeats(t *testing.T) {
	creator := &fakeCreator{}
	seats := fakeSeats{
		{Id: "1", Status: model.SeatAvailable},
		{Id: "2", Status: model.SeatUnconfirmed},
	}
	submitter := NewSubmitter(creator, nil, WithRevalidation(seats, "4"))

	_, err := submitter.Submit(context.Background(), []string{"1", "2"})
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}
	if creator.calls != 0 {
		t.Fatalf("expected no booking call, got %d", creator.calls)
	}

	if _, err := submitter.Submit(context.Background(), []string{"1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creator.calls != 1 || !slices.Equal(creator.got, []string{"1"}) {
		t.Fatalf("unexpected booking call %d %v", creator.calls, creator.got)
	}
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	submitter := NewSubmitter(&fakeCreator{}, NavigatorFunc(func(id string) { got = id }))
	if _, err := submitter.Submit(context.Background(), []string{"3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "99" {
		t.Fatalf("expected navigation to 99, got %q", got)
	}
}
