package booking

import (
	"errors"
	"slices"
	"testing"

	"absolute-cinema-cli/model"
)

func TestSelection_DoubleToggleRestores(t *testing.T) {
	sel := NewSelection(0)
	seat := model.Seat{Id: "5", Status: model.SeatAvailable}

	if selected, err := sel.Toggle(seat); err != nil || !selected {
		t.Fatalf("expected selected, got %v %v", selected, err)
	}
	if !sel.IsSelected("5") {
		t.Fatal("expected 5 to be selected")
	}
	if selected, err := sel.Toggle(seat); err != nil || selected {
		t.Fatalf("expected deselected, got %v %v", selected, err)
	}
	if sel.IsSelected("5") || sel.Len() != 0 {
		t.Fatalf("expected empty selection, got %v", sel.IDs())
	}
}

func TestSelection_IgnoresUnavailableSeats(t *testing.T) {
	sel := NewSelection(0)
	_, _ = sel.Toggle(model.Seat{Id: "1", Status: model.SeatAvailable})

	for _, status := range []model.SeatStatus{model.SeatBooked, model.SeatUnconfirmed} {
		before := sel.IDs()
		selected, err := sel.Toggle(model.Seat{Id: "2", Status: status})
		if err != nil || selected {
			t.Fatalf("%s: expected no-op, got %v %v", status, selected, err)
		}
		if !slices.Equal(before, sel.IDs()) {
			t.Fatalf("%s: selection changed from %v to %v", status, before, sel.IDs())
		}
	}
}

func TestSelection_PreservesOrder(t *testing.T) {
	sel := NewSelection(0)
	for _, id := range []string{"7", "3", "9"} {
		_, _ = sel.Toggle(model.Seat{Id: model.FlexID(id), Status: model.SeatAvailable})
	}
	_, _ = sel.Toggle(model.Seat{Id: "3", Status: model.SeatAvailable})

	if got := sel.IDs(); !slices.Equal(got, []string{"7", "9"}) {
		t.Fatalf("unexpected order %v", got)
	}

	ids := sel.IDs()
	ids[0] = "x"
	if sel.IDs()[0] != "7" {
		t.Fatal("IDs must return a copy")
	}

	sel.Clear()
	if sel.Len() != 0 {
		t.Fatalf("expected empty after clear, got %v", sel.IDs())
	}
}

func TestSelection_Limit(t *testing.T) {
	sel := NewSelection(2)
	_, _ = sel.Toggle(model.Seat{Id: "1", Status: model.SeatAvailable})
	_, _ = sel.Toggle(model.Seat{Id: "2", Status: model.SeatAvailable})

	_, err := sel.Toggle(model.Seat{Id: "3", Status: model.SeatAvailable})
	if !errors.Is(err, ErrSelectionLimit) {
		t.Fatalf("expected ErrSelectionLimit, got %v", err)
	}
	if sel.Len() != 2 || sel.IsSelected("3") {
		t.Fatalf("selection changed: %v", sel.IDs())
	}

	if _, err := sel.Toggle(model.Seat{Id: "1", Status: model.SeatAvailable}); err != nil {
		t.Fatalf("removal must be allowed at the limit: %v", err)
	}
	if _, err := sel.Toggle(model.Seat{Id: "3", Status: model.SeatAvailable}); err != nil {
		t.Fatalf("expected room after removal: %v", err)
	}
}

func TestSelection_RemoveIgnoresStatus(t *testing.T) {
	sel := NewSelection(0)
	if _, err := sel.Toggle(model.Seat{Id: "3", Status: model.SeatAvailable}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sel.Remove("3") {
		t.Fatal("expected 3 to be removed")
	}
	if sel.Remove("3") {
		t.Fatal("expected second remove to report false")
	}
	if sel.Len() != 0 {
		t.Fatalf("expected empty selection, got %v", sel.IDs())
	}
}

func TestSelection_RetainKeepsOrder(t *testing.T) {
	sel := NewSelection(0)
	for _, id := range []string{"7", "2", "9", "4"} {
		if _, err := sel.Toggle(model.Seat{Id: model.FlexID(id), Status: model.SeatAvailable}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	dropped := sel.Retain(func(id string) bool { return id != "2" && id != "4" })
	if !slices.Equal(dropped, []string{"2", "4"}) {
		t.Fatalf("expected [2 4] dropped, got %v", dropped)
	}
	if got := sel.IDs(); !slices.Equal(got, []string{"7", "9"}) {
		t.Fatalf("expected [7 9] kept, got %v", got)
	}
}
