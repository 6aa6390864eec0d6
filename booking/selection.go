package booking

import (
	"errors"
	"fmt"
	"slices"

	"absolute-cinema-cli/model"
)

var ErrSelectionLimit = errors.New("seat selection limit reached")

// Selection is the ordered set of seat ids picked in one seat view.
type Selection struct {
	ids []string
	max int
}

// NewSelection returns an empty selection. max <= 0 means no limit.
func NewSelection(max int) *Selection {
	if max < 0 {
		max = 0
	}
	return &Selection{max: max}
}

// Toggle adds the seat if absent and removes it if present. Seats that are
// booked or unconfirmed are ignored. It reports whether the seat is selected
// after the call.
func (s *Selection) Toggle(seat model.Seat) (bool, error) {
	if !seat.Status.Selectable() {
		return false, nil
	}
	id := seat.Id.String()
	if id == "" {
		return false, nil
	}
	if idx := slices.Index(s.ids, id); idx >= 0 {
		s.ids = slices.Delete(s.ids, idx, idx+1)
		return false, nil
	}
	if s.max > 0 && len(s.ids) >= s.max {
		return false, fmt.Errorf("%w: at most %d seats", ErrSelectionLimit, s.max)
	}
	s.ids = append(s.ids, id)
	return true, nil
}

// Remove deselects id regardless of the seat's current status. It reports
// whether id was selected.
func (s *Selection) Remove(id string) bool {
	idx := slices.Index(s.ids, id)
	if idx < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, idx, idx+1)
	return true
}

// Retain keeps the ids for which keep returns true, preserving order, and
// returns the ones it dropped.
func (s *Selection) Retain(keep func(id string) bool) []string {
	var dropped []string
	kept := s.ids[:0]
	for _, id := range s.ids {
		if keep(id) {
			kept = append(kept, id)
		} else {
			dropped = append(dropped, id)
		}
	}
	s.ids = kept
	return dropped
}

func (s *Selection) IsSelected(id string) bool {
	return slices.Contains(s.ids, id)
}

func (s *Selection) Clear() {
	s.ids = nil
}

// IDs returns the selected ids in the order they were picked.
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Max() int {
	return s.max
}
