// Package booking holds the seat selection and checkout workflow.
package booking

import (
	"cmp"
	"slices"
	"strconv"

	"absolute-cinema-cli/model"
)

// SeatsPerRow is the fixed width of every row in the grid.
const SeatsPerRow = 10

// Row is one lettered row of at most SeatsPerRow seats.
type Row struct {
	Label string
	Seats []model.Seat
}

// Grid is the display layout of a showtime's seats.
type Grid struct {
	Rows []Row
}

// BuildGrid sorts seats by numeric id and assigns row letters and numbers
// by position: index i lands in row RowLabel(i/10) as seat i%10+1. Ids that
// are not numbers sort after numeric ones, lexically.
func BuildGrid(seats []model.Seat) Grid {
	if len(seats) == 0 {
		return Grid{}
	}

	sorted := slices.Clone(seats)
	slices.SortStableFunc(sorted, compareSeatIDs)

	rows := make([]Row, 0, (len(sorted)+SeatsPerRow-1)/SeatsPerRow)
	for i, seat := range sorted {
		rowIdx := i / SeatsPerRow
		seat.Row = RowLabel(rowIdx)
		seat.Number = i%SeatsPerRow + 1
		if rowIdx == len(rows) {
			rows = append(rows, Row{Label: seat.Row, Seats: make([]model.Seat, 0, SeatsPerRow)})
		}
		rows[rowIdx].Seats = append(rows[rowIdx].Seats, seat)
	}
	return Grid{Rows: rows}
}

func compareSeatIDs(a, b model.Seat) int {
	an, aErr := strconv.ParseInt(a.Id.String(), 10, 64)
	bn, bErr := strconv.ParseInt(b.Id.String(), 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(an, bn)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return cmp.Compare(a.Id.String(), b.Id.String())
	}
}

// RowLabel converts a zero-based row index to A..Z, then AA, AB and so on.
func RowLabel(idx int) string {
	if idx < 0 {
		return ""
	}
	var buf []byte
	for idx >= 0 {
		buf = append(buf, byte('A'+idx%26))
		idx = idx/26 - 1
	}
	slices.Reverse(buf)
	return string(buf)
}

// Seats returns every seat in row order.
func (g Grid) Seats() []model.Seat {
	var out []model.Seat
	for _, row := range g.Rows {
		out = append(out, row.Seats...)
	}
	return out
}

// Len is the number of seats across all rows.
func (g Grid) Len() int {
	n := 0
	for _, row := range g.Rows {
		n += len(row.Seats)
	}
	return n
}

// Find returns the seat with the given id.
func (g Grid) Find(id string) (model.Seat, bool) {
	for _, row := range g.Rows {
		for _, seat := range row.Seats {
			if seat.Id.String() == id {
				return seat, true
			}
		}
	}
	return model.Seat{}, false
}

// Label is the human seat name such as "B7".
func Label(seat model.Seat) string {
	if seat.Row == "" {
		return seat.Id.String()
	}
	return seat.Row + strconv.Itoa(seat.Number)
}
