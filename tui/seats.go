package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"absolute-cinema-cli/booking"
	"absolute-cinema-cli/model"
)

const cellWidth = 3

func (m appModel) handleSeatKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1, 0)
	case "down", "j":
		m.moveCursor(1, 0)
	case "left", "h":
		m.moveCursor(0, -1)
	case "right", "l":
		m.moveCursor(0, 1)
	case " ", "x":
		seat, ok := m.cursorSeat()
		if !ok {
			return m, nil, true
		}
		m.notice = ""
		if m.selection.Remove(seat.Id.String()) {
			return m, nil, true
		}
		if !seat.Status.Selectable() {
			m.notice = fmt.Sprintf("Seat %s is not available", booking.Label(seat))
			return m, nil, true
		}
		if _, err := m.selection.Toggle(seat); err != nil {
			m.notice = err.Error()
		}
	case "r":
		m.notice = ""
		m.state = stateLoadingSeats
		return m, tea.Batch(m.fetchSeatsCmd(m.showtime.Id), m.spinner.Tick), true
	case "enter":
		if m.selection.Len() == 0 {
			m.notice = "Select at least one seat"
			return m, nil, true
		}
		m.notice = ""
		m.state = stateSubmitting
		return m, tea.Batch(m.submitCmd(m.selection.IDs()), m.spinner.Tick), true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// dropTakenSeats deselects seats that vanished or were taken since the
// selection was made, and says which ones.
func (m *appModel) dropTakenSeats() {
	dropped := m.selection.Retain(func(id string) bool {
		seat, ok := m.grid.Find(id)
		return ok && seat.Status.Selectable()
	})
	if len(dropped) == 0 {
		return
	}
	labels := make([]string, 0, len(dropped))
	for _, id := range dropped {
		if seat, ok := m.grid.Find(id); ok {
			labels = append(labels, booking.Label(seat))
		} else {
			labels = append(labels, "#"+id)
		}
	}
	m.notice = fmt.Sprintf("No longer available, deselected: %s", strings.Join(labels, ", "))
}

func (m *appModel) moveCursor(dRow, dCol int) {
	if len(m.grid.Rows) == 0 {
		return
	}
	m.cursorRow += dRow
	m.cursorCol += dCol
	m.clampCursor()
}

func (m *appModel) clampCursor() {
	if len(m.grid.Rows) == 0 {
		m.cursorRow, m.cursorCol = 0, 0
		return
	}
	m.cursorRow = max(0, min(m.cursorRow, len(m.grid.Rows)-1))
	row := m.grid.Rows[m.cursorRow]
	m.cursorCol = max(0, min(m.cursorCol, len(row.Seats)-1))
}

func (m appModel) cursorSeat() (model.Seat, bool) {
	if m.cursorRow >= len(m.grid.Rows) {
		return model.Seat{}, false
	}
	row := m.grid.Rows[m.cursorRow]
	if m.cursorCol >= len(row.Seats) {
		return model.Seat{}, false
	}
	return row.Seats[m.cursorCol], true
}

func (m appModel) submitCmd(ids []string) tea.Cmd {
	showtimeID := fmt.Sprint(m.showtime.Id)
	return func() tea.Msg {
		var next string
		nav := booking.NavigatorFunc(func(bookingID string) { next = bookingID })
		sub := booking.NewSubmitter(m.client, nav,
			booking.WithRevalidation(m.client, showtimeID),
			booking.WithSubmitLogger(m.log),
		)
		if _, err := sub.Submit(context.Background(), ids); err != nil {
			if errors.Is(err, booking.ErrSeatUnavailable) {
				err = fmt.Errorf("%w. Press esc, then r to refresh the seats; taken seats are deselected", err)
			}
			return errMsg{err: err, returnState: stateSeatMap, returnStateSet: true}
		}
		return bookingCreatedMsg{bookingID: next}
	}
}

func (m appModel) renderSeatMap() string {
	if m.grid.Len() == 0 {
		return "No seats for this showtime."
	}

	availableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	bookedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	heldStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	cols := 0
	for _, row := range m.grid.Rows {
		cols = max(cols, len(row.Seats))
	}
	rowWidth := 0
	for _, row := range m.grid.Rows {
		rowWidth = max(rowWidth, len(row.Label))
	}
	gridWidth := cols*(cellWidth+1) - 1

	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("236"))
	screenBar := screenBarBlock(gridWidth, "SCREEN")

	var b strings.Builder
	pad := strings.Repeat(" ", rowWidth+1)
	b.WriteString(pad + screenBorderStyle.Render(screenBar.top) + "\n")
	b.WriteString(pad + screenStyle.Render(screenBar.mid) + "\n")
	b.WriteString(pad + screenBorderStyle.Render(screenBar.bot) + "\n\n")

	for r, row := range m.grid.Rows {
		b.WriteString(fmt.Sprintf("%-*s ", rowWidth, row.Label))
		for c, seat := range row.Seats {
			cell := padCell(fmt.Sprint(seat.Number), cellWidth)
			var rendered string
			switch {
			case m.selection.IsSelected(seat.Id.String()):
				rendered = selectedStyle.Render(cell)
			case seat.Status == model.SeatBooked:
				rendered = bookedStyle.Render(padCell("XX", cellWidth))
			case seat.Status == model.SeatUnconfirmed:
				rendered = heldStyle.Render(padCell("##", cellWidth))
			default:
				rendered = availableStyle.Render(cell)
			}
			if r == m.cursorRow && c == m.cursorCol {
				rendered = cursorStyle.Render(rendered)
			}
			b.WriteString(rendered)
			if c < len(row.Seats)-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	available, booked, held := 0, 0, 0
	for _, seat := range m.grid.Seats() {
		switch seat.Status {
		case model.SeatBooked:
			booked++
		case model.SeatUnconfirmed:
			held++
		default:
			available++
		}
	}

	b.WriteString("\n")
	if seat, ok := m.cursorSeat(); ok {
		b.WriteString(fmt.Sprintf("Seat %s • %s\n", booking.Label(seat), strings.ToLower(string(seat.Status))))
	}
	b.WriteString(m.selectionSummary() + "\n")
	if m.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(m.notice) + "\n")
	}

	legend := "Legend: numbers available • XX booked • ## held • highlighted selected"
	counts := fmt.Sprintf("Available: %d • Booked: %d • Held: %d • Total: %d", available, booked, held, m.grid.Len())
	return b.String() + "\n" + hint(legend) + "\n" + hint(counts)
}

func (m appModel) selectionSummary() string {
	ids := m.selection.IDs()
	if len(ids) == 0 {
		return "Selected: none"
	}
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if seat, ok := m.grid.Find(id); ok {
			labels = append(labels, booking.Label(seat))
		}
	}
	quote := booking.QuotePrice(m.movie.Price, m.showtime.ScreeningTime.Time, len(ids))
	limit := ""
	if m.selection.Max() > 0 {
		limit = fmt.Sprintf(" (max %d)", m.selection.Max())
	}
	return fmt.Sprintf("Selected%s: %s • %s = %s", limit, strings.Join(labels, ", "), quote.Display(), booking.FormatMoney(quote.Total))
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}
