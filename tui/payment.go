package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"absolute-cinema-cli/booking"
	"absolute-cinema-cli/model"
	"absolute-cinema-cli/validate"
)

const (
	fieldCardNumber = iota
	fieldCardHolder
	fieldCardExpiry
	fieldCardCVV
)

type paymentForm struct {
	method model.PaymentMethod
	wallet int
	inputs []textinput.Model
	focus  int
	err    string
}

func newPaymentForm() paymentForm {
	number := textinput.New()
	number.Placeholder = "4111 1111 1111 1111"
	number.CharLimit = 23
	number.Prompt = "Card number: "

	holder := textinput.New()
	holder.Placeholder = "Name on card"
	holder.CharLimit = 100
	holder.Prompt = "Card holder: "

	expiry := textinput.New()
	expiry.Placeholder = "MM/YY"
	expiry.CharLimit = 5
	expiry.Prompt = "Expiry:      "

	cvv := textinput.New()
	cvv.Placeholder = "123"
	cvv.CharLimit = 4
	cvv.EchoMode = textinput.EchoPassword
	cvv.Prompt = "CVV:         "

	f := paymentForm{
		method: model.PaymentCreditCard,
		inputs: []textinput.Model{number, holder, expiry, cvv},
	}
	f.inputs[fieldCardNumber].Focus()
	return f
}

func (f *paymentForm) request() booking.PaymentRequest {
	req := booking.PaymentRequest{Method: f.method}
	switch f.method {
	case model.PaymentCreditCard:
		req.Card = model.CardDetails{
			Number: strings.TrimSpace(f.inputs[fieldCardNumber].Value()),
			Holder: strings.TrimSpace(f.inputs[fieldCardHolder].Value()),
			Expiry: strings.TrimSpace(f.inputs[fieldCardExpiry].Value()),
			CVV:    strings.TrimSpace(f.inputs[fieldCardCVV].Value()),
		}
	case model.PaymentDigitalWallet:
		req.Wallet = model.WalletDetails{Provider: model.WalletProviders[f.wallet]}
	}
	return req
}

func (f *paymentForm) toggleMethod() {
	f.err = ""
	if f.method == model.PaymentCreditCard {
		f.method = model.PaymentDigitalWallet
		f.inputs[f.focus].Blur()
		return
	}
	f.method = model.PaymentCreditCard
	f.inputs[f.focus].Focus()
}

func (f *paymentForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *paymentForm) cycleWallet(delta int) {
	n := len(model.WalletProviders)
	f.wallet = (f.wallet + delta + n) % n
}

func (f *paymentForm) update(msg tea.Msg) tea.Cmd {
	if f.method != model.PaymentCreditCard {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (m appModel) handlePaymentKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, nil, false
	case "tab":
		m.pay.toggleMethod()
		return m, nil, true
	case "up", "shift+tab":
		if m.pay.method == model.PaymentCreditCard {
			m.pay.moveFocus(-1)
		}
		return m, nil, true
	case "down":
		if m.pay.method == model.PaymentCreditCard {
			m.pay.moveFocus(1)
		}
		return m, nil, true
	case "left", "right":
		if m.pay.method == model.PaymentDigitalWallet {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.pay.cycleWallet(delta)
			return m, nil, true
		}
	case "enter":
		return m.submitPayment()
	}
	m.pay.err = ""
	return m, m.pay.update(msg), true
}

func (m appModel) submitPayment() (appModel, tea.Cmd, bool) {
	if m.countdown != nil && m.countdown.Expired() {
		m.state = stateSessionExpired
		return m, nil, true
	}
	req := m.pay.request()
	if err := m.checkout.Validate(req); err != nil {
		m.pay.err = formatPaymentError(err)
		return m, nil, true
	}
	m.pay.err = ""
	m.state = stateProcessingPayment
	return m, tea.Batch(m.payCmd(req), m.spinner.Tick), true
}

func formatPaymentError(err error) string {
	var verrs validate.ValidationErrors
	if errors.As(err, &verrs) {
		lines := make([]string, 0, len(verrs))
		for _, v := range verrs {
			lines = append(lines, v.Error())
		}
		return strings.Join(lines, "\n")
	}
	return err.Error()
}

func (m appModel) payCmd(req booking.PaymentRequest) tea.Cmd {
	payment := m.payment
	return func() tea.Msg {
		confirmation, err := m.checkout.Pay(context.Background(), payment, nil, req)
		return paymentDoneMsg{confirmation: confirmation, err: err}
	}
}

func (m appModel) saveTicketCmd(bookingID string) tea.Cmd {
	return func() tea.Msg {
		path := fmt.Sprintf("ticket-%s.pdf", bookingID)
		f, err := os.Create(path)
		if err != nil {
			return ticketSavedMsg{err: err}
		}
		err = m.client.DownloadTicket(context.Background(), bookingID, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
			return ticketSavedMsg{err: err}
		}
		return ticketSavedMsg{path: path}
	}
}

func (m appModel) bookingView() string {
	var b strings.Builder
	label := lipgloss.NewStyle().Bold(true)

	b.WriteString(label.Render("Booking "+m.booking.Id.String()) + "\n")
	b.WriteString(fmt.Sprintf("Status: %s\n", m.booking.Status))
	if st, ok := m.booking.Showtime(); ok {
		b.WriteString(fmt.Sprintf("Movie: %s\n", st.Movie.Title))
		b.WriteString(fmt.Sprintf("Cinema: %s • Hall %d\n", st.Cinema.Name, st.Hall))
		b.WriteString(fmt.Sprintf("When: %s\n", st.ScreeningTime.Format("Mon 02/01/2006 15:04")))
		quote := booking.QuotePrice(st.Movie.Price, st.ScreeningTime.Time, len(m.booking.BookingSeats))
		b.WriteString(fmt.Sprintf("Price: %s\n", quote.Display()))
	}
	seats := make([]string, 0, len(m.booking.BookingSeats))
	for _, bs := range m.booking.BookingSeats {
		name := bs.Seat.SeatNumber
		if name == "" {
			name = "#" + bs.Seat.Id.String()
		}
		seats = append(seats, name)
	}
	if len(seats) > 0 {
		b.WriteString(fmt.Sprintf("Seats: %s\n", strings.Join(seats, ", ")))
	}
	b.WriteString(label.Render("Total: "+booking.FormatMoney(m.booking.TotalPrice)) + "\n\n")

	switch m.booking.Status {
	case model.BookingPending:
		b.WriteString(hint("Press p to pay before the seats are released."))
	case model.BookingConfirmed:
		b.WriteString(hint("This booking is confirmed."))
	default:
		b.WriteString(hint("This booking can no longer be paid."))
	}
	return b.String()
}

func (m appModel) paymentView() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Amount due: %s\n", lipgloss.NewStyle().Bold(true).Render(booking.FormatMoney(m.payment.Amount))))
	if m.countdown != nil {
		b.WriteString(fmt.Sprintf("Time left: %s\n", countdownStyle(m.countdown.Level()).Render(m.countdown.Format())))
	}
	b.WriteString("\n")

	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	methods := []struct {
		method model.PaymentMethod
		label  string
	}{
		{model.PaymentCreditCard, "Credit card"},
		{model.PaymentDigitalWallet, "Digital wallet"},
	}
	tabs := make([]string, 0, len(methods))
	for _, opt := range methods {
		if opt.method == m.pay.method {
			tabs = append(tabs, selected.Render("["+opt.label+"]"))
		} else {
			tabs = append(tabs, " "+opt.label+" ")
		}
	}
	b.WriteString(strings.Join(tabs, "  ") + "\n\n")

	switch m.pay.method {
	case model.PaymentCreditCard:
		for _, input := range m.pay.inputs {
			b.WriteString(input.View() + "\n")
		}
	case model.PaymentDigitalWallet:
		providers := make([]string, 0, len(model.WalletProviders))
		for i, p := range model.WalletProviders {
			if i == m.pay.wallet {
				providers = append(providers, selected.Render("["+string(p)+"]"))
			} else {
				providers = append(providers, " "+string(p)+" ")
			}
		}
		b.WriteString("Wallet: " + strings.Join(providers, " ") + "\n")
	}

	if m.pay.err != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.pay.err) + "\n")
	}
	return b.String()
}

func countdownStyle(level booking.Level) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch level {
	case booking.LevelCritical:
		return style.Foreground(lipgloss.Color("1"))
	case booking.LevelWarning:
		return style.Foreground(lipgloss.Color("3"))
	default:
		return style.Foreground(lipgloss.Color("2"))
	}
}

func (m appModel) confirmationView() string {
	ok := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	out := ok.Render(m.confirmation) + "\n"
	out += fmt.Sprintf("Booking %s • %s\n", m.booking.Id, booking.FormatMoney(m.payment.Amount))
	if m.notice != "" {
		out += "\n" + hint(m.notice) + "\n"
	}
	return out
}

func (m appModel) expiredView() string {
	warn := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	return warn.Render("Payment session expired.") + "\n\n" +
		"The seats held for this booking may be released.\n" +
		hint("Press enter to reload the booking or esc to start over.")
}
