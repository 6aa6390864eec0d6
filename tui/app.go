package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"absolute-cinema-cli/booking"
	"absolute-cinema-cli/catalog"
	"absolute-cinema-cli/logger"
	"absolute-cinema-cli/model"
	"absolute-cinema-cli/service"
	"absolute-cinema-cli/store"
)

type appState int

const (
	stateLoadingListing appState = iota
	stateSelectDate
	stateSelectMovie
	stateSelectShowtime
	stateRecentShowtimes
	stateLoadingSeats
	stateSeatMap
	stateSubmitting
	stateLoadingBooking
	stateBookingDetail
	stateStartingPayment
	statePayment
	stateProcessingPayment
	stateConfirmation
	stateSessionExpired
	stateError
)

// TickFunc schedules the next countdown tick. tea.Tick in production.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

type Options struct {
	Client   *service.Client
	Catalog  *catalog.Source
	MaxSeats int
	Log      *logger.Logger
	Tick     TickFunc
}

type appModel struct {
	client   *service.Client
	catalog  *catalog.Source
	checkout *booking.Checkout
	log      *logger.Logger
	tick     TickFunc

	state     appState
	lastState appState
	err       error

	width  int
	height int

	listing  catalog.Listing
	date     catalog.DateOption
	movie    model.Movie
	showtime model.LazyShowtime

	dateList     list.Model
	movieList    list.Model
	showtimeList list.Model
	recentList   list.Model

	grid      booking.Grid
	selection *booking.Selection
	cursorRow int
	cursorCol int
	notice    string

	booking model.Booking

	payment      model.Payment
	countdown    *booking.Countdown
	countdownGen int
	pay          paymentForm
	confirmation string

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type listingMsg struct {
	listing catalog.Listing
	err     error
}

type seatsMsg struct {
	seats []model.Seat
	err   error
}

type bookingCreatedMsg struct {
	bookingID string
}

type bookingMsg struct {
	booking model.Booking
	err     error
}

type paymentStartedMsg struct {
	payment   model.Payment
	countdown *booking.Countdown
	err       error
}

type countdownTickMsg struct {
	gen int
}

type paymentDoneMsg struct {
	confirmation string
	err          error
}

type ticketSavedMsg struct {
	path string
	err  error
}

func New(opts Options) tea.Model {
	client := opts.Client
	if client == nil {
		client = service.NewClient("", nil)
	}
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	src := opts.Catalog
	if src == nil {
		src = catalog.NewSource(client, log)
	}
	tick := opts.Tick
	if tick == nil {
		tick = tea.Tick
	}

	m := appModel{
		client:    client,
		catalog:   src,
		checkout:  booking.NewCheckout(client, log),
		log:       log.WithComponent("tui"),
		tick:      tick,
		state:     stateLoadingListing,
		selection: booking.NewSelection(opts.MaxSeats),
		pay:       newPaymentForm(),
	}

	m.dateList = newList("Select Date")
	m.movieList = newList("Select Movie")
	m.showtimeList = newList("Select Showtime")
	m.recentList = newList("Recent Showtimes")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchListingCmd(), m.spinner.Tick, textinput.Blink)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.state == statePayment {
			if next, cmd, handled := m.handlePaymentKey(msg); handled {
				return next, cmd
			}
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case listingMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.listing = msg.listing
		options := catalog.DateOptions(m.listing.Showtimes)
		if len(options) == 0 {
			return m, errCmd(errors.New("no showtimes scheduled"))
		}
		m.dateList.SetItems(buildDateItems(options))
		m.dateList.Select(0)
		m.state = stateSelectDate
		return m, nil

	case seatsMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, stateSelectShowtime)
		}
		m.grid = booking.BuildGrid(msg.seats)
		m.clampCursor()
		m.dropTakenSeats()
		m.state = stateSeatMap
		return m, nil

	case bookingCreatedMsg:
		m.selection.Clear()
		m.notice = ""
		m.state = stateLoadingBooking
		return m, tea.Batch(m.fetchBookingCmd(msg.bookingID), m.spinner.Tick)

	case bookingMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, stateSelectDate)
		}
		m.booking = msg.booking
		m.state = stateBookingDetail
		return m, nil

	case paymentStartedMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, stateBookingDetail)
		}
		m.payment = msg.payment
		m.countdown = msg.countdown
		m.countdownGen++
		m.pay = newPaymentForm()
		m.state = statePayment
		return m, tea.Batch(m.scheduleTick(), textinput.Blink)

	case countdownTickMsg:
		if msg.gen != m.countdownGen || m.countdown == nil {
			return m, nil
		}
		if m.state != statePayment && m.state != stateProcessingPayment {
			return m, nil
		}
		if m.countdown.Tick() {
			m.log.Info("payment window expired", "booking_id", m.booking.Id.String())
			m.state = stateSessionExpired
			return m, nil
		}
		return m, m.scheduleTick()

	case paymentDoneMsg:
		if msg.err != nil {
			expired := m.state == stateSessionExpired || (m.countdown != nil && m.countdown.Expired())
			if expired || errors.Is(msg.err, booking.ErrPaymentExpired) {
				m.log.Warn("payment failed after expiry", "booking_id", m.booking.Id.String(), "error", msg.err.Error())
				m.countdownGen++
				m.state = stateSessionExpired
				return m, nil
			}
			m.pay.err = msg.err.Error()
			m.state = statePayment
			return m, nil
		}
		m.countdownGen++
		m.confirmation = msg.confirmation
		if m.confirmation == "" {
			m.confirmation = "Payment successful"
		}
		m.state = stateConfirmation
		return m, nil

	case ticketSavedMsg:
		if msg.err != nil {
			m.notice = "Ticket download failed: " + msg.err.Error()
		} else {
			m.notice = "Ticket saved to " + msg.path
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectDate:
		m.dateList, cmd = m.dateList.Update(msg)
	case stateSelectMovie:
		m.movieList, cmd = m.movieList.Update(msg)
	case stateSelectShowtime:
		m.showtimeList, cmd = m.showtimeList.Update(msg)
	case stateRecentShowtimes:
		m.recentList, cmd = m.recentList.Update(msg)
	case statePayment:
		cmd = m.pay.update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingListing, stateLoadingSeats, stateSubmitting, stateLoadingBooking, stateStartingPayment, stateProcessingPayment:
		return header + "\n\n" + m.loadingView()
	case stateSelectDate:
		return header + "\n\n" + m.dateList.View()
	case stateSelectMovie:
		return header + "\n\n" + m.movieList.View()
	case stateSelectShowtime:
		return header + "\n\n" + m.showtimeList.View()
	case stateRecentShowtimes:
		return header + "\n\n" + m.recentList.View()
	case stateSeatMap:
		return header + "\n\n" + m.renderSeatMap()
	case stateBookingDetail:
		return header + "\n\n" + m.bookingView()
	case statePayment:
		return header + "\n\n" + m.paymentView()
	case stateConfirmation:
		return header + "\n\n" + m.confirmationView()
	case stateSessionExpired:
		return header + "\n\n" + m.expiredView()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Absolute Cinema")
	sub := []string{}
	if m.date.Value != "" && m.state < stateBookingDetail {
		sub = append(sub, "Date: "+m.date.Display)
	}
	if m.movie.Title != "" && m.state >= stateSelectShowtime && m.state < stateBookingDetail {
		sub = append(sub, "Movie: "+m.movie.Title)
	}
	if m.showtime.Id != 0 && (m.state == stateSeatMap || m.state == stateLoadingSeats || m.state == stateSubmitting) {
		sub = append(sub, fmt.Sprintf("%s • Hall %d • %s", m.showtime.CinemaName, m.showtime.Hall, m.showtime.ScreeningTime.Format("15:04")))
	}
	if m.booking.Id != "" && m.state >= stateBookingDetail && m.state != stateError {
		sub = append(sub, "Booking: "+m.booking.Id.String())
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}

	hints := "ctrl+c quit • esc back • type to filter • enter select"
	switch m.state {
	case stateSelectDate:
		hints = "ctrl+c quit • type to filter • enter select • ctrl+r recent showtimes"
	case stateSeatMap:
		hints = "ctrl+c quit • esc back • arrows move • space toggle seat • enter book • r refresh"
	case stateBookingDetail:
		hints = "ctrl+c quit • esc home • p pay"
	case statePayment:
		hints = "ctrl+c quit • esc back • tab switch method • ↑/↓ field • ←/→ wallet • enter pay"
	case stateConfirmation:
		hints = "ctrl+c quit • t save ticket • enter home"
	case stateSessionExpired:
		hints = "ctrl+c quit • enter view booking • esc home"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "q":
		if m.activeList() == nil && m.state != statePayment {
			return m, tea.Quit, true
		}
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	case "ctrl+r":
		if m.state == stateSelectDate {
			return m.openRecentShowtimes()
		}
	}

	if m.state == stateSeatMap {
		return m.handleSeatKey(msg)
	}

	switch m.state {
	case stateBookingDetail:
		if msg.String() == "p" {
			m.state = stateStartingPayment
			return m, tea.Batch(m.startPaymentCmd(m.booking.Id.String()), m.spinner.Tick), true
		}
	case stateConfirmation:
		if msg.String() == "t" {
			return m, m.saveTicketCmd(m.booking.Id.String()), true
		}
	}

	if msg.Type != tea.KeyEnter {
		return m, nil, false
	}
	switch m.state {
	case stateSelectDate:
		item, ok := m.dateList.SelectedItem().(dateItem)
		if !ok {
			return m, nil, true
		}
		m.date = item.option
		m.movieList.Title = "Movies • " + item.option.Display
		m.movieList.SetItems(buildMovieItems(catalog.MoviesOn(m.listing.Movies, m.listing.Showtimes, m.date.Value)))
		m.movieList.Select(0)
		m.state = stateSelectMovie
		return m, nil, true
	case stateSelectMovie:
		item, ok := m.movieList.SelectedItem().(movieItem)
		if !ok {
			return m, nil, true
		}
		m.movie = item.movie
		showtimes := catalog.ShowtimesForMovie(catalog.ShowtimesOn(m.listing.Showtimes, m.date.Value), m.movie.Title)
		m.showtimeList.Title = "Showtimes • " + m.movie.Title
		m.showtimeList.SetItems(buildShowtimeItems(showtimes, m.movie))
		m.showtimeList.Select(0)
		m.state = stateSelectShowtime
		return m, nil, true
	case stateSelectShowtime:
		item, ok := m.showtimeList.SelectedItem().(showtimeItem)
		if !ok {
			return m, nil, true
		}
		return m.openSeatMap(item.showtime)
	case stateRecentShowtimes:
		item, ok := m.recentList.SelectedItem().(recentItem)
		if !ok {
			return m, nil, true
		}
		st := model.LazyShowtime{
			Id:            item.recent.ShowtimeID,
			MovieTitle:    item.recent.MovieTitle,
			CinemaName:    item.recent.CinemaName,
			ScreeningTime: model.Timestamp{Time: item.recent.Screening},
		}
		if movie, ok := catalog.FindMovie(m.listing.Movies, st.MovieTitle); ok {
			m.movie = movie
		}
		return m.openSeatMap(st)
	case stateConfirmation:
		m.resetCheckout()
		m.state = stateSelectDate
		return m, nil, true
	case stateSessionExpired:
		m.countdownGen++
		m.state = stateLoadingBooking
		return m, tea.Batch(m.fetchBookingCmd(m.booking.Id.String()), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) openSeatMap(st model.LazyShowtime) (appModel, tea.Cmd, bool) {
	m.showtime = st
	m.selection.Clear()
	m.notice = ""
	m.cursorRow, m.cursorCol = 0, 0
	if err := store.RememberShowtime(st); err != nil {
		m.log.Debug("remember showtime", "error", err)
	}
	m.state = stateLoadingSeats
	return m, tea.Batch(m.fetchSeatsCmd(st.Id), m.spinner.Tick), true
}

func (m appModel) openRecentShowtimes() (appModel, tea.Cmd, bool) {
	recents, err := store.LoadRecentShowtimes()
	if err != nil {
		return m, errCmd(err), true
	}
	if len(recents) == 0 {
		return m, errWithStateCmd(errors.New("no recent showtimes yet"), stateSelectDate), true
	}
	m.recentList.SetItems(buildRecentItems(recents))
	m.recentList.Select(0)
	m.state = stateRecentShowtimes
	return m, nil, true
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	switch m.state {
	case stateSelectMovie, stateRecentShowtimes:
		m.state = stateSelectDate
	case stateSelectShowtime:
		m.state = stateSelectMovie
	case stateSeatMap:
		m.selection.Clear()
		m.notice = ""
		m.state = stateSelectShowtime
		if len(m.showtimeList.Items()) == 0 {
			m.state = stateSelectDate
		}
	case stateBookingDetail, stateConfirmation, stateSessionExpired:
		m.resetCheckout()
		m.state = stateSelectDate
	case statePayment:
		m.countdownGen++
		m.state = stateBookingDetail
	case stateError:
		m.state = m.lastState
	default:
		return m, nil
	}
	return m, nil
}

func (m *appModel) resetCheckout() {
	m.countdownGen++
	m.countdown = nil
	m.payment = model.Payment{}
	m.confirmation = ""
	m.notice = ""
}

func (m appModel) scheduleTick() tea.Cmd {
	gen := m.countdownGen
	return m.tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	listPtr.SetFilterText(listPtr.FilterValue() + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := trimLastRune(listPtr.FilterValue())
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectDate:
		return &m.dateList
	case stateSelectMovie:
		return &m.movieList
	case stateSelectShowtime:
		return &m.showtimeList
	case stateRecentShowtimes:
		return &m.recentList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	switch m.state {
	case stateLoadingListing, stateLoadingSeats, stateSubmitting, stateLoadingBooking, stateStartingPayment, stateProcessingPayment:
		return true
	}
	return false
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingListing:
		title = "Loading showtimes"
	case stateLoadingSeats:
		title = "Loading seats"
	case stateSubmitting:
		title = "Booking seats"
	case stateLoadingBooking:
		title = "Loading booking"
	case stateStartingPayment:
		title = "Opening payment"
	case stateProcessingPayment:
		title = "Processing payment"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Talking to the box office..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.dateList.SetSize(m.width, h)
	m.movieList.SetSize(m.width, h)
	m.showtimeList.SetSize(m.width, h)
	m.recentList.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithStateCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState, returnStateSet: true}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingListing:
		return stateSelectDate
	case stateLoadingSeats:
		return stateSelectShowtime
	case stateSubmitting:
		return stateSeatMap
	case stateLoadingBooking, stateStartingPayment:
		return stateBookingDetail
	case stateProcessingPayment:
		return statePayment
	case stateError:
		return stateSelectDate
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func (m appModel) fetchListingCmd() tea.Cmd {
	return func() tea.Msg {
		listing, err := m.catalog.Listing(context.Background())
		return listingMsg{listing: listing, err: err}
	}
}

func (m appModel) fetchSeatsCmd(showtimeID int64) tea.Cmd {
	return func() tea.Msg {
		seats, err := m.client.GetSeats(context.Background(), fmt.Sprint(showtimeID))
		return seatsMsg{seats: seats, err: err}
	}
}

func (m appModel) fetchBookingCmd(bookingID string) tea.Cmd {
	return func() tea.Msg {
		b, err := m.client.GetBooking(context.Background(), bookingID)
		return bookingMsg{booking: b, err: err}
	}
}

func (m appModel) startPaymentCmd(bookingID string) tea.Cmd {
	return func() tea.Msg {
		payment, countdown, err := m.checkout.Start(context.Background(), bookingID, nil)
		return paymentStartedMsg{payment: payment, countdown: countdown, err: err}
	}
}
