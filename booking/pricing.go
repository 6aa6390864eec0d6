package booking

import (
	"fmt"
	"time"
)

const WeekendNightMultiplier = 1.25

// IsWeekendNight reports screenings on Friday, Saturday or Sunday starting
// at 18:00 or later.
func IsWeekendNight(screening time.Time) bool {
	switch screening.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return screening.Hour() >= 18
	}
	return false
}

type Quote struct {
	BasePrice    float64
	TicketPrice  float64
	Quantity     int
	Total        float64
	WeekendNight bool
}

func QuotePrice(base float64, screening time.Time, quantity int) Quote {
	q := Quote{BasePrice: base, TicketPrice: base, Quantity: quantity}
	if IsWeekendNight(screening) {
		q.WeekendNight = true
		q.TicketPrice = base * WeekendNightMultiplier
	}
	q.Total = q.TicketPrice * float64(quantity)
	return q
}

// Display is the price breakdown line, e.g. "2 × RM15.00 × 125%".
func (q Quote) Display() string {
	if q.WeekendNight {
		return fmt.Sprintf("%d × RM%.2f × 125%%", q.Quantity, q.BasePrice)
	}
	return fmt.Sprintf("%d × RM%.2f", q.Quantity, q.BasePrice)
}

func FormatMoney(amount float64) string {
	return fmt.Sprintf("RM%.2f", amount)
}
