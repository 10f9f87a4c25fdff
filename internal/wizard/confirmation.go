package wizard

import (
	"strconv"

	"github.com/jayteemoney/ticket/internal/draft"
)

const notAvailable = "N/A"

// Summary is the read-only view rendered on the confirmation step.
type Summary struct {
	Event          draft.Event
	ProfileImage   string
	TicketType     string
	Price          string
	TicketCount    int
	FullName       string
	Email          string
	SpecialRequest string
}

func (f *Flow) Confirmation() Summary {
	d := f.Draft()
	return Summary{
		Event:          draft.Techember,
		ProfileImage:   d.ProfileImage,
		TicketType:     orNA(string(d.TicketType)),
		Price:          DisplayPrice(d.TicketType),
		TicketCount:    d.TicketCount,
		FullName:       orNA(d.FullName),
		Email:          orNA(d.Email),
		SpecialRequest: d.SpecialRequest,
	}
}

// DisplayPrice renders the catalogue price of t. Zero-priced, empty and unknown
// types all read "Free".
func DisplayPrice(t draft.TicketType) string {
	p, ok := t.Price()
	if !ok || p == 0 {
		return "Free"
	}
	return "$" + strconv.Itoa(p)
}

// TierPrice is the price label used on the selection screen, where the free tier
// reads "$0".
func TierPrice(t draft.Tier) string {
	return "$" + strconv.Itoa(t.Price)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
