// Package wizard is the three-step reservation flow: ticket selection, attendee
// details and confirmation.
//
// A Flow owns the shared draft. Each step works on its own staging copy and only
// writes back through Flow.commit, which also notifies persistence subscribers.
package wizard

import (
	"github.com/jayteemoney/ticket/internal/draft"
)

type Step int

const (
	StepSelection Step = iota + 1
	StepDetails
	StepConfirmation
)

func (s Step) Path() string {
	switch s {
	case StepDetails:
		return "/details"
	case StepConfirmation:
		return "/confirmation"
	}
	return "/"
}

func (s Step) Number() int { return int(s) }

func (s Step) Title() string {
	switch s {
	case StepDetails:
		return "Attendee Details"
	case StepConfirmation:
		return "Ticket Successfully Booked!"
	}
	return "Ticket Selection"
}

// Subscriber is called with the new draft after every commit.
type Subscriber func(draft.Draft) error

type Flow struct {
	state draft.Draft
	subs  []Subscriber
}

func NewFlow(d draft.Draft) *Flow {
	return &Flow{state: d}
}

func (f *Flow) Draft() draft.Draft { return f.state }

func (f *Flow) Subscribe(fn Subscriber) {
	f.subs = append(f.subs, fn)
}

// commit replaces the shared draft wholesale and runs the subscribers in order.
// The draft is replaced even if a subscriber fails.
func (f *Flow) commit(d draft.Draft) error {
	f.state = d
	for _, fn := range f.subs {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}
