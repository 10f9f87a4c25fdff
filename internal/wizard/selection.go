package wizard

import (
	"errors"
	"fmt"

	"github.com/jayteemoney/ticket/internal/draft"
)

var ErrNoTicketType = errors.New("select a ticket type to continue")

// Selection is the uncommitted state of the ticket selection step.
type Selection struct {
	flow  *Flow
	Type  draft.TicketType
	Count int
}

func (f *Flow) BeginSelection() *Selection {
	s := &Selection{flow: f, Count: draft.MinTicketCount}
	d := f.Draft()
	if d.TicketType.Known() {
		s.Type = d.TicketType
	}
	if draft.ValidCount(d.TicketCount) {
		s.Count = d.TicketCount
	}
	return s
}

func (s *Selection) Select(t draft.TicketType) error {
	if !t.Known() {
		return fmt.Errorf("%w: %q", draft.ErrUnknownTicketType, string(t))
	}
	s.Type = t
	return nil
}

func (s *Selection) SetCount(n int) error {
	if !draft.ValidCount(n) {
		return fmt.Errorf("%w (got %d)", draft.ErrTicketCount, n)
	}
	s.Count = n
	return nil
}

func (s *Selection) CanAdvance() bool {
	return s.Type != draft.TicketNone
}

// Next commits the ticket fields and moves on to attendee details. Fields owned
// by other steps are carried over untouched.
func (s *Selection) Next() (Step, error) {
	if !s.CanAdvance() {
		return StepSelection, ErrNoTicketType
	}
	d := s.flow.Draft()
	d.TicketType = s.Type
	d.TicketCount = s.Count
	if err := s.flow.commit(d); err != nil {
		return StepSelection, err
	}
	return StepDetails, nil
}

// Cancel resets the shared draft and the staged selection to their defaults.
// Attendee fields are cleared too.
func (s *Selection) Cancel() (Step, error) {
	s.Type = draft.TicketNone
	s.Count = draft.MinTicketCount
	if err := s.flow.commit(draft.Default()); err != nil {
		return StepSelection, err
	}
	return StepSelection, nil
}
