// Package draft holds the Reservation Draft: the single record of an in-progress
// ticket booking that every wizard step reads and commits into.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
)

type TicketType string

const (
	TicketNone    TicketType = ""
	TicketFree    TicketType = "Free"
	TicketVIP     TicketType = "VIP"
	TicketVIPPlus TicketType = "VIP Plus"
)

const (
	MinTicketCount = 1
	MaxTicketCount = 10
)

var (
	ErrUnknownTicketType = errors.New("unknown ticket type")
	ErrTicketCount       = fmt.Errorf("ticket count must be between %d and %d", MinTicketCount, MaxTicketCount)
)

// Tier is one entry of the fixed ticket catalogue. Price is in whole dollars.
type Tier struct {
	Type  TicketType
	Price int
}

var tiers = []Tier{
	{Type: TicketFree, Price: 0},
	{Type: TicketVIP, Price: 150},
	{Type: TicketVIPPlus, Price: 250},
}

// Tiers returns the catalogue in display order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

func ParseTicketType(s string) (TicketType, error) {
	for _, t := range tiers {
		if string(t.Type) == s {
			return t.Type, nil
		}
	}
	return TicketNone, fmt.Errorf("%w: %q", ErrUnknownTicketType, s)
}

// Price reports the tier price; ok is false for an empty or unknown type.
func (t TicketType) Price() (price int, ok bool) {
	for _, tier := range tiers {
		if tier.Type == t {
			return tier.Price, true
		}
	}
	return 0, false
}

func (t TicketType) Known() bool {
	_, ok := t.Price()
	return ok
}

func ValidCount(n int) bool {
	return n >= MinTicketCount && n <= MaxTicketCount
}

// Counts lists the selectable quantities.
func Counts() []int {
	out := make([]int, 0, MaxTicketCount-MinTicketCount+1)
	for n := MinTicketCount; n <= MaxTicketCount; n++ {
		out = append(out, n)
	}
	return out
}

type Draft struct {
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	TicketType     TicketType `json:"ticketType"`
	TicketCount    int        `json:"ticketCount"`
	SpecialRequest string     `json:"specialRequest"`
	ProfileImage   string     `json:"profileImage"`
}

func Default() Draft {
	return Draft{TicketCount: MinTicketCount}
}

func Encode(d Draft) ([]byte, error) {
	return json.Marshal(d)
}

// Decode parses a persisted draft. Keys that are absent decode to their zero value,
// so a draft written before a field existed still loads.
func Decode(b []byte) (Draft, error) {
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}
