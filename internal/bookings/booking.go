// Package bookings owns the booking collection: the requested sitting
// windows and the per-sitter offer history for each of them.
package bookings

import (
	"fmt"
	"time"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
)

// TimeOfDay is a clock time without a date; a booking's end is one of
// these because the booker only ever gives an end time ("5pm to 10pm").
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) String() string {
	return time.Date(0, time.January, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("3:04PM")
}

// Window is the identity of a booking: its start instant and end time of
// day. Two bookings with the same window are the same booking.
type Window struct {
	Start time.Time `json:"start"`
	End   TimeOfDay `json:"end"`
}

func (w Window) Equal(o Window) bool {
	return w.Start.Equal(o.Start) && w.End == o.End
}

func (w Window) Before(o Window) bool {
	if !w.Start.Equal(o.Start) {
		return w.Start.Before(o.Start)
	}
	return w.End.Hour*60+w.End.Minute < o.End.Hour*60+o.End.Minute
}

// String renders the window the way every outbound message describes it,
// e.g. "6/14 from 5:00PM to 10:00PM". All user-facing text goes through
// here so offers, confirmations, and disambiguation lists agree.
func (w Window) String() string {
	return fmt.Sprintf("%s to %s", w.Start.Format("1/2 from 3:04PM"), w.End)
}

// Offer is one sitter's invitation to fill a window. OfferedAt is set
// when the offer first goes out and is never reset, even if the sitter
// goes quiet and the scheduler moves on to the next sitter.
type Offer struct {
	Sitter    string      `json:"sitter"`
	Status    OfferStatus `json:"status"`
	OfferedAt time.Time   `json:"offered_at"`
}

// Booking tracks who has been approached for a window and what they
// said. Offers keeps approach order: it drives both who is next and how
// disambiguation lists are numbered.
type Booking struct {
	Window Window  `json:"window"`
	Offers []Offer `json:"offers"`
}

// OfferFor returns the sitter's offer on this booking, if any.
func (b Booking) OfferFor(sitter string) (Offer, bool) {
	for _, o := range b.Offers {
		if o.Sitter == sitter {
			return o, true
		}
	}
	return Offer{}, false
}

// Accepted returns the accepted offer, if the booking has one.
func (b Booking) Accepted() (Offer, bool) {
	for _, o := range b.Offers {
		if o.Status == OfferAccepted {
			return o, true
		}
	}
	return Offer{}, false
}

// Open reports whether the booking is still looking for a sitter.
func (b Booking) Open() bool {
	_, ok := b.Accepted()
	return !ok
}

// ExhaustedBy reports whether every named sitter has turned the booking
// down. An empty roster never exhausts a booking.
func (b Booking) ExhaustedBy(sitterNames []string) bool {
	if len(sitterNames) == 0 || !b.Open() {
		return false
	}
	for _, name := range sitterNames {
		o, ok := b.OfferFor(name)
		if !ok || o.Status == OfferPending {
			return false
		}
	}
	return true
}
