// Package scheduler advances open bookings: it offers each one to
// sitters in roster order, one sitter at a time, until somebody accepts
// or everybody has declined.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/sitterbot/internal/bookings"
	"github.com/example/sitterbot/internal/sitters"
	"github.com/example/sitterbot/internal/sms"
)

// Scheduler polls the stores on an interval and advances every open
// booking independently; one booking failing does not stop the others.
type Scheduler struct {
	Bookings  *bookings.Store
	Sitters   *sitters.Registry
	Messenger sms.Messenger

	BookerNumber string
	Interval     time.Duration
	OfferTimeout time.Duration

	Logger *slog.Logger

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *Scheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	// kick immediately
	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick reloads both collections and advances every booking once.
func (s *Scheduler) Tick(ctx context.Context) {
	roster, err := s.Sitters.All(ctx)
	if err != nil {
		s.log().Error("load sitters", "error", err)
		return
	}
	bs, err := s.Bookings.All(ctx)
	if err != nil {
		s.log().Error("load bookings", "error", err)
		return
	}

	for _, b := range bs {
		if err := s.advance(ctx, b, roster); err != nil {
			s.log().Error("advance booking", "window", b.Window.String(), "error", err)
		}
	}
}

// advance issues at most one new offer for the booking. A booking with a
// live pending offer waits; once that offer is older than OfferTimeout
// the next unapproached sitter becomes eligible, while the stale offer
// stays pending and a late reply to it is still honored.
func (s *Scheduler) advance(ctx context.Context, b bookings.Booking, roster []sitters.Sitter) error {
	if !b.Open() {
		return nil
	}

	names := make([]string, len(roster))
	for i, st := range roster {
		names[i] = st.Name
	}

	if b.ExhaustedBy(names) {
		sms.Notify(ctx, s.log(), s.Messenger, s.BookerNumber,
			fmt.Sprintf("No sitters are available for %s. Removing the request.", b.Window))
		_, err := s.Bookings.PurgeExhausted(ctx, names)
		return err
	}

	now := s.now()
	for _, o := range b.Offers {
		if o.Status == bookings.OfferPending && now.Sub(o.OfferedAt) < s.OfferTimeout {
			return nil
		}
	}

	var next *sitters.Sitter
	for i, st := range roster {
		if _, ok := b.OfferFor(st.Name); !ok {
			next = &roster[i]
			break
		}
	}
	if next == nil {
		// Everyone has been approached; stale pending offers remain
		// outstanding until someone replies.
		return nil
	}

	if err := s.Bookings.RecordOffer(ctx, b.Window, next.Name, now); err != nil {
		// A concurrent resolve or purge got there first.
		if errors.Is(err, bookings.ErrDuplicateOffer) || errors.Is(err, bookings.ErrNotFound) {
			return nil
		}
		return err
	}

	sms.Notify(ctx, s.log(), s.Messenger, next.Number,
		fmt.Sprintf("%s, are you available to babysit on %s?", next.Title(), b.Window))
	sms.Notify(ctx, s.log(), s.Messenger, s.BookerNumber,
		fmt.Sprintf("Okay, I offered %s to %s.", b.Window, next.Title()))
	return nil
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
