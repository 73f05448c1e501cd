package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/sitterbot/internal/bookings"
	"github.com/example/sitterbot/internal/sitters"
	"github.com/example/sitterbot/internal/sms"
)

const (
	actionAccept  = "accept"
	actionDecline = "decline"
)

// resolve interprets a registered sitter's reply. The reply must be a
// yes/no token or, when the sitter has several pending offers, a 1-based
// pick from the list they were shown. Which booking a reply lands on is
// re-derived from the latest snapshot every time, so a late reply to a
// timed-out offer still works while its booking is around.
func (h *Handler) resolve(ctx context.Context, st sitters.Sitter, body string) (string, error) {
	body = strings.TrimSpace(body)

	var action string
	switch body {
	case "yes", "y":
		action = actionAccept
	case "no", "n":
		action = actionDecline
	default:
		if !isNumeric(body) {
			return fmt.Sprintf(`Hm, I'm not sure what you meant, %s. Please write "yes", "no", or a number (if there are any pending bookings).`, st.Title()), nil
		}
	}

	pending, err := h.Bookings.PendingFor(ctx, st.Name)
	if err != nil {
		return "", err
	}

	if len(pending) == 0 {
		return h.nothingPending(ctx, st, action)
	}

	var target bookings.Booking
	switch {
	case isNumeric(body):
		// A pick from the list we sent; the action was stored when the
		// ambiguous yes/no came in.
		stored, err := h.Sitters.NextAction(ctx, st.Name)
		if err != nil {
			return "", err
		}
		if stored == "" {
			return fmt.Sprintf(`Hm, I'm not sure whether you want to accept or decline, %s. Please write "yes" or "no".`, st.Title()), nil
		}
		action = stored
		idx, _ := strconv.Atoi(body)
		if idx < 1 || idx > len(pending) {
			return fmt.Sprintf("Sorry, which booking did you want to %s? %s", action, enumerate(pending)), nil
		}
		target = pending[idx-1]
		if err := h.Sitters.ClearNextAction(ctx, st.Name); err != nil {
			return "", err
		}
	case len(pending) == 1:
		target = pending[0]
		// Drop any leftover stored action from an earlier prompt.
		if err := h.Sitters.ClearNextAction(ctx, st.Name); err != nil {
			return "", err
		}
	default:
		if err := h.Sitters.SetNextAction(ctx, st.Name, action); err != nil {
			return "", err
		}
		return fmt.Sprintf("Sorry, which booking did you want to %s? %s", action, enumerate(pending)), nil
	}

	return h.applyResolution(ctx, st, target.Window, action)
}

// nothingPending answers a reply that has no pending offer behind it. A
// repeat yes (or a no) after the sitter already accepted confirms the
// standing acceptance instead of complaining.
func (h *Handler) nothingPending(ctx context.Context, st sitters.Sitter, action string) (string, error) {
	if action != "" {
		if b, ok, err := h.Bookings.AcceptedBy(ctx, st.Name); err != nil {
			return "", err
		} else if ok {
			return fmt.Sprintf("You already accepted %s, %s!", b.Window, st.Title()), nil
		}
	}
	return fmt.Sprintf("Sorry, %s, it looks like either that gig is already booked or there aren't any pending gigs.", st.Title()), nil
}

func (h *Handler) applyResolution(ctx context.Context, st sitters.Sitter, w bookings.Window, action string) (string, error) {
	accept := action == actionAccept
	b, err := h.Bookings.ResolveOffer(ctx, w, st.Name, accept)

	switch {
	case err == nil:
		if accept {
			sms.Notify(ctx, h.log(), h.Messenger, h.BookerNumber,
				fmt.Sprintf("%s agreed to babysit on %s!", st.Title(), w))
			return fmt.Sprintf("Awesome, %s!  See you on %s.", st.Title(), w), nil
		}
		return fmt.Sprintf("Okay, no problem, %s!  Next time.", st.Title()), nil

	case errors.Is(err, bookings.ErrAlreadyBooked):
		return fmt.Sprintf("Sorry, %s, it looks like %s is already booked.", st.Title(), w), nil

	case errors.Is(err, bookings.ErrAlreadyResolved):
		if o, ok := b.OfferFor(st.Name); ok && o.Status == bookings.OfferAccepted {
			return fmt.Sprintf("You already accepted %s, %s!", w, st.Title()), nil
		}
		return fmt.Sprintf("Sorry, %s, it looks like either that gig is already booked or there aren't any pending gigs.", st.Title()), nil

	case errors.Is(err, bookings.ErrNoSuchOffer), errors.Is(err, bookings.ErrNotFound):
		return fmt.Sprintf("Sorry, %s, it looks like either that gig is already booked or there aren't any pending gigs.", st.Title()), nil

	default:
		return "", err
	}
}

func enumerate(bs []bookings.Booking) string {
	items := make([]string, len(bs))
	for i, b := range bs {
		items[i] = fmt.Sprintf("%d) %s", i+1, b.Window)
	}
	return strings.Join(items, ", ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
