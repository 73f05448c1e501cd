// Package bot is the inbound side: the Twilio webhook, the booker's
// command handling, and the sitter reply resolver.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/example/sitterbot/internal/bookings"
	"github.com/example/sitterbot/internal/sitters"
	"github.com/example/sitterbot/internal/sms"
	"github.com/example/sitterbot/internal/timeparse"
)

const helpText = `You can add a sitter by giving me their first name and 10-digit phone number, ` +
	`or book a sitter by specifying a date and time.  You can also remove a sitter from the list ` +
	`with "delete" or "remove" and then their first name.`

// Handler turns inbound texts into state transitions. The sender number
// is the only identity signal: the booker's number gets the command
// surface, a registered sitter's number gets the reply resolver, and
// anyone else gets silence.
type Handler struct {
	Bookings  *bookings.Store
	Sitters   *sitters.Registry
	Messenger sms.Messenger

	BookerNumber string
	CountryCode  string

	Logger *slog.Logger

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (h *Handler) Routes() http.Handler {
	r := httprouter.New()
	r.POST("/bot", h.handleInbound)
	r.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

func (h *Handler) handleInbound(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	from := strings.TrimSpace(r.FormValue("From"))
	body := strings.ToLower(strings.TrimSpace(r.FormValue("Body")))

	reply, err := h.Dispatch(r.Context(), from, body)
	if err != nil {
		h.log().Error("dispatch", "from", from, "error", err)
		reply = "Sorry, something went wrong on my end. Please try again."
	}
	sms.WriteTwiML(w, reply)
}

// Dispatch routes a message by sender and returns the reply text. An
// empty reply means say nothing.
func (h *Handler) Dispatch(ctx context.Context, from, body string) (string, error) {
	if from == h.BookerNumber {
		return h.bookerCommand(ctx, body)
	}
	st, ok, err := h.Sitters.LookupByNumber(ctx, from)
	if err != nil {
		return "", err
	}
	if !ok {
		h.log().Info("ignoring unknown sender", "from", from)
		return "", nil
	}
	return h.resolve(ctx, st, body)
}

func (h *Handler) bookerCommand(ctx context.Context, body string) (string, error) {
	switch {
	case body == "":
		return "I wasn't sure what to do with your input. " + helpText, nil
	case countDigits(body) == 10:
		return h.addSitter(ctx, body)
	case strings.Contains(body, "remove") || strings.Contains(body, "delete"):
		return h.removeSitter(ctx, body)
	default:
		return h.requestBooking(ctx, body)
	}
}

func (h *Handler) addSitter(ctx context.Context, body string) (string, error) {
	fields := strings.Fields(body)
	if len(fields) < 2 || countDigits(fields[0]) > 0 {
		return "Sorry, did you mean to add a sitter?  Please try again.", nil
	}
	name := fields[0]
	number, err := sitters.NormalizeNumber(strings.Join(fields[1:], " "), h.CountryCode)
	if err != nil {
		return "Sorry, did you mean to add a sitter?  Please try again.", nil
	}

	st, err := h.Sitters.Add(ctx, name, number)
	if errors.Is(err, sitters.ErrAlreadyExists) {
		existing := sitters.Sitter{Name: name}
		return fmt.Sprintf("I already have a sitter named %s. Remove them first to change the number.", existing.Title()), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Okay, I added %s to sitters, with phone # %s.", st.Title(), st.Number), nil
}

func (h *Handler) removeSitter(ctx context.Context, body string) (string, error) {
	fields := strings.Fields(body)
	if len(fields) < 2 {
		return `No such sitter. Please write "delete [sitter's first name]."`, nil
	}
	st, err := h.Sitters.Remove(ctx, fields[1])
	if errors.Is(err, sitters.ErrNotFound) {
		return `No such sitter. Please write "delete [sitter's first name]."`, nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Okay, I removed %s from the sitters.", st.Title()), nil
}

// requestBooking is the intake path: parse the window, then create the
// booking unless one is already open.
func (h *Handler) requestBooking(ctx context.Context, body string) (string, error) {
	w, err := timeparse.Window(body, h.now())
	if err != nil {
		return `Please specify an end time (e.g. "tomorrow 5pm to 10pm").`, nil
	}
	if _, err := h.Bookings.CreateIfNoneOpen(ctx, w); err != nil {
		if errors.Is(err, bookings.ErrActiveBooking) {
			return "Please wait until the current booking is either booked or expires.", nil
		}
		return "", err
	}
	return fmt.Sprintf("Okay, I will reach out to the sitters about sitting on %s.", w), nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
