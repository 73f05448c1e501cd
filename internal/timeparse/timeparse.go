// Package timeparse turns the booker's free-text request ("tomorrow 5pm
// to 10pm") into a booking window.
package timeparse

import (
	"errors"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/example/sitterbot/internal/bookings"
)

var ErrNoEndTime = errors.New(`no end time: want "<start> to <end>"`)

func newParser() *when.Parser {
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	return p
}

// Window parses a request of the form "<start> to <end>" relative to
// now. The start carries a date; the end is a time of day on the same
// sitting.
func Window(body string, now time.Time) (bookings.Window, error) {
	startText, endText, found := strings.Cut(body, " to ")
	if !found {
		return bookings.Window{}, ErrNoEndTime
	}

	p := newParser()

	start, err := p.Parse(strings.TrimSpace(startText), now)
	if err != nil || start == nil {
		return bookings.Window{}, ErrNoEndTime
	}
	end, err := p.Parse(strings.TrimSpace(endText), now)
	if err != nil || end == nil {
		return bookings.Window{}, ErrNoEndTime
	}

	return bookings.Window{
		Start: start.Time,
		End:   bookings.TimeOfDay{Hour: end.Time.Hour(), Minute: end.Time.Minute()},
	}, nil
}
