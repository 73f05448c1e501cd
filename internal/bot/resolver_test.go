package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sitterbot/internal/bookings"
)

// twoPendingOffers puts amy on two bookings: window A (June 14) and
// window B (June 21), both pending. The second booking is created after
// the first is accepted by someone else, which is the only way a sitter
// ends up with two pending offers under the one-open-booking rule.
func twoPendingOffers(t *testing.T, f *fixture) (a, b bookings.Window) {
	t.Helper()
	ctx := context.Background()

	a = bookings.Window{
		Start: time.Date(2026, time.June, 14, 17, 0, 0, 0, time.UTC),
		End:   bookings.TimeOfDay{Hour: 22},
	}
	b = bookings.Window{
		Start: time.Date(2026, time.June, 21, 17, 0, 0, 0, time.UTC),
		End:   bookings.TimeOfDay{Hour: 22},
	}

	_, err := f.bookings.CreateIfNoneOpen(ctx, a)
	require.NoError(t, err)
	f.recordOffer(t, a, "amy")
	f.recordOffer(t, a, "bea")
	_, err = f.bookings.ResolveOffer(ctx, a, "bea", true)
	require.NoError(t, err)

	_, err = f.bookings.CreateIfNoneOpen(ctx, b)
	require.NoError(t, err)
	f.recordOffer(t, b, "amy")
	return a, b
}

func TestResolve_UnknownToken(t *testing.T) {
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")

	reply := f.dispatch(t, amyNumber, "maybe")
	assert.Equal(t, `Hm, I'm not sure what you meant, Amy. Please write "yes", "no", or a number (if there are any pending bookings).`, reply)
}

func TestResolve_NothingPending(t *testing.T) {
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")

	reply := f.dispatch(t, amyNumber, "yes")
	assert.Equal(t, "Sorry, Amy, it looks like either that gig is already booked or there aren't any pending gigs.", reply)
}

func TestResolve_ShortTokens(t *testing.T) {
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")
	w := f.createBooking(t)
	f.recordOffer(t, w, "amy")

	reply := f.dispatch(t, amyNumber, "y")
	assert.Equal(t, "Awesome, Amy!  See you on 6/14 from 5:00PM to 10:00PM.", reply)
}

func TestResolve_AcceptWhenAlreadyBookedByOther(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")
	f.dispatch(t, bookerNumber, "bea 555 999 0000")
	w := f.createBooking(t)
	f.recordOffer(t, w, "amy")
	f.recordOffer(t, w, "bea")

	_, err := f.bookings.ResolveOffer(ctx, w, "bea", true)
	require.NoError(t, err)

	reply := f.dispatch(t, amyNumber, "yes")
	assert.Equal(t, "Sorry, Amy, it looks like 6/14 from 5:00PM to 10:00PM is already booked.", reply)

	// Amy's offer is untouched; she may still decline it.
	b, err := f.bookings.Get(ctx, w)
	require.NoError(t, err)
	o, _ := b.OfferFor("amy")
	assert.Equal(t, bookings.OfferPending, o.Status)
}

func TestResolve_AmbiguousYesPromptsWithList(t *testing.T) {
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")
	f.dispatch(t, bookerNumber, "bea 555 999 0000")
	twoPendingOffers(t, f)

	reply := f.dispatch(t, amyNumber, "yes")
	assert.Equal(t, "Sorry, which booking did you want to accept? "+
		"1) 6/14 from 5:00PM to 10:00PM, 2) 6/21 from 5:00PM to 10:00PM", reply)

	action, err := f.sitters.NextAction(context.Background(), "amy")
	require.NoError(t, err)
	assert.Equal(t, "accept", action)
}

func TestResolve_NumericPickResolvesThatWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")
	f.dispatch(t, bookerNumber, "bea 555 999 0000")
	a, b := twoPendingOffers(t, f)

	f.dispatch(t, amyNumber, "no")
	reply := f.dispatch(t, amyNumber, "2")
	assert.Equal(t, "Okay, no problem, Amy!  Next time.", reply)

	bkB, err := f.bookings.Get(ctx, b)
	require.NoError(t, err)
	o, _ := bkB.OfferFor("amy")
	assert.Equal(t, bookings.OfferDeclined, o.Status)

	bkA, err := f.bookings.Get(ctx, a)
	require.NoError(t, err)
	o, _ = bkA.OfferFor("amy")
	assert.Equal(t, bookings.OfferPending, o.Status, "window 1 is untouched by a pick of 2")

	// The stored action is cleared once used.
	action, err := f.sitters.NextAction(ctx, "amy")
	require.NoError(t, err)
	assert.Empty(t, action)
}

func TestResolve_NumericPickOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")
	f.dispatch(t, bookerNumber, "bea 555 999 0000")
	a, _ := twoPendingOffers(t, f)

	f.dispatch(t, amyNumber, "no")
	reply := f.dispatch(t, amyNumber, "1")
	assert.Equal(t, "Okay, no problem, Amy!  Next time.", reply)

	bkA, err := f.bookings.Get(ctx, a)
	require.NoError(t, err)
	o, _ := bkA.OfferFor("amy")
	assert.Equal(t, bookings.OfferDeclined, o.Status)
}

func TestResolve_OutOfRangePickReprompts(t *testing.T) {
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")
	f.dispatch(t, bookerNumber, "bea 555 999 0000")
	twoPendingOffers(t, f)

	f.dispatch(t, amyNumber, "yes")
	reply := f.dispatch(t, amyNumber, "7")
	assert.Equal(t, "Sorry, which booking did you want to accept? "+
		"1) 6/14 from 5:00PM to 10:00PM, 2) 6/21 from 5:00PM to 10:00PM", reply)

	// Still remembered for the next pick.
	action, err := f.sitters.NextAction(context.Background(), "amy")
	require.NoError(t, err)
	assert.Equal(t, "accept", action)
}

func TestResolve_NumericWithoutStoredAction(t *testing.T) {
	f := newFixture(t)
	f.dispatch(t, bookerNumber, "amy 555 123 4567")
	f.dispatch(t, bookerNumber, "bea 555 999 0000")
	twoPendingOffers(t, f)

	reply := f.dispatch(t, amyNumber, "2")
	assert.Equal(t, `Hm, I'm not sure whether you want to accept or decline, Amy. Please write "yes" or "no".`, reply)
}
