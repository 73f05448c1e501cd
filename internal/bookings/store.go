package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/sitterbot/internal/store"
)

const collection = "bookings"

var (
	ErrActiveBooking   = errors.New("an active booking already exists")
	ErrNotFound        = errors.New("booking not found")
	ErrDuplicateOffer  = errors.New("sitter already has an offer for this booking")
	ErrNoSuchOffer     = errors.New("sitter has no offer for this booking")
	ErrAlreadyResolved = errors.New("offer already resolved")
	ErrAlreadyBooked   = errors.New("booking already accepted by another sitter")
)

// Store is the only writer of the bookings collection. The scheduler and
// the inbound-message handler both mutate through it concurrently, so
// every mutation reloads the latest snapshot, applies the change, and
// persists, all under one mutex.
type Store struct {
	mu sync.Mutex
	s  store.Store
}

func NewStore(s store.Store) *Store {
	return &Store{s: s}
}

func (st *Store) load(ctx context.Context) ([]Booking, error) {
	data, err := st.s.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var bs []Booking
	if err := json.Unmarshal(data, &bs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return bs, nil
}

func (st *Store) persist(ctx context.Context, bs []Booking) error {
	if bs == nil {
		bs = []Booking{}
	}
	data, err := json.Marshal(bs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return st.s.Save(ctx, collection, data)
}

// CreateIfNoneOpen records a new booking request. Only one open booking
// may exist at a time; a second request is rejected with
// ErrActiveBooking until the current one is accepted or purged.
func (st *Store) CreateIfNoneOpen(ctx context.Context, w Window) (Booking, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	bs, err := st.load(ctx)
	if err != nil {
		return Booking{}, err
	}
	for _, b := range bs {
		if b.Open() {
			return Booking{}, ErrActiveBooking
		}
	}
	b := Booking{Window: w}
	bs = append(bs, b)
	if err := st.persist(ctx, bs); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func (st *Store) Get(ctx context.Context, w Window) (Booking, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	bs, err := st.load(ctx)
	if err != nil {
		return Booking{}, err
	}
	for _, b := range bs {
		if b.Window.Equal(w) {
			return b, nil
		}
	}
	return Booking{}, ErrNotFound
}

func (st *Store) All(ctx context.Context) ([]Booking, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.load(ctx)
}

// PendingFor returns the bookings on which the sitter holds a pending
// offer, sorted by window. The order is what disambiguation prompts are
// numbered by, and a follow-up numeric reply indexes the same order.
func (st *Store) PendingFor(ctx context.Context, sitter string) ([]Booking, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	bs, err := st.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []Booking
	for _, b := range bs {
		if o, ok := b.OfferFor(sitter); ok && o.Status == OfferPending {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.Before(out[j].Window) })
	return out, nil
}

// AcceptedBy returns the booking the sitter has accepted, if any.
func (st *Store) AcceptedBy(ctx context.Context, sitter string) (Booking, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	bs, err := st.load(ctx)
	if err != nil {
		return Booking{}, false, err
	}
	for _, b := range bs {
		if o, ok := b.OfferFor(sitter); ok && o.Status == OfferAccepted {
			return b, true, nil
		}
	}
	return Booking{}, false, nil
}

// RecordOffer adds a pending offer for the sitter. A sitter gets at most
// one offer per booking, ever; re-approaching after a timeout leaves the
// original offer (and its OfferedAt) alone.
func (st *Store) RecordOffer(ctx context.Context, w Window, sitter string, at time.Time) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	bs, err := st.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(bs, w)
	if i < 0 {
		return ErrNotFound
	}
	if _, ok := bs[i].OfferFor(sitter); ok {
		return ErrDuplicateOffer
	}
	bs[i].Offers = append(bs[i].Offers, Offer{Sitter: sitter, Status: OfferPending, OfferedAt: at})
	return st.persist(ctx, bs)
}

// ResolveOffer applies the sitter's answer to their offer. The returned
// booking is the current state, also on error, so callers can tell a
// repeat accept from a stale decline. Exactly one resolution per sitter
// per booking: a resolved offer never changes again, and only one offer
// on a booking may ever reach accepted.
func (st *Store) ResolveOffer(ctx context.Context, w Window, sitter string, accept bool) (Booking, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	bs, err := st.load(ctx)
	if err != nil {
		return Booking{}, err
	}
	i := indexOf(bs, w)
	if i < 0 {
		return Booking{}, ErrNotFound
	}
	b := bs[i]
	o, ok := b.OfferFor(sitter)
	if !ok {
		return b, ErrNoSuchOffer
	}
	if accept {
		if a, ok := b.Accepted(); ok && a.Sitter != sitter {
			return b, ErrAlreadyBooked
		}
	}
	if o.Status != OfferPending {
		return b, ErrAlreadyResolved
	}

	status := OfferDeclined
	if accept {
		status = OfferAccepted
	}
	for j := range bs[i].Offers {
		if bs[i].Offers[j].Sitter == sitter {
			bs[i].Offers[j].Status = status
		}
	}
	if err := st.persist(ctx, bs); err != nil {
		return b, err
	}
	return bs[i], nil
}

// PurgeExhausted removes bookings every named sitter has declined and
// returns the removed ones.
func (st *Store) PurgeExhausted(ctx context.Context, sitterNames []string) ([]Booking, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	bs, err := st.load(ctx)
	if err != nil {
		return nil, err
	}
	var kept, removed []Booking
	for _, b := range bs {
		if b.ExhaustedBy(sitterNames) {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if err := st.persist(ctx, kept); err != nil {
		return nil, err
	}
	return removed, nil
}

func indexOf(bs []Booking, w Window) int {
	for i, b := range bs {
		if b.Window.Equal(w) {
			return i
		}
	}
	return -1
}
