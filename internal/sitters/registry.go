// Package sitters owns the sitter roster: who can be offered a booking
// and how to reach them.
package sitters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/example/sitterbot/internal/store"
)

const collection = "sitters"

var (
	ErrAlreadyExists = errors.New("sitter already exists")
	ErrNotFound      = errors.New("sitter not found")
)

// Sitter is a registered provider. Name is the lower-cased first name
// the booker registered them under, and the key they are addressed by.
// NextAction briefly holds "accept" or "decline" while the bot waits for
// the sitter to say which booking a yes/no was about.
type Sitter struct {
	Name       string `json:"name"`
	Number     string `json:"number"`
	NextAction string `json:"next_action,omitempty"`
}

// Title returns the name capitalized for messages ("amy" -> "Amy").
func (s Sitter) Title() string {
	return cases.Title(language.English).String(s.Name)
}

// NormalizeNumber strips everything but digits from raw, requires
// exactly ten of them, and prefixes the country code.
func NormalizeNumber(raw, countryCode string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() != 10 {
		return "", fmt.Errorf("want a 10-digit number, got %d digits", digits.Len())
	}
	return "+" + countryCode + digits.String(), nil
}

// Registry is the only writer of the sitters collection. Mutations
// reload, change, and persist the full roster under one mutex; the
// scheduler and inbound handlers read through it concurrently.
type Registry struct {
	mu sync.Mutex
	s  store.Store
}

func NewRegistry(s store.Store) *Registry {
	return &Registry{s: s}
}

func (r *Registry) load(ctx context.Context) ([]Sitter, error) {
	data, err := r.s.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var ss []Sitter
	if err := json.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return ss, nil
}

func (r *Registry) persist(ctx context.Context, ss []Sitter) error {
	if ss == nil {
		ss = []Sitter{}
	}
	data, err := json.Marshal(ss)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return r.s.Save(ctx, collection, data)
}

// Add registers a sitter under the case-folded name. Names are unique;
// to change a number the booker removes and re-adds.
func (r *Registry) Add(ctx context.Context, name, number string) (Sitter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Sitter{}, fmt.Errorf("sitter name is empty")
	}
	ss, err := r.load(ctx)
	if err != nil {
		return Sitter{}, err
	}
	for _, s := range ss {
		if s.Name == name {
			return Sitter{}, ErrAlreadyExists
		}
	}
	s := Sitter{Name: name, Number: number}
	ss = append(ss, s)
	if err := r.persist(ctx, ss); err != nil {
		return Sitter{}, err
	}
	return s, nil
}

func (r *Registry) Remove(ctx context.Context, name string) (Sitter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	ss, err := r.load(ctx)
	if err != nil {
		return Sitter{}, err
	}
	for i, s := range ss {
		if s.Name == name {
			ss = append(ss[:i], ss[i+1:]...)
			if err := r.persist(ctx, ss); err != nil {
				return Sitter{}, err
			}
			return s, nil
		}
	}
	return Sitter{}, ErrNotFound
}

// LookupByNumber resolves a sender number back to a sitter. A miss means
// the sender is not a registered sitter (they may be the booker, or a
// stranger).
func (r *Registry) LookupByNumber(ctx context.Context, number string) (Sitter, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ss, err := r.load(ctx)
	if err != nil {
		return Sitter{}, false, err
	}
	for _, s := range ss {
		if s.Number == number {
			return s, true, nil
		}
	}
	return Sitter{}, false, nil
}

// All returns the roster in registration order, which is the order the
// scheduler approaches sitters in.
func (r *Registry) All(ctx context.Context) ([]Sitter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// SetNextAction remembers which action a yes/no reply asked for while
// the bot waits for the sitter to pick a booking by number.
func (r *Registry) SetNextAction(ctx context.Context, name, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ss, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range ss {
		if ss[i].Name == name {
			ss[i].NextAction = action
			return r.persist(ctx, ss)
		}
	}
	return ErrNotFound
}

// NextAction returns the stored disambiguation action without clearing
// it; an out-of-range pick re-prompts with the same action.
func (r *Registry) NextAction(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ss, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range ss {
		if s.Name == name {
			return s.NextAction, nil
		}
	}
	return "", ErrNotFound
}

// ClearNextAction drops the stored disambiguation action once a reply
// has been fully resolved.
func (r *Registry) ClearNextAction(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ss, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range ss {
		if ss[i].Name == name {
			if ss[i].NextAction == "" {
				return nil
			}
			ss[i].NextAction = ""
			return r.persist(ctx, ss)
		}
	}
	return ErrNotFound
}
