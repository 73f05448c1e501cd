// Package sms is the outbound/inbound message transport boundary: a
// Messenger for sending texts, a Twilio-backed implementation, and the
// TwiML reply rendering for the inbound webhook.
package sms

import (
	"context"
	"log/slog"
)

// Messenger sends a text message to a phone number. Implementations own
// the from-number.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}

// Notify sends fire-and-forget: the state transition that triggered it
// is already persisted, so a transport failure is retried once and then
// logged, never propagated.
func Notify(ctx context.Context, log *slog.Logger, m Messenger, to, body string) {
	err := m.Send(ctx, to, body)
	if err == nil {
		return
	}
	log.Warn("send failed, retrying", "to", to, "error", err)
	if err := m.Send(ctx, to, body); err != nil {
		log.Error("send failed", "to", to, "error", err)
	}
}
