package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Twilio sends SMS through the Twilio REST API. Sends are rate limited
// so a busy scheduler tick cannot burst past Twilio's per-number limits.
type Twilio struct {
	hc      *http.Client
	limiter *rate.Limiter

	accountSID string
	authToken  string
	from       string

	// BaseURL is overridable for tests.
	BaseURL string
}

func NewTwilio(accountSID, authToken, from string) *Twilio {
	return &Twilio{
		hc:         &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		BaseURL:    "https://api.twilio.com",
	}
}

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{
		"To":   {to},
		"From": {t.from},
		"Body": {body},
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.BaseURL, t.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	res, err := t.hc.Do(req)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		// Twilio returns a message field on errors.
		var r struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&r)
		if r.Message != "" {
			return fmt.Errorf("twilio send failed: %s (status=%d)", r.Message, res.StatusCode)
		}
		return fmt.Errorf("twilio send failed (status=%d)", res.StatusCode)
	}
	return nil
}
