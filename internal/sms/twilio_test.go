package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioSend(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.FormValue("To")
		gotFrom = r.FormValue("From")
		gotBody = r.FormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewTwilio("AC123", "secret", "+15550002222")
	c.BaseURL = srv.URL

	err := c.Send(context.Background(), "+15551234567", "hello")
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, "+15551234567", gotTo)
	assert.Equal(t, "+15550002222", gotFrom)
	assert.Equal(t, "hello", gotBody)
}

func TestTwilioSend_ErrorIncludesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"The 'To' number is not a valid phone number."}`))
	}))
	defer srv.Close()

	c := NewTwilio("AC123", "secret", "+15550002222")
	c.BaseURL = srv.URL

	err := c.Send(context.Background(), "bogus", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid phone number")
}

func TestWriteTwiML(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteTwiML(rec, "Okay, no problem, Amy!  Next time.")

	assert.Equal(t, "text/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<Response><Message>Okay, no problem, Amy!  Next time.</Message></Response>")
}

func TestWriteTwiML_Empty(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteTwiML(rec, "")

	assert.Contains(t, rec.Body.String(), "<Response></Response>")
}
