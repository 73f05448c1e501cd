package sms

import (
	"encoding/xml"
	"net/http"
)

type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// WriteTwiML writes the webhook reply Twilio texts back to the sender.
// An empty message writes an empty <Response/>, which sends nothing.
func WriteTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(twiml{Message: message})
}
