package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"rsvp-whatsapp/internal/config"
	"rsvp-whatsapp/internal/models"
)

const twilioBodyLimit = 1500

// TwilioSender sends confirmations as freeform WhatsApp messages through
// the Twilio messaging relay.
type TwilioSender struct {
	from   string
	client *twilio.RestClient
}

// NewTwilioSender creates a Twilio sender from the provider credentials in
// cfg. Credential presence is checked on Send so a misconfigured provider
// degrades to a failed confirmation instead of refusing to start.
func NewTwilioSender(cfg *config.Config) *TwilioSender {
	s := &TwilioSender{from: cfg.TwilioWhatsAppFrom}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		return s
	}

	base := &twclient.Client{
		Credentials: twclient.NewCredentials(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
		HTTPClient:  &http.Client{Timeout: 20 * time.Second},
	}
	base.SetAccountSid(cfg.TwilioAccountSID)
	s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
		Client:   base,
	})
	return s
}

// confirmationBody composes the fixed-format confirmation text.
func confirmationBody(r models.RSVP) string {
	body := fmt.Sprintf(
		"Hi %s! Thanks for your RSVP.\n"+
			"DOB: %s | Age: %d\n"+
			"Address: %s\n"+
			"Education: %s | Occupation: %s\n"+
			"Host: %s | Attended before: %s\n"+
			"Source: %s",
		r.FullName, r.DateOfBirth, r.AgeYears, r.FullAddress,
		r.Education, r.Occupation, r.IsHost, r.AttendedBefore, r.Referral,
	)
	return truncateRunes(body, twilioBodyLimit)
}

func (s *TwilioSender) Send(ctx context.Context, toE164 string, r models.RSVP) (*Result, error) {
	if s.client == nil || s.from == "" {
		return nil, fmt.Errorf("%w: twilio needs TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_FROM", ErrMissingCredentials)
	}

	to := toE164
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(confirmationBody(r))

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return nil, &DispatchError{Body: err.Error()}
	}

	result := &Result{Status: StatusSent}
	if msg.Sid != nil {
		result.MessageID = *msg.Sid
	}
	if msg.Status != nil {
		result.Status = *msg.Status
	}
	return result, nil
}
