package notify

import (
	"context"
	"errors"
	"fmt"

	"rsvp-whatsapp/internal/config"
	"rsvp-whatsapp/internal/models"
)

// Result reports the outcome of one confirmation send.
type Result struct {
	Status    string
	MessageID string
}

const (
	StatusSkipped = "skipped"
	StatusSent    = "sent"
)

// ErrMissingCredentials is returned when the selected provider is not fully
// configured. Persistence is unaffected; only the confirmation is lost.
var ErrMissingCredentials = errors.New("provider credentials missing")

// DispatchError carries the remote status and message of a failed send.
type DispatchError struct {
	StatusCode int
	Body       string
}

func (e *DispatchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("provider send failed: %s", e.Body)
}

// Sender sends an RSVP confirmation to a normalized phone number. There are
// no retries and no queuing; a failure is the caller's to report.
type Sender interface {
	Send(ctx context.Context, toE164 string, r models.RSVP) (*Result, error)
}

// NewSender resolves the configured provider once at startup.
func NewSender(cfg *config.Config) (Sender, error) {
	switch cfg.Provider {
	case config.ProviderNone:
		return &NoopSender{}, nil
	case config.ProviderCloudAPI:
		return NewCloudAPISender(cfg), nil
	case config.ProviderTwilio:
		return NewTwilioSender(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported PROVIDER %q", cfg.Provider)
	}
}

// NoopSender skips sending entirely.
type NoopSender struct{}

func (*NoopSender) Send(ctx context.Context, toE164 string, r models.RSVP) (*Result, error) {
	return &Result{Status: StatusSkipped}, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateRunes limits s to n characters. The form is bilingual, so the
// limit counts runes rather than bytes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
