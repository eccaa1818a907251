package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rsvp-whatsapp/internal/models"
	"rsvp-whatsapp/internal/notify"
	"rsvp-whatsapp/internal/phone"
	"rsvp-whatsapp/internal/storage"
)

// ErrBusy is returned while a previous submission's debounce window is
// still open. Nothing is validated or written in that case.
var ErrBusy = errors.New("a submission is already being processed")

// ValidationError reports a user-fixable problem with a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Submission carries the raw form input for one RSVP.
type Submission struct {
	MobileRaw      string
	FullName       string
	DateOfBirth    string
	FullAddress    string
	Education      string
	Occupation     string
	IsHost         string
	AttendedBefore string
	Referral       string
	ReferralOther  string
	PraptiDin      string
	Experience     string
	Skill          string
	Photo          []byte
	PhotoType      string
}

// Outcome is the result of a completed pipeline run. NotifyErr is set when
// the record was persisted (or already present) but the confirmation send
// failed; the record stays durable either way.
type Outcome struct {
	Record    models.RSVP
	Duplicate bool
	Notified  *notify.Result
	NotifyErr error
}

// Status summarizes the outcome for the user, distinguishing a bare save
// from a save with a delivered confirmation.
func (o *Outcome) Status() string {
	if o.NotifyErr == nil && o.Notified != nil && o.Notified.Status != notify.StatusSkipped {
		return "saved and notified"
	}
	return "saved"
}

// Pipeline runs one submission end to end: debounce, validation, photo
// capture, phone normalization, duplicate check, persistence, dispatch.
type Pipeline struct {
	store  *storage.CSVStore
	photos *storage.PhotoStore
	sender notify.Sender
	gate   *SubmitGate
	region string
	now    func() time.Time
	log    zerolog.Logger
}

// NewPipeline creates a submission pipeline.
func NewPipeline(store *storage.CSVStore, photos *storage.PhotoStore, sender notify.Sender, gate *SubmitGate, region string, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		photos: photos,
		sender: sender,
		gate:   gate,
		region: region,
		now:    time.Now,
		log:    logger,
	}
}

// Submit processes one RSVP. Validation and phone errors abort before any
// write, storage errors abort the whole submission, and dispatch errors are
// downgraded into the outcome.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	if !p.gate.TryAcquire() {
		return nil, ErrBusy
	}

	now := p.now()

	dobRaw := strings.TrimSpace(sub.DateOfBirth)
	if dobRaw == "" {
		return nil, &ValidationError{Field: "dob", Message: "Please select a date of birth."}
	}
	dob, err := time.Parse("2006-01-02", dobRaw)
	if err != nil {
		return nil, &ValidationError{Field: "dob", Message: "Date of birth must be a valid date."}
	}
	age := models.CalcAge(dob, now)
	if age < 0 || age > 120 {
		return nil, &ValidationError{Field: "dob", Message: "DOB/age looks invalid."}
	}
	fullName := strings.TrimSpace(sub.FullName)
	if fullName == "" {
		return nil, &ValidationError{Field: "full_name", Message: "Full name is required."}
	}
	mobileRaw := strings.TrimSpace(sub.MobileRaw)
	if mobileRaw == "" {
		return nil, &ValidationError{Field: "mobile", Message: "Mobile number is required."}
	}
	fullAddress := strings.TrimSpace(sub.FullAddress)
	if fullAddress == "" {
		return nil, &ValidationError{Field: "full_address", Message: "Full address is required."}
	}

	photoPath := ""
	if len(sub.Photo) > 0 {
		prefix := fmt.Sprintf("%d_%s", now.Unix(), digitsOnly(mobileRaw))
		photoPath, err = p.photos.Save(sub.Photo, sub.PhotoType, prefix)
		if err != nil {
			return nil, err
		}
	}

	mobileE164, err := phone.Normalize(mobileRaw, p.region)
	if err != nil {
		return nil, err
	}

	record := models.RSVP{
		Timestamp:      now.Unix(),
		MobileE164:     mobileE164,
		FullName:       fullName,
		DateOfBirth:    dob.Format("2006-01-02"),
		AgeYears:       age,
		FullAddress:    fullAddress,
		Education:      strings.TrimSpace(sub.Education),
		Occupation:     strings.TrimSpace(sub.Occupation),
		IsHost:         yesNo(sub.IsHost),
		AttendedBefore: yesNo(sub.AttendedBefore),
		Referral:       resolveReferral(sub.Referral, sub.ReferralOther),
		PraptiDin:      strings.TrimSpace(sub.PraptiDin),
		Experience:     strings.TrimSpace(sub.Experience),
		Skill:          strings.TrimSpace(sub.Skill),
		PhotoPath:      photoPath,
	}

	// A duplicate is not an error: skip the append but re-send the
	// confirmation, so a user who re-submits after a glitch still gets one.
	duplicate := p.store.Exists(record.MobileE164)
	if duplicate {
		p.log.Info().Str("mobile", record.MobileE164).Msg("Already registered, re-sending confirmation")
	} else if err := p.store.Append(record); err != nil {
		return nil, err
	}

	outcome := &Outcome{Record: record, Duplicate: duplicate}
	res, sendErr := p.sender.Send(ctx, record.MobileE164, record)
	if sendErr != nil {
		p.log.Warn().Err(sendErr).Str("mobile", record.MobileE164).Msg("RSVP saved, but confirmation send failed")
		outcome.NotifyErr = sendErr
	} else {
		outcome.Notified = res
	}
	return outcome, nil
}

func yesNo(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "yes") {
		return models.AnswerYes
	}
	return models.AnswerNo
}

// resolveReferral prefers the free-text source when "Other" was selected
// and something was typed.
func resolveReferral(referral, other string) string {
	other = strings.TrimSpace(other)
	if strings.HasPrefix(referral, "Other") && other != "" {
		return other
	}
	return referral
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
