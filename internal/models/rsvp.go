package models

import "time"

// RSVP represents one registration row. Records are append-only: a
// correction is a new row, never an update.
type RSVP struct {
	Timestamp      int64  `json:"ts"`
	MobileE164     string `json:"mobile_e164"`
	FullName       string `json:"full_name"`
	DateOfBirth    string `json:"dob"`
	AgeYears       int    `json:"age_years"`
	FullAddress    string `json:"full_address"`
	Education      string `json:"education"`
	Occupation     string `json:"occupation"`
	IsHost         string `json:"is_host"`
	AttendedBefore string `json:"attended_before"`
	Referral       string `json:"referral"`
	PraptiDin      string `json:"p3y_prapti_din"`
	Experience     string `json:"experience"`
	Skill          string `json:"skill"`
	PhotoPath      string `json:"photo_path"`
}

// Answer values used for the Yes/No selects.
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
)

// ReferralOther marks the select option that enables the free-text field.
const ReferralOther = "Other (type below)"

// ReferralOptions are the choices offered for "how did you hear about this?".
var ReferralOptions = []string{
	"Friend/परिचित",
	"WhatsApp",
	"Facebook/Instagram",
	"Flyer/Poster",
	"Organizer",
	ReferralOther,
}

// CalcAge returns whole years between dob and today. A birthday falling on
// today counts as completed. Never negative.
func CalcAge(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
