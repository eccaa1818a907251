package phone

import (
	"errors"
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhone is returned when a number cannot be parsed or is not a
// valid number for any region.
var ErrInvalidPhone = errors.New("invalid phone number")

// Normalize parses a free-form phone number against the default region and
// returns it in E.164 format.
func Normalize(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q is not valid for region %s", ErrInvalidPhone, raw, region)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
