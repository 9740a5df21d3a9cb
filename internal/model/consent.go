package model

import "fmt"

// ConsentKey is the tab store key of the consent choice.
const ConsentKey = "nl_consent"

// ConsentChoice is the cookie preference declared through the banner.
type ConsentChoice string

const (
	ConsentUnknown   ConsentChoice = "unknown"
	ConsentRefused   ConsentChoice = "refused"
	ConsentNecessary ConsentChoice = "necessary"
	ConsentAll       ConsentChoice = "all"
)

// ParseConsentChoice converts raw input into a ConsentChoice.
// ConsentUnknown is not a valid input.
func ParseConsentChoice(s string) (ConsentChoice, error) {
	switch c := ConsentChoice(s); c {
	case ConsentRefused, ConsentNecessary, ConsentAll:
		return c, nil
	default:
		return ConsentUnknown, fmt.Errorf("%w: %q", ErrInvalidConsent, s)
	}
}
