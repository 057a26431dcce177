package util

import (
	"errors"
	"regexp"
)

// ErrInvalidUAEPhone is returned for numbers outside the accepted UAE mobile shapes.
var ErrInvalidUAEPhone = errors.New("Please enter a valid UAE phone number. Formats: +9715XXXXXXXX, 05XXXXXXXX, 5XXXXXXXX, or 009715XXXXXXXX")

var (
	phoneStrip = regexp.MustCompile(`[\s\-\(\)\+]`)
	uaeShapes  = []*regexp.Regexp{
		regexp.MustCompile(`^009715(\d{8})$`),
		regexp.MustCompile(`^9715(\d{8})$`),
		regexp.MustCompile(`^05(\d{8})$`),
		regexp.MustCompile(`^5(\d{8})$`),
	}
)

// NormalizeUAEPhone converts any accepted UAE mobile input to +9715XXXXXXXX.
func NormalizeUAEPhone(raw string) (string, error) {
	digits := phoneStrip.ReplaceAllString(raw, "")
	for _, shape := range uaeShapes {
		if m := shape.FindStringSubmatch(digits); m != nil {
			return "+9715" + m[1], nil
		}
	}
	return "", ErrInvalidUAEPhone
}
