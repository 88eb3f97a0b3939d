package device

import (
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrTooShort occurs when a colour string has fewer than the seven
	// characters needed to hold "#RRGGBB".
	ErrTooShort = errors.New("colour string too short")
	// ErrInvalidHexDigit occurs when one of the six characters following the
	// leading '#' is not a hexadecimal digit.
	ErrInvalidHexDigit = errors.New("invalid hex digit in colour")
)

// Colour is an RGB triplet as sent to the device, one byte per channel.
type Colour struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// ParseColour accepts a hex string - i.e. "#FF00EE" - and generates a
// `Colour`. The leading character is skipped without being checked, and
// anything after the seventh character is ignored. Length is counted in
// characters, so "#ééé" is too short rather than malformed.
func ParseColour(s string) (Colour, error) {
	if utf8.RuneCountInString(s) < 7 {
		return Colour{}, fmt.Errorf("parse colour %q: %w", s, ErrTooShort)
	}

	var b [3]byte
	if _, err := hex.Decode(b[:], []byte(s[1:7])); err != nil {
		return Colour{}, fmt.Errorf("parse colour %q: %w (%v)", s, ErrInvalidHexDigit, err)
	}

	return Colour{b[0], b[1], b[2]}, nil
}

// ColourFromValues accepts raw RGB byte values and generates a `Colour`.
func ColourFromValues(red, green, blue uint8) Colour {
	return Colour{red, green, blue}
}

func (c Colour) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.Red, c.Green, c.Blue)
}

func (c Colour) raw() []byte {
	return []byte{c.Red, c.Green, c.Blue}
}
