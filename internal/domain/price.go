// Package domain contains the core business entities for the recipe service.
package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Price is a fixed-point currency amount stored in hundredths.
// The wire format is a bare JSON number with at most five significant
// digits and at most two of them after the decimal point (so the largest
// representable value is 999.99). Values exceeding that precision are
// rejected at parse time, never truncated.
type Price int64

// MaxPriceCents is the largest Price value, in hundredths.
const MaxPriceCents = 99999

// ParsePrice parses a decimal string such as "23.89" into a Price.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidPrice)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidPrice)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if fracPart == "" {
			return 0, fmt.Errorf("%w: missing digits after decimal point", ErrInvalidPrice)
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidPrice, s)
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("%w: at most 2 decimal places", ErrInvalidPrice)
	}

	// Pad to exactly two fractional digits before assembling cents.
	fracPart += strings.Repeat("0", 2-len(fracPart))

	cents, err := strconv.ParseInt(strings.TrimLeft(intPart, "0")+fracPart, 10, 64)
	if err != nil {
		// Only reachable on overflow; the digit check above catches syntax.
		return 0, fmt.Errorf("%w: out of range", ErrInvalidPrice)
	}
	if cents > MaxPriceCents {
		return 0, fmt.Errorf("%w: at most 5 digits total", ErrInvalidPrice)
	}
	return Price(cents), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// String renders the price with two decimal places, e.g. "23.89".
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

// MarshalJSON encodes the price as a bare JSON number, not a string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON decodes a JSON number into a Price, enforcing the
// precision bounds. Quoted values are rejected.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return fmt.Errorf("%w: must be a number, not a string", ErrInvalidPrice)
	}
	parsed, err := ParsePrice(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
