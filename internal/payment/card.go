package payment

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Card is a payment card as entered by the guardian. The portal never stores
// card data; it is validated and handed to the gateway in one request.
type Card struct {
	Number   string
	Holder   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

var (
	ErrCardNumber = errors.New("card: invalid number")
	ErrCardExpiry = errors.New("card: expired or invalid expiry")
	ErrCardCVC    = errors.New("card: invalid security code")
	ErrCardHolder = errors.New("card: holder name is required")
)

// Luhn reports whether the digit string passes the Luhn checksum.
func Luhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return len(number) > 0 && sum%10 == 0
}

// Normalize strips spaces and dashes from the card number.
func (c Card) Normalize() Card {
	var b strings.Builder
	for _, r := range c.Number {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	c.Number = b.String()
	c.Holder = strings.TrimSpace(c.Holder)
	c.CVC = strings.TrimSpace(c.CVC)
	return c
}

// Validate checks number, expiry and security code against the reference time.
func (c Card) Validate(now time.Time) error {
	c = c.Normalize()
	if len(c.Number) < 12 || len(c.Number) > 19 || !Luhn(c.Number) {
		return ErrCardNumber
	}
	if c.Holder == "" {
		return ErrCardHolder
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 {
		return ErrCardExpiry
	}
	year := c.ExpYear
	if year < 100 {
		year += 2000
	}
	// A card is valid through the last day of its expiry month.
	endOfMonth := time.Date(year, time.Month(c.ExpMonth), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	if !now.Before(endOfMonth) {
		return ErrCardExpiry
	}
	if len(c.CVC) < 3 || len(c.CVC) > 4 {
		return ErrCardCVC
	}
	for _, r := range c.CVC {
		if !unicode.IsDigit(r) {
			return ErrCardCVC
		}
	}
	return nil
}

// Last4 returns the trailing four digits for display on receipts.
func (c Card) Last4() string {
	n := c.Normalize().Number
	if len(n) < 4 {
		return n
	}
	return n[len(n)-4:]
}
