package payment

import (
	"errors"
	"testing"
	"time"
)

func validCard() Card {
	return Card{
		Number:   "4242 4242 4242 4242",
		Holder:   "Somchai P.",
		ExpMonth: 12,
		ExpYear:  2030,
		CVC:      "123",
	}
}

func TestLuhn(t *testing.T) {
	cases := []struct {
		number string
		want   bool
	}{
		{"4242424242424242", true},
		{"4111111111111111", true},
		{"4242424242424241", false},
		{"1234567812345678", false},
		{"", false},
		{"4242abcd42424242", false},
	}
	for _, tc := range cases {
		if got := Luhn(tc.number); got != tc.want {
			t.Fatalf("Luhn(%q) = %v, want %v", tc.number, got, tc.want)
		}
	}
}

func TestCardValidate(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	if err := validCard().Validate(now); err != nil {
		t.Fatalf("valid card rejected: %v", err)
	}

	c := validCard()
	c.Number = "4242424242424241"
	if err := c.Validate(now); !errors.Is(err, ErrCardNumber) {
		t.Fatalf("expected number error, got %v", err)
	}

	c = validCard()
	c.ExpMonth = 7
	c.ExpYear = 2026
	if err := c.Validate(now); !errors.Is(err, ErrCardExpiry) {
		t.Fatalf("expected expiry error for past month, got %v", err)
	}

	// A card expiring this month is still valid.
	c = validCard()
	c.ExpMonth = 8
	c.ExpYear = 2026
	if err := c.Validate(now); err != nil {
		t.Fatalf("card expiring this month rejected: %v", err)
	}

	c = validCard()
	c.ExpYear = 31
	if err := c.Validate(now); err != nil {
		t.Fatalf("two digit year not accepted: %v", err)
	}

	c = validCard()
	c.CVC = "12"
	if err := c.Validate(now); !errors.Is(err, ErrCardCVC) {
		t.Fatalf("expected cvc error, got %v", err)
	}

	c = validCard()
	c.Holder = "  "
	if err := c.Validate(now); !errors.Is(err, ErrCardHolder) {
		t.Fatalf("expected holder error, got %v", err)
	}
}

func TestCardLast4(t *testing.T) {
	if got := validCard().Last4(); got != "4242" {
		t.Fatalf("expected 4242, got %s", got)
	}
}
