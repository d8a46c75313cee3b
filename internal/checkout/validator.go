package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationResult carries the first failing check's message, or ok. Only
// one message surfaces per attempt.
type ValidationResult struct {
	OK      bool
	Message string
}

var (
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2}|\d{4})$`)
	cvvRe    = regexp.MustCompile(`^\d{3}$`)
)

func ok() ValidationResult {
	return ValidationResult{OK: true}
}

func fail(msg string) ValidationResult {
	return ValidationResult{Message: msg}
}

// Validate runs the card checks in fixed order, short-circuiting on the
// first failure: card number, then expiry, then CVV. These are structural
// checks only; no authorization happens here.
func Validate(cardNumber, expiry, cvv string, now time.Time) ValidationResult {
	cardNumber = strings.ReplaceAll(cardNumber, " ", "")
	if !isDigits(cardNumber) || len(cardNumber) != 16 {
		return fail("Card number must be exactly 16 digits.")
	}

	m := expiryRe.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return fail("Invalid expiry format.")
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if year < 100 {
		year += 2000
	}

	// A card is good through the last instant of its expiry month: first
	// day of the following month minus one millisecond.
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, 1, 0).
		Add(-time.Millisecond)
	if endOfMonth.Before(now) {
		return fail("Card expired.")
	}

	if !cvvRe.MatchString(strings.TrimSpace(cvv)) {
		return fail("CVV must be exactly 3 digits.")
	}

	return ok()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
