package checkout

import "strings"

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber groups digits in blocks of four, e.g. "4111 1111 1111 1111".
func FormatCardNumber(s string) string {
	digits := onlyDigits(s)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return truncate(b.String(), 19)
}

// FormatExpiry renders "MMYY" as "MM/YY".
func FormatExpiry(s string) string {
	digits := onlyDigits(s)
	if len(digits) < 2 {
		return digits
	}
	return truncate(digits[:2]+"/"+digits[2:], 5)
}

func FormatCVV(s string) string {
	return truncate(onlyDigits(s), 3)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// last4 returns the trailing four digits of a card number.
func last4(cardNumber string) string {
	digits := onlyDigits(cardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
