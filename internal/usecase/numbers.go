package usecase

import (
	"crypto/rand"
	"time"
)

// 32 symbols without 0/O and 1/I so every byte maps uniformly.
const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// maxNumberAttempts bounds regeneration after a unique-number collision.
const maxNumberAttempts = 3

func randomSymbols(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return string(buf), nil
}

// NewOrderNumber returns a human-shareable order number such as PW-7KQ2MX.
func NewOrderNumber() (string, error) {
	suffix, err := randomSymbols(6)
	if err != nil {
		return "", err
	}
	return "PW-" + suffix, nil
}

// NewInvoiceNumber returns an invoice number such as INV-20240603-8HQ2.
func NewInvoiceNumber(now time.Time) (string, error) {
	suffix, err := randomSymbols(4)
	if err != nil {
		return "", err
	}
	return "INV-" + now.Format("20060102") + "-" + suffix, nil
}
