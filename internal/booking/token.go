package booking

import (
	"crypto/rand"
	"fmt"
)

// Confirmation codes avoid characters that are easy to misread (I, O, 0, 1).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 6
)

// NewConfirmationCode returns a random code drawn from codeAlphabet.
func NewConfirmationCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate confirmation code failed: %w", err)
	}
	// 256 is a multiple of len(codeAlphabet), so the modulo is unbiased.
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
