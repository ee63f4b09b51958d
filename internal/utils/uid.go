package utils

import (
	"crypto/rand"
	"fmt"
	"io"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// base62 alphabet for ticket uids; no separator/ambiguity handling needed
// because the uid is machine-generated and copy-pasted as a whole.
const uidAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const uidLength = 8

// NewTicketUID generates a human-readable ticket identifier of the form
// "T-XXXXXXXX" with 8 base62 characters (62^8 ≈ 2.18e14 combinations).
// Uniqueness is still enforced by the tickets primary key; the repository
// retries a bounded number of times on the vanishingly rare collision.
func NewTicketUID() (string, error) {
	id, err := gonanoid.Generate(uidAlphabet, uidLength)
	if err != nil {
		return "", err
	}
	return "T-" + id, nil
}

// NewVerificationCode returns a 6-digit numeric code for e-mail
// verification, drawn from the crypto random source.
func NewVerificationCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	code := ""
	for _, b := range buf {
		code += fmt.Sprintf("%d", int(b)%10)
	}
	return code, nil
}
