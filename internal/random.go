package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
)

const resetSecretSize = 32

// NewResetToken generates a raw 256-bit password-reset token. The hex form
// is what gets mailed to the user; only its SHA-256 hash may be persisted.
func NewResetToken() (string, error) {
	var raw [resetSecretSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

// HashResetToken returns the hex SHA-256 digest of a raw reset token.
// The digest is the only form the credential store ever sees.
func HashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

const (
	tempPasswordLength = 16

	tempUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	tempLower   = "abcdefghijklmnopqrstuvwxyz"
	tempDigits  = "0123456789"
	tempSpecial = "!@#$%^&*"
)

// NewTempPassword generates a one-time password for provisioned accounts.
// The first four positions guarantee one character from each class before
// the result is shuffled with fresh entropy.
func NewTempPassword() (string, error) {
	all := tempUpper + tempLower + tempDigits + tempSpecial

	chars := make([]byte, 0, tempPasswordLength)
	for _, class := range []string{tempUpper, tempLower, tempDigits, tempSpecial} {
		c, err := randomFrom(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < tempPasswordLength {
		c, err := randomFrom(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		chars[i], chars[j] = chars[j], chars[i]
	}

	return string(chars), nil
}

func randomFrom(charset string) (byte, error) {
	if charset == "" {
		return 0, errors.New("empty charset")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
