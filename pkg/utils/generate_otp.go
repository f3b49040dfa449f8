package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

func GenerateOTP(digits int) (string, error) {
	max := uint64(1)
	for i := 0; i < digits; i++ {
		max *= 10
	}

	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	num := binary.LittleEndian.Uint64(b) % max
	format := fmt.Sprintf("%%0%dd", digits)
	return fmt.Sprintf(format, num), nil
}

// GenerateRandomToken returns a hex string of n random bytes, used for
// refresh tokens.
func GenerateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
