package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateInviteCode returns an uppercase hex code of n random bytes,
// shared out-of-band with guests of private events.
func GenerateInviteCode(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}
