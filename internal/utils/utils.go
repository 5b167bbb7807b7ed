package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	mrand "math/rand"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// NormalizePhone strips all whitespace from a phone number
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// IsValidPhone reports whether the normalized phone number is exactly 10 digits
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// GenerateLuckyCode returns a 6-digit numeric code in [100000, 999999].
// Selection is uniform over the space; callers are responsible for
// uniqueness checks against already-issued codes.
func GenerateLuckyCode() string {
	return fmt.Sprintf("%06d", 100000+mrand.Intn(900000))
}

const braceletAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBraceletCode returns an 8-character code over an alphabet without
// the easily confused characters (no O/0, I/1), for bulk pre-printing.
func GenerateBraceletCode() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(braceletAlphabet))))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			b.WriteByte(braceletAlphabet[mrand.Intn(len(braceletAlphabet))])
			continue
		}
		b.WriteByte(braceletAlphabet[n.Int64()])
	}
	return b.String()
}

// IsValidRedirectPath reports whether path is a safe same-origin redirect
// target: it must start with a single "/" (a second slash would make
// "//evil.com" resolve off-origin) and must not contain a scheme delimiter.
func IsValidRedirectPath(path string) bool {
	if len(path) < 2 || path[0] != '/' || path[1] == '/' {
		return false
	}
	return !strings.Contains(path, ":")
}

// GenerateRandomString generates a URL-safe random string of the given length
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:length], nil
}
