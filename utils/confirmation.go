package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"regexp"
	"strings"
	"time"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

const (
	confirmationPrefix  = "SHB"
	confirmationCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	confirmationRandLen = 6
)

// GenerateConfirmationCode produces a human-facing booking code such as
// "SHB20250601-K4P9XD": fixed prefix, an 8-digit stamp of the creation
// date, a hyphen and 6 random A-Z0-9 characters. crypto/rand + rand.Int
// keeps it modulo-bias free and safe under concurrent booking creation —
// no shared counter involved. Uniqueness is ultimately enforced by the
// unique index on bookings.confirmation_code; callers retry on collision.
func GenerateConfirmationCode(createdAt time.Time) (string, error) {
	suffix, err := randomCode(confirmationRandLen)
	if err != nil {
		return "", err
	}
	return confirmationPrefix + createdAt.Format("20060102") + "-" + suffix, nil
}

func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(confirmationCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(confirmationCharset[num.Int64()])
	}
	return sb.String(), nil
}

var confirmationCodeRe = regexp.MustCompile(`^` + confirmationPrefix + `\d{8}-[A-Z0-9]{6}$`)

// IsValidConfirmationCodeFormat reports whether the string looks like a
// code this generator produced. It does not check the code exists.
func IsValidConfirmationCodeFormat(code string) bool {
	return confirmationCodeRe.MatchString(strings.TrimSpace(code))
}
