/*
Package randx provides functions for generating cryptographically secure random
identifiers: opaque account tokens and UUID entity ids.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// AccountTokenLength is the fixed length of opaque bearer tokens issued at signup.
	AccountTokenLength = 64
)

// base62String generates a random Base62 string of the given length using crypto/rand.
func base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// AccountToken generates the opaque bearer token stored on a user record.
// It returns a Base62 string of length AccountTokenLength.
func AccountToken() (string, error) {
	return base62String(AccountTokenLength)
}

// ID generates a standard UUID v4 string used as a unique entity identifier.
func ID() string {
	return uuid.New().String()
}

// IsValidToken checks if the given string has the shape of an account token:
// length AccountTokenLength with all characters from the Base62 set.
func IsValidToken(token string) bool {
	if len(token) != AccountTokenLength {
		return false
	}

	for _, char := range token {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
