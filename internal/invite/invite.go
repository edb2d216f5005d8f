// Package invite generates the short shareable codes used to join a family group.
package invite

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// CodeLength is the length of a generated invite code
const CodeLength = 8

// Generate produces a new invite code: 4 random bytes rendered
// as 8 uppercase hex characters
func Generate() (string, error) {
	bytes := make([]byte, CodeLength/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(bytes)), nil
}

// Ensure returns code unchanged when one is already present, otherwise
// generates a fresh one. A group's code is assigned exactly once
func Ensure(code string) (string, error) {
	if code != "" {
		return code, nil
	}
	return Generate()
}

// Normalize uppercases a user-supplied code for lookup. Codes are stored
// and compared uppercase
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
