// Package redact masks app secrets before they reach logs or terminal output.
package redact

import (
	"strings"

	"github.com/google/uuid"
)

// SecretKeyPatterns contains substrings that indicate a key likely holds a secret.
// Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"SECRET",
	"TOKEN",
	"PASSWORD",
	"API_KEY",
	"CREDENTIAL",
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// LooksLikeSecret reports whether value has the shape of an app secret.
// App secrets are issued as UUIDs, so any parseable UUID is treated as one.
func LooksLikeSecret(value string) bool {
	if len(value) != 36 && len(value) != 38 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// Value masks value when either the key or the value itself marks it as secret.
func Value(key, value string) string {
	if ShouldMask(key) || LooksLikeSecret(value) {
		return MaskValue(value)
	}
	return value
}
