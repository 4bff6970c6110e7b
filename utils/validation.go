// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}

// NormalizeEmail lowercases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
