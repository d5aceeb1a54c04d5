package utils

import "strings"

// HasSpecialChar reports whether the string contains at least one special
// character, for password strength checks.
func HasSpecialChar(s string) bool {
	const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?`~"
	for _, char := range s {
		if strings.ContainsRune(specialChars, char) {
			return true
		}
	}
	return false
}
