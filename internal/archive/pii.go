package archive

import (
	"crypto/sha256"
	"fmt"
	"regexp"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// Ten-digit Mexican numbers, optionally with the +52 country code.
	phoneRe = regexp.MustCompile(`(?:\+?52[-.\s]?)?\(?[0-9]{2,3}\)?[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{4}`)
)

// HashText returns the hex-encoded SHA-256 hash of s.
func HashText(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}

// ScrubPII replaces emails with [EMAIL] and phone numbers with [PHONE].
// Symptom and product wording is kept.
func ScrubPII(text string) string {
	text = emailRe.ReplaceAllString(text, "[EMAIL]")
	text = phoneRe.ReplaceAllString(text, "[PHONE]")
	return text
}
